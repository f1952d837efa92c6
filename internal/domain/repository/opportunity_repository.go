package repository

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
)

// OpportunityRepository хранит стажировки вместе с их заявками.
// Выборки не возвращают ошибок: при отсутствии данных возвращается пустой срез.
type OpportunityRepository interface {
	All() []*entity.Opportunity
	ByOwner(repID string) []*entity.Opportunity
	ByStatus(status valueobject.OpportunityStatus) []*entity.Opportunity
	ByOwnerAndStatus(repID string, status valueobject.OpportunityStatus) []*entity.Opportunity
	Filter(f entity.Filter) []*entity.Opportunity
	FindByID(id uuid.UUID) (*entity.Opportunity, error)
	FindByKey(key entity.OpportunityKey) (*entity.Opportunity, error)
	Add(o *entity.Opportunity) error
}
