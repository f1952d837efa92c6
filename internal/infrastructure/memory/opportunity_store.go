package memory

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// OpportunityStore является единственным владельцем стажировок в памяти процесса.
// Порядок добавления сохраняется во всех выборках.
type OpportunityStore struct {
	items []*entity.Opportunity
	byID  map[uuid.UUID]*entity.Opportunity
}

func NewOpportunityStore(opps ...*entity.Opportunity) *OpportunityStore {
	s := &OpportunityStore{byID: make(map[uuid.UUID]*entity.Opportunity, len(opps))}
	for _, o := range opps {
		_ = s.Add(o)
	}
	return s
}

func (s *OpportunityStore) All() []*entity.Opportunity {
	return append([]*entity.Opportunity(nil), s.items...)
}

func (s *OpportunityStore) ByOwner(repID string) []*entity.Opportunity {
	return s.where(func(o *entity.Opportunity) bool { return o.IsOwnedBy(repID) })
}

func (s *OpportunityStore) ByStatus(status valueobject.OpportunityStatus) []*entity.Opportunity {
	return s.where(func(o *entity.Opportunity) bool { return o.Status == status })
}

func (s *OpportunityStore) ByOwnerAndStatus(repID string, status valueobject.OpportunityStatus) []*entity.Opportunity {
	return s.where(func(o *entity.Opportunity) bool { return o.IsOwnedBy(repID) && o.Status == status })
}

func (s *OpportunityStore) Filter(f entity.Filter) []*entity.Opportunity {
	return s.where(f.Matches)
}

func (s *OpportunityStore) FindByID(id uuid.UUID) (*entity.Opportunity, error) {
	if o, ok := s.byID[id]; ok {
		return o, nil
	}
	return nil, apperror.ErrOpportunityNotFound
}

func (s *OpportunityStore) FindByKey(key entity.OpportunityKey) (*entity.Opportunity, error) {
	for _, o := range s.items {
		if o.Key() == key {
			return o, nil
		}
	}
	return nil, apperror.ErrOpportunityNotFound
}

func (s *OpportunityStore) Add(o *entity.Opportunity) error {
	if o == nil {
		return apperror.New(apperror.ErrCodeValidation, "стажировка не задана")
	}
	if _, exists := s.byID[o.ID]; exists {
		return apperror.Newf(apperror.ErrCodeConflict, "стажировка %s уже существует", o.ID)
	}
	s.items = append(s.items, o)
	s.byID[o.ID] = o
	return nil
}

func (s *OpportunityStore) where(keep func(*entity.Opportunity) bool) []*entity.Opportunity {
	result := make([]*entity.Opportunity, 0)
	for _, o := range s.items {
		if keep(o) {
			result = append(result, o)
		}
	}
	return result
}
