package repository

import (
	"context"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
)

// Snapshot содержит полное состояние системы, загружаемое при старте и сохраняемое после действия.
type Snapshot struct {
	Students           []*entity.Student
	Staff              []*entity.Staff
	Representatives    []*entity.Representative
	Opportunities      []*entity.Opportunity
	WithdrawalRequests []*entity.WithdrawalRequest
	AccountRequests    []*entity.AccountCreationRequest
}

type Snapshotter interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}
