package withdrawal

import (
	"context"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type ListWithdrawalsUseCase struct {
	requestRepo repository.RequestRepository
}

func NewListWithdrawalsUseCase(requestRepo repository.RequestRepository) *ListWithdrawalsUseCase {
	return &ListWithdrawalsUseCase{requestRepo: requestRepo}
}

// Execute: сотрудник видит всю очередь, студент видит только свои запросы.
func (uc *ListWithdrawalsUseCase) Execute(ctx context.Context, session *entity.Session) ([]*entity.WithdrawalRequest, error) {
	if session == nil {
		return nil, apperror.ErrUnauthorized
	}

	switch account := session.Account.(type) {
	case *entity.Staff:
		return uc.requestRepo.Withdrawals(), nil
	case *entity.Student:
		return uc.requestRepo.WithdrawalsByStudent(account.ID), nil
	default:
		return nil, apperror.ErrForbidden
	}
}
