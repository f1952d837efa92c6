package memory

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// RequestQueue хранит запросы на отзыв и на создание аккаунтов в порядке поступления.
type RequestQueue struct {
	withdrawals []*entity.WithdrawalRequest
	accounts    []*entity.AccountCreationRequest
}

func NewRequestQueue(withdrawals []*entity.WithdrawalRequest, accounts []*entity.AccountCreationRequest) *RequestQueue {
	return &RequestQueue{
		withdrawals: append([]*entity.WithdrawalRequest(nil), withdrawals...),
		accounts:    append([]*entity.AccountCreationRequest(nil), accounts...),
	}
}

func (q *RequestQueue) AddWithdrawal(r *entity.WithdrawalRequest) {
	q.withdrawals = append(q.withdrawals, r)
}

func (q *RequestQueue) RemoveWithdrawal(id uuid.UUID) error {
	for i, r := range q.withdrawals {
		if r.ID == id {
			q.withdrawals = append(q.withdrawals[:i], q.withdrawals[i+1:]...)
			return nil
		}
	}
	return apperror.ErrWithdrawalRequestNotFound
}

func (q *RequestQueue) Withdrawals() []*entity.WithdrawalRequest {
	return append([]*entity.WithdrawalRequest(nil), q.withdrawals...)
}

func (q *RequestQueue) WithdrawalsByStudent(studentID string) []*entity.WithdrawalRequest {
	result := make([]*entity.WithdrawalRequest, 0)
	for _, r := range q.withdrawals {
		if r.StudentID == studentID {
			result = append(result, r)
		}
	}
	return result
}

func (q *RequestQueue) FindWithdrawal(id uuid.UUID) (*entity.WithdrawalRequest, error) {
	for _, r := range q.withdrawals {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperror.ErrWithdrawalRequestNotFound
}

func (q *RequestQueue) AddAccountRequest(r *entity.AccountCreationRequest) {
	q.accounts = append(q.accounts, r)
}

func (q *RequestQueue) RemoveAccountRequest(userID string) error {
	for i, r := range q.accounts {
		if r.UserID == userID {
			q.accounts = append(q.accounts[:i], q.accounts[i+1:]...)
			return nil
		}
	}
	return apperror.ErrAccountRequestNotFound
}

func (q *RequestQueue) AccountRequests() []*entity.AccountCreationRequest {
	return append([]*entity.AccountCreationRequest(nil), q.accounts...)
}

func (q *RequestQueue) FindAccountRequest(userID string) (*entity.AccountCreationRequest, error) {
	for _, r := range q.accounts {
		if r.UserID == userID {
			return r, nil
		}
	}
	return nil, apperror.ErrAccountRequestNotFound
}
