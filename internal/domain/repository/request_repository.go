package repository

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
)

// RequestRepository хранит очереди запросов, ожидающих решения сотрудника, в порядке поступления.
type RequestRepository interface {
	AddWithdrawal(r *entity.WithdrawalRequest)
	RemoveWithdrawal(id uuid.UUID) error
	Withdrawals() []*entity.WithdrawalRequest
	WithdrawalsByStudent(studentID string) []*entity.WithdrawalRequest
	FindWithdrawal(id uuid.UUID) (*entity.WithdrawalRequest, error)

	AddAccountRequest(r *entity.AccountCreationRequest)
	RemoveAccountRequest(userID string) error
	AccountRequests() []*entity.AccountCreationRequest
	FindAccountRequest(userID string) (*entity.AccountCreationRequest, error)
}
