package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// WithdrawalRequest описывает запрос студента на отзыв заявки, ожидающий решения сотрудника.
type WithdrawalRequest struct {
	ID               uuid.UUID
	StudentID        string
	OpportunityID    uuid.UUID
	OpportunityTitle string
	CompanyName      string
	Reason           string
	CreatedAt        time.Time
}

func NewWithdrawalRequest(studentID string, opp *Opportunity, reason string) (*WithdrawalRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "причина отзыва не может быть пустой")
	}
	if opp == nil {
		return nil, apperror.ErrOpportunityNotFound
	}
	return &WithdrawalRequest{
		ID:               uuid.New(),
		StudentID:        studentID,
		OpportunityID:    opp.ID,
		OpportunityTitle: opp.Title,
		CompanyName:      opp.CompanyName,
		Reason:           reason,
		CreatedAt:        time.Now(),
	}, nil
}

func (r *WithdrawalRequest) Targets(opportunityID uuid.UUID) bool {
	return r.OpportunityID == opportunityID
}

type AccountCreationRequest struct {
	UserID      string
	Name        string
	CompanyName string
	Department  string
	Position    string
	CreatedAt   time.Time
}

func NewAccountCreationRequest(userID, name, company, department, position string) (*AccountCreationRequest, error) {
	req := &AccountCreationRequest{
		UserID:      strings.TrimSpace(userID),
		Name:        strings.TrimSpace(name),
		CompanyName: strings.TrimSpace(company),
		Department:  strings.TrimSpace(department),
		Position:    strings.TrimSpace(position),
		CreatedAt:   time.Now(),
	}
	if req.UserID == "" || req.Name == "" || req.CompanyName == "" || req.Department == "" || req.Position == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "все поля запроса на создание аккаунта обязательны")
	}
	return req, nil
}

// ToRepresentative создаёт аккаунт представителя с уже захешированным паролем.
func (r *AccountCreationRequest) ToRepresentative(passwordHash string) *Representative {
	return &Representative{
		Identity:    Identity{ID: r.UserID, Name: r.Name, PasswordHash: passwordHash},
		CompanyName: r.CompanyName,
		Department:  r.Department,
		Position:    r.Position,
	}
}
