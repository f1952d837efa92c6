package valueobject

import (
	"strings"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type OpportunityStatus string

const (
	OpportunityStatusPending  OpportunityStatus = "PENDING"
	OpportunityStatusApproved OpportunityStatus = "APPROVED"
	OpportunityStatusRejected OpportunityStatus = "REJECTED"
	OpportunityStatusFilled   OpportunityStatus = "FILLED"
)

func (s OpportunityStatus) IsValid() bool {
	switch s {
	case OpportunityStatusPending, OpportunityStatusApproved, OpportunityStatusRejected, OpportunityStatusFilled:
		return true
	}
	return false
}

// IsActive сообщает, занимает ли стажировка место в лимите представителя.
func (s OpportunityStatus) IsActive() bool {
	switch s {
	case OpportunityStatusPending, OpportunityStatusApproved, OpportunityStatusFilled:
		return true
	}
	return false
}

func (s OpportunityStatus) CanTransitionTo(newStatus OpportunityStatus) bool {
	transitions := map[OpportunityStatus][]OpportunityStatus{
		OpportunityStatusPending:  {OpportunityStatusApproved, OpportunityStatusRejected},
		OpportunityStatusApproved: {OpportunityStatusFilled},
		OpportunityStatusFilled:   {OpportunityStatusApproved},
		OpportunityStatusRejected: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewOpportunityStatus(status string) (OpportunityStatus, error) {
	s := OpportunityStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", apperror.Newf(apperror.ErrCodeValidation, "некорректный статус стажировки: %q", status)
	}
	return s, nil
}

type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "PENDING"
	ApplicationStatusRejected   ApplicationStatus = "REJECTED"
	ApplicationStatusSuccessful ApplicationStatus = "SUCCESSFUL"
	ApplicationStatusAccepted   ApplicationStatus = "ACCEPTED"
	ApplicationStatusWithdrawn  ApplicationStatus = "WITHDRAWN"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusRejected, ApplicationStatusSuccessful,
		ApplicationStatusAccepted, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// IsLive возвращает true для заявок, которые ещё учитываются в лимите студента.
func (s ApplicationStatus) IsLive() bool {
	return s != ApplicationStatusWithdrawn && s != ApplicationStatusRejected
}

func (s ApplicationStatus) CanTransitionTo(newStatus ApplicationStatus) bool {
	transitions := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusPending:    {ApplicationStatusSuccessful, ApplicationStatusRejected, ApplicationStatusWithdrawn},
		ApplicationStatusSuccessful: {ApplicationStatusAccepted, ApplicationStatusWithdrawn},
		ApplicationStatusAccepted:   {ApplicationStatusWithdrawn},
		ApplicationStatusWithdrawn:  {},
		ApplicationStatusRejected:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewApplicationStatus(status string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", apperror.Newf(apperror.ErrCodeValidation, "некорректный статус заявки: %q", status)
	}
	return s, nil
}
