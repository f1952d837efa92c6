package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type ReviewApplicationInput struct {
	RepresentativeID string
	OpportunityID    uuid.UUID
	StudentID        string
}

// ApproveApplicationUseCase переводит заявку в SUCCESSFUL; места при этом не занимаются.
type ApproveApplicationUseCase struct {
	oppRepo repository.OpportunityRepository
}

func NewApproveApplicationUseCase(oppRepo repository.OpportunityRepository) *ApproveApplicationUseCase {
	return &ApproveApplicationUseCase{oppRepo: oppRepo}
}

func (uc *ApproveApplicationUseCase) Execute(ctx context.Context, input ReviewApplicationInput) (*entity.Application, error) {
	return review(uc.oppRepo, input, valueobject.ApplicationStatusSuccessful)
}

type RejectApplicationUseCase struct {
	oppRepo repository.OpportunityRepository
}

func NewRejectApplicationUseCase(oppRepo repository.OpportunityRepository) *RejectApplicationUseCase {
	return &RejectApplicationUseCase{oppRepo: oppRepo}
}

func (uc *RejectApplicationUseCase) Execute(ctx context.Context, input ReviewApplicationInput) (*entity.Application, error) {
	return review(uc.oppRepo, input, valueobject.ApplicationStatusRejected)
}

func review(oppRepo repository.OpportunityRepository, input ReviewApplicationInput, status valueobject.ApplicationStatus) (*entity.Application, error) {
	opp, err := oppRepo.FindByID(input.OpportunityID)
	if err != nil {
		return nil, err
	}

	if !opp.IsOwnedBy(input.RepresentativeID) {
		return nil, apperror.ErrForbidden
	}

	if err := opp.SetApplicationStatus(input.StudentID, status); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"student":        input.StudentID,
		"status":         status,
	}).Info("заявка рассмотрена")

	return opp.ApplicationOf(input.StudentID), nil
}
