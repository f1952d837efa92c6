package opportunity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type ToggleVisibilityUseCase struct {
	oppRepo repository.OpportunityRepository
}

func NewToggleVisibilityUseCase(oppRepo repository.OpportunityRepository) *ToggleVisibilityUseCase {
	return &ToggleVisibilityUseCase{oppRepo: oppRepo}
}

func (uc *ToggleVisibilityUseCase) Execute(ctx context.Context, opportunityID uuid.UUID, repID string) (*entity.Opportunity, error) {
	opp, err := uc.oppRepo.FindByID(opportunityID)
	if err != nil {
		return nil, err
	}

	if !opp.IsOwnedBy(repID) {
		return nil, apperror.ErrForbidden
	}

	opp.ToggleVisibility()

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"visible":        opp.Visible,
	}).Info("видимость стажировки изменена")

	return opp, nil
}

type ApproveOpportunityUseCase struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
}

func NewApproveOpportunityUseCase(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository) *ApproveOpportunityUseCase {
	return &ApproveOpportunityUseCase{oppRepo: oppRepo, userRepo: userRepo}
}

func (uc *ApproveOpportunityUseCase) Execute(ctx context.Context, opportunityID uuid.UUID, staffID string) (*entity.Opportunity, error) {
	opp, err := reviewTarget(uc.oppRepo, uc.userRepo, opportunityID, staffID)
	if err != nil {
		return nil, err
	}

	if err := opp.Approve(); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"staff":          staffID,
	}).Info("стажировка одобрена")

	return opp, nil
}

type RejectOpportunityUseCase struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
}

func NewRejectOpportunityUseCase(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository) *RejectOpportunityUseCase {
	return &RejectOpportunityUseCase{oppRepo: oppRepo, userRepo: userRepo}
}

func (uc *RejectOpportunityUseCase) Execute(ctx context.Context, opportunityID uuid.UUID, staffID string) (*entity.Opportunity, error) {
	opp, err := reviewTarget(uc.oppRepo, uc.userRepo, opportunityID, staffID)
	if err != nil {
		return nil, err
	}

	if err := opp.Reject(); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"staff":          staffID,
	}).Info("стажировка отклонена")

	return opp, nil
}

func reviewTarget(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository, opportunityID uuid.UUID, staffID string) (*entity.Opportunity, error) {
	if _, err := userRepo.FindStaff(staffID); err != nil {
		return nil, apperror.ErrForbidden
	}
	return oppRepo.FindByID(opportunityID)
}
