package opportunity

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/policy"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/validation"
)

type EditOpportunityInput struct {
	RepresentativeID string
	OpportunityID    uuid.UUID
	Field            string
	Value            string
}

type EditPendingOpportunityUseCase struct {
	oppRepo repository.OpportunityRepository
	limits  policy.Limits
}

func NewEditPendingOpportunityUseCase(oppRepo repository.OpportunityRepository, limits policy.Limits) *EditPendingOpportunityUseCase {
	return &EditPendingOpportunityUseCase{oppRepo: oppRepo, limits: limits}
}

func (uc *EditPendingOpportunityUseCase) Execute(ctx context.Context, input EditOpportunityInput) (*entity.Opportunity, error) {
	opp, err := uc.oppRepo.FindByID(input.OpportunityID)
	if err != nil {
		return nil, err
	}

	if !opp.IsOwnedBy(input.RepresentativeID) {
		return nil, apperror.ErrForbidden
	}

	field, err := entity.NewOpportunityField(input.Field)
	if err != nil {
		return nil, err
	}

	switch field {
	case entity.FieldTitle:
		if err := validation.ValidateOpportunityTitle(input.Value); err != nil {
			return nil, err
		}
	case entity.FieldDescription:
		if err := validation.ValidateDescription(input.Value); err != nil {
			return nil, err
		}
	case entity.FieldSlots:
		if slots, convErr := strconv.Atoi(strings.TrimSpace(input.Value)); convErr == nil && slots > uc.limits.MaxSlots {
			return nil, apperror.Newf(apperror.ErrCodeValidation, "количество мест не может превышать %d", uc.limits.MaxSlots)
		}
	}

	if opp.IsPending() && (field == entity.FieldTitle || field == entity.FieldDepartment) {
		key := opp.Key()
		value := strings.TrimSpace(input.Value)
		if field == entity.FieldTitle {
			key.Title = value
		} else {
			key.Department = value
		}
		if value != "" {
			if err := ensureUniqueKey(uc.oppRepo, key, opp); err != nil {
				return nil, err
			}
		}
	}

	if err := opp.Edit(field, input.Value); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"field":          field,
	}).Info("стажировка изменена")

	return opp, nil
}
