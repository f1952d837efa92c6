package opportunity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/policy"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/validation"
)

type CreateOpportunityInput struct {
	RepresentativeID string
	Details          entity.OpportunityDetails
}

type CreateOpportunityUseCase struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
	limits   policy.Limits
}

func NewCreateOpportunityUseCase(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository, limits policy.Limits) *CreateOpportunityUseCase {
	return &CreateOpportunityUseCase{
		oppRepo:  oppRepo,
		userRepo: userRepo,
		limits:   limits,
	}
}

func (uc *CreateOpportunityUseCase) Execute(ctx context.Context, input CreateOpportunityInput) (*entity.Opportunity, error) {
	rep, err := uc.userRepo.FindRepresentative(input.RepresentativeID)
	if err != nil {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateOpportunityTitle(input.Details.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(input.Details.Description); err != nil {
		return nil, err
	}
	if input.Details.Slots > uc.limits.MaxSlots {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "количество мест не может превышать %d", uc.limits.MaxSlots)
	}

	active := 0
	for _, o := range uc.oppRepo.ByOwner(rep.ID) {
		if o.Status.IsActive() {
			active++
		}
	}
	if active >= uc.limits.MaxActiveOpportunities {
		return nil, apperror.Newf(apperror.ErrCodeBusinessRule,
			"нельзя создать больше %d активных стажировок", uc.limits.MaxActiveOpportunities)
	}

	opp, err := entity.NewOpportunity(rep, input.Details)
	if err != nil {
		return nil, err
	}

	if err := ensureUniqueKey(uc.oppRepo, opp.Key(), opp); err != nil {
		return nil, err
	}

	if err := uc.oppRepo.Add(opp); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"representative": rep.ID,
		"slots":          opp.Slots,
	}).Info("стажировка создана")

	return opp, nil
}

// ensureUniqueKey запрещает вторую стажировку с тем же названием в том же отделе компании.
func ensureUniqueKey(oppRepo repository.OpportunityRepository, key entity.OpportunityKey, self *entity.Opportunity) error {
	existing, err := oppRepo.FindByKey(key)
	if err != nil || existing == nil || existing.ID == self.ID {
		return nil
	}
	return apperror.Newf(apperror.ErrCodeConflict,
		"стажировка %q уже есть в отделе %q компании %s", key.Title, key.Department, key.CompanyName)
}
