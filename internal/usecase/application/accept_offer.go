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

type AcceptOfferInput struct {
	StudentID     string
	OpportunityID uuid.UUID
}

type AcceptOfferResult struct {
	Application *entity.Application
	// Withdrawn перечисляет стажировки, заявки на которые были автоматически отозваны.
	Withdrawn []*entity.Opportunity
}

type AcceptOfferUseCase struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
}

func NewAcceptOfferUseCase(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository) *AcceptOfferUseCase {
	return &AcceptOfferUseCase{oppRepo: oppRepo, userRepo: userRepo}
}

// Execute принимает предложение и отзывает остальные живые заявки студента.
// Повторный вызов для уже принятой заявки ничего не меняет.
func (uc *AcceptOfferUseCase) Execute(ctx context.Context, input AcceptOfferInput) (*AcceptOfferResult, error) {
	student, err := uc.userRepo.FindStudent(input.StudentID)
	if err != nil {
		return nil, apperror.ErrForbidden
	}

	opp, err := uc.oppRepo.FindByID(input.OpportunityID)
	if err != nil {
		return nil, err
	}

	app := opp.ApplicationOf(student.ID)
	if app == nil {
		return nil, apperror.ErrApplicationNotFound
	}
	if app.IsAccepted() {
		return &AcceptOfferResult{Application: app}, nil
	}
	if app.Status != valueobject.ApplicationStatusSuccessful {
		return nil, apperror.New(apperror.ErrCodeBusinessRule, "принять можно только одобренное предложение")
	}

	others := uc.otherLiveApplications(student.ID, opp.ID)

	if err := opp.AcceptApplication(student.ID); err != nil {
		return nil, err
	}

	for _, other := range others {
		if err := other.WithdrawApplication(student.ID); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось отозвать остальные заявки")
		}
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"student":        student.ID,
		"withdrawn":      len(others),
		"status":         opp.Status,
	}).Info("предложение принято")

	return &AcceptOfferResult{Application: app, Withdrawn: others}, nil
}

func (uc *AcceptOfferUseCase) otherLiveApplications(studentID string, acceptedID uuid.UUID) []*entity.Opportunity {
	var result []*entity.Opportunity
	for _, o := range uc.oppRepo.All() {
		if o.ID == acceptedID {
			continue
		}
		if app := o.ApplicationOf(studentID); app != nil && app.IsLive() {
			result = append(result, o)
		}
	}
	return result
}
