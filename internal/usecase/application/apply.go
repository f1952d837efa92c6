package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/eligibility"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/policy"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type ApplyInput struct {
	StudentID     string
	OpportunityID uuid.UUID
	// Today по умолчанию, текущая дата.
	Today valueobject.Date
}

type ApplyUseCase struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
	limits   policy.Limits
}

func NewApplyUseCase(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository, limits policy.Limits) *ApplyUseCase {
	return &ApplyUseCase{
		oppRepo:  oppRepo,
		userRepo: userRepo,
		limits:   limits,
	}
}

func (uc *ApplyUseCase) Execute(ctx context.Context, input ApplyInput) (*entity.Application, error) {
	student, err := uc.userRepo.FindStudent(input.StudentID)
	if err != nil {
		return nil, apperror.ErrForbidden
	}

	opp, err := uc.oppRepo.FindByID(input.OpportunityID)
	if err != nil {
		return nil, err
	}

	today := input.Today
	if today.IsZero() {
		today = valueobject.DateOf(time.Now())
	}

	all := uc.oppRepo.All()

	if eligibility.HasAccepted(student.ID, all) {
		return nil, apperror.New(apperror.ErrCodeBusinessRule, "вы уже приняли предложение о стажировке")
	}
	if eligibility.LiveApplicationCount(student.ID, all) >= uc.limits.MaxLiveApplications {
		return nil, apperror.Newf(apperror.ErrCodeBusinessRule,
			"нельзя иметь больше %d активных заявок одновременно", uc.limits.MaxLiveApplications)
	}
	if !eligibility.IsAvailable(student, opp, today) {
		return nil, apperror.New(apperror.ErrCodeBusinessRule, "стажировка недоступна для подачи заявки")
	}

	app, err := opp.AddApplication(student.ID, today)
	if err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"opportunity_id": opp.ID,
		"student":        student.ID,
	}).Info("заявка подана")

	return app, nil
}
