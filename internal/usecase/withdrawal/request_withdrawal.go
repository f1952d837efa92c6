package withdrawal

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/policy"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/validation"
)

type RequestWithdrawalInput struct {
	StudentID     string
	OpportunityID uuid.UUID
	Reason        string
}

type RequestWithdrawalUseCase struct {
	oppRepo     repository.OpportunityRepository
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	limits      policy.Limits
}

func NewRequestWithdrawalUseCase(
	oppRepo repository.OpportunityRepository,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	limits policy.Limits,
) *RequestWithdrawalUseCase {
	return &RequestWithdrawalUseCase{
		oppRepo:     oppRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		limits:      limits,
	}
}

func (uc *RequestWithdrawalUseCase) Execute(ctx context.Context, input RequestWithdrawalInput) (*entity.WithdrawalRequest, error) {
	student, err := uc.userRepo.FindStudent(input.StudentID)
	if err != nil {
		return nil, apperror.ErrForbidden
	}

	pending := uc.requestRepo.WithdrawalsByStudent(student.ID)
	if len(pending)+student.WithdrawalRequestsMade >= uc.limits.MaxWithdrawalRequests {
		return nil, apperror.ErrWithdrawalLimitReached
	}

	if err := validation.ValidateWithdrawalReason(input.Reason); err != nil {
		return nil, err
	}

	opp, err := uc.oppRepo.FindByID(input.OpportunityID)
	if err != nil {
		return nil, err
	}

	app := opp.ApplicationOf(student.ID)
	if app == nil {
		return nil, apperror.ErrApplicationNotFound
	}
	if !app.IsLive() {
		return nil, apperror.New(apperror.ErrCodeBusinessRule, "заявка уже отозвана или отклонена")
	}

	for _, r := range pending {
		if r.Targets(opp.ID) {
			return nil, apperror.New(apperror.ErrCodeConflict, "запрос на отзыв этой заявки уже ожидает рассмотрения")
		}
	}

	req, err := entity.NewWithdrawalRequest(student.ID, opp, input.Reason)
	if err != nil {
		return nil, err
	}
	uc.requestRepo.AddWithdrawal(req)

	logger.L().WithFields(logrus.Fields{
		"request_id":     req.ID,
		"opportunity_id": opp.ID,
		"student":        student.ID,
	}).Info("запрос на отзыв заявки создан")

	return req, nil
}
