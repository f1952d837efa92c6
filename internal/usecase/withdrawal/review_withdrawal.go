package withdrawal

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// ApproveWithdrawalUseCase отзывает заявку; принятая заявка освобождает место.
// Запрос по уже неактивной заявке просто снимается с очереди.
type ApproveWithdrawalUseCase struct {
	oppRepo     repository.OpportunityRepository
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewApproveWithdrawalUseCase(
	oppRepo repository.OpportunityRepository,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
) *ApproveWithdrawalUseCase {
	return &ApproveWithdrawalUseCase{oppRepo: oppRepo, requestRepo: requestRepo, userRepo: userRepo}
}

func (uc *ApproveWithdrawalUseCase) Execute(ctx context.Context, requestID uuid.UUID, staffID string) (*entity.Opportunity, error) {
	req, err := pendingRequest(uc.requestRepo, uc.userRepo, requestID, staffID)
	if err != nil {
		return nil, err
	}

	opp, err := uc.oppRepo.FindByID(req.OpportunityID)
	if err != nil {
		return nil, err
	}

	app := opp.ApplicationOf(req.StudentID)
	if app == nil {
		return nil, apperror.ErrApplicationNotFound
	}
	if !app.IsLive() {
		// Заявка закрыта без участия запроса (например, при принятии другого предложения):
		// запрос снимается с очереди и не учитывается в лимите.
		if err := uc.requestRepo.RemoveWithdrawal(req.ID); err != nil {
			return nil, err
		}
		logger.L().WithFields(logrus.Fields{
			"request_id":     req.ID,
			"opportunity_id": opp.ID,
			"student":        req.StudentID,
			"application":    app.Status,
		}).Info("запрос на отзыв закрыт: заявка уже неактивна")
		return opp, nil
	}

	if err := opp.WithdrawApplication(req.StudentID); err != nil {
		return nil, err
	}
	if err := uc.requestRepo.RemoveWithdrawal(req.ID); err != nil {
		return nil, err
	}
	countResolved(uc.userRepo, req.StudentID)

	logger.L().WithFields(logrus.Fields{
		"request_id":     req.ID,
		"opportunity_id": opp.ID,
		"student":        req.StudentID,
		"status":         opp.Status,
	}).Info("запрос на отзыв одобрен")

	return opp, nil
}

type RejectWithdrawalUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewRejectWithdrawalUseCase(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *RejectWithdrawalUseCase {
	return &RejectWithdrawalUseCase{requestRepo: requestRepo, userRepo: userRepo}
}

func (uc *RejectWithdrawalUseCase) Execute(ctx context.Context, requestID uuid.UUID, staffID string) error {
	req, err := pendingRequest(uc.requestRepo, uc.userRepo, requestID, staffID)
	if err != nil {
		return err
	}

	if err := uc.requestRepo.RemoveWithdrawal(req.ID); err != nil {
		return err
	}
	countResolved(uc.userRepo, req.StudentID)

	logger.L().WithFields(logrus.Fields{
		"request_id": req.ID,
		"student":    req.StudentID,
	}).Info("запрос на отзыв отклонён")

	return nil
}

func pendingRequest(requestRepo repository.RequestRepository, userRepo repository.UserRepository, requestID uuid.UUID, staffID string) (*entity.WithdrawalRequest, error) {
	if _, err := userRepo.FindStaff(staffID); err != nil {
		return nil, apperror.ErrForbidden
	}
	return requestRepo.FindWithdrawal(requestID)
}

// countResolved учитывает рассмотренный запрос в пожизненном лимите студента.
func countResolved(userRepo repository.UserRepository, studentID string) {
	if student, err := userRepo.FindStudent(studentID); err == nil {
		student.WithdrawalRequestsMade++
	}
}
