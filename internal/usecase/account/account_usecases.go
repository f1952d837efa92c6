package account

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/validation"
)

// PasswordHasher хеширует пароль нового аккаунта.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type RequestRepresentativeAccountInput struct {
	UserID      string
	Name        string
	CompanyName string
	Department  string
	Position    string
}

type RequestRepresentativeAccountUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewRequestRepresentativeAccountUseCase(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *RequestRepresentativeAccountUseCase {
	return &RequestRepresentativeAccountUseCase{requestRepo: requestRepo, userRepo: userRepo}
}

func (uc *RequestRepresentativeAccountUseCase) Execute(ctx context.Context, input RequestRepresentativeAccountInput) (*entity.AccountCreationRequest, error) {
	if err := validation.ValidateAccountRequest(input.UserID, input.Name, input.CompanyName, input.Department, input.Position); err != nil {
		return nil, err
	}

	req, err := entity.NewAccountCreationRequest(input.UserID, input.Name, input.CompanyName, input.Department, input.Position)
	if err != nil {
		return nil, err
	}

	if uc.userRepo.Exists(req.UserID) {
		return nil, apperror.New(apperror.ErrCodeConflict, "пользователь с таким идентификатором уже существует")
	}
	if _, err := uc.requestRepo.FindAccountRequest(req.UserID); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "запрос с таким идентификатором уже ожидает рассмотрения")
	}

	uc.requestRepo.AddAccountRequest(req)

	logger.L().WithFields(logrus.Fields{
		"user_id": req.UserID,
		"company": req.CompanyName,
	}).Info("запрос на аккаунт представителя создан")

	return req, nil
}

type ApproveAccountRequestUseCase struct {
	requestRepo     repository.RequestRepository
	userRepo        repository.UserRepository
	hasher          PasswordHasher
	defaultPassword string
}

func NewApproveAccountRequestUseCase(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	defaultPassword string,
) *ApproveAccountRequestUseCase {
	return &ApproveAccountRequestUseCase{
		requestRepo:     requestRepo,
		userRepo:        userRepo,
		hasher:          hasher,
		defaultPassword: defaultPassword,
	}
}

func (uc *ApproveAccountRequestUseCase) Execute(ctx context.Context, userID, staffID string) (*entity.Representative, error) {
	req, err := pendingAccountRequest(uc.requestRepo, uc.userRepo, userID, staffID)
	if err != nil {
		return nil, err
	}

	if uc.userRepo.Exists(req.UserID) {
		return nil, apperror.New(apperror.ErrCodeConflict, "пользователь с таким идентификатором уже существует")
	}

	hash, err := uc.hasher.Hash(uc.defaultPassword)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	rep := req.ToRepresentative(hash)
	if err := uc.userRepo.Add(rep); err != nil {
		return nil, err
	}
	if err := uc.requestRepo.RemoveAccountRequest(req.UserID); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"user_id": rep.ID,
		"staff":   staffID,
	}).Info("аккаунт представителя создан")

	return rep, nil
}

type RejectAccountRequestUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewRejectAccountRequestUseCase(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *RejectAccountRequestUseCase {
	return &RejectAccountRequestUseCase{requestRepo: requestRepo, userRepo: userRepo}
}

func (uc *RejectAccountRequestUseCase) Execute(ctx context.Context, userID, staffID string) error {
	req, err := pendingAccountRequest(uc.requestRepo, uc.userRepo, userID, staffID)
	if err != nil {
		return err
	}

	if err := uc.requestRepo.RemoveAccountRequest(req.UserID); err != nil {
		return err
	}

	logger.L().WithFields(logrus.Fields{
		"user_id": req.UserID,
		"staff":   staffID,
	}).Info("запрос на аккаунт представителя отклонён")

	return nil
}

type ListAccountRequestsUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewListAccountRequestsUseCase(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *ListAccountRequestsUseCase {
	return &ListAccountRequestsUseCase{requestRepo: requestRepo, userRepo: userRepo}
}

func (uc *ListAccountRequestsUseCase) Execute(ctx context.Context, staffID string) ([]*entity.AccountCreationRequest, error) {
	if _, err := uc.userRepo.FindStaff(staffID); err != nil {
		return nil, apperror.ErrForbidden
	}
	return uc.requestRepo.AccountRequests(), nil
}

func pendingAccountRequest(requestRepo repository.RequestRepository, userRepo repository.UserRepository, userID, staffID string) (*entity.AccountCreationRequest, error) {
	if _, err := userRepo.FindStaff(staffID); err != nil {
		return nil, apperror.ErrForbidden
	}
	return requestRepo.FindAccountRequest(userID)
}
