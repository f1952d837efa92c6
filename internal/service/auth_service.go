package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/validation"
)

// AuthService инкапсулирует вход, смену пароля и возобновление сессии.
type AuthService struct {
	users  repository.UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Login проверяет учётные данные в пределах выбранной роли.
// Пустые данные, неизвестный пользователь и неверный пароль, разные ошибки.
func (s *AuthService) Login(ctx context.Context, role valueobject.Role, userID, password string) (*entity.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return nil, apperror.ErrEmptyCredentials
	}

	account, err := s.users.Find(role, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	if !s.hasher.Matches(entity.IdentityOf(account).PasswordHash, password) {
		logger.L().WithFields(logrus.Fields{
			"user_id": userID,
			"role":    role,
		}).Warn("auth service: неверный пароль")
		return nil, apperror.ErrWrongPassword
	}

	return entity.NewSession(account), nil
}

// ChangePassword меняет пароль вошедшего пользователя.
func (s *AuthService) ChangePassword(ctx context.Context, session *entity.Session, oldPassword, newPassword string) error {
	if session == nil {
		return apperror.ErrUnauthorized
	}

	identity := entity.IdentityOf(session.Account)
	if !s.hasher.Matches(identity.PasswordHash, oldPassword) {
		return apperror.ErrWrongPassword
	}
	if oldPassword == newPassword {
		return apperror.New(apperror.ErrCodeValidation, "новый пароль должен отличаться от текущего")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}
	identity.PasswordHash = hash

	logger.L().WithField("user_id", identity.ID).Info("пароль изменён")
	return nil
}

// IssueToken выпускает токен, по которому следующий запуск CLI восстановит сессию.
func (s *AuthService) IssueToken(session *entity.Session) (string, error) {
	if session == nil {
		return "", apperror.ErrUnauthorized
	}
	token, _, err := s.tokens.Generate(session.UserID(), session.Role())
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен сессии")
	}
	return token, nil
}

// Resume восстанавливает сессию по токену.
func (s *AuthService) Resume(ctx context.Context, token string) (*entity.Session, error) {
	userID, role, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "сессия истекла или недействительна, войдите снова")
	}

	account, err := s.users.Find(role, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "пользователь сессии больше не существует")
	}

	return entity.NewSession(account), nil
}
