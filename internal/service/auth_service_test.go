package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

func newTestAuthService(t *testing.T) (*AuthService, *entity.Student) {
	t.Helper()
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password")
	require.NoError(t, err)

	users := memory.NewUserDirectory()
	student := &entity.Student{
		Identity: entity.Identity{ID: "U2310001A", Name: "Alice", PasswordHash: hash},
		Year:     2,
		Major:    valueobject.MajorCCDS,
	}
	require.NoError(t, users.Add(student))

	return NewAuthService(users, hasher, NewTokenManager("test-secret", time.Hour)), student
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, student := newTestAuthService(t)

	session, err := svc.Login(context.Background(), valueobject.RoleStudent, " U2310001A ", "password")

	require.NoError(t, err)
	assert.Equal(t, student.ID, session.UserID())
	assert.Equal(t, valueobject.RoleStudent, session.Role())
	assert.True(t, session.ActiveFilter().IsEmpty())
}

func TestAuthService_Login_DistinctErrors(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, valueobject.RoleStudent, "", "password")
	assert.ErrorIs(t, err, apperror.ErrEmptyCredentials)

	_, err = svc.Login(ctx, valueobject.RoleStudent, "U2310001A", "")
	assert.ErrorIs(t, err, apperror.ErrEmptyCredentials)

	_, err = svc.Login(ctx, valueobject.RoleStudent, "nobody", "password")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = svc.Login(ctx, valueobject.RoleStaff, "U2310001A", "password")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = svc.Login(ctx, valueobject.RoleStudent, "U2310001A", "wrong")
	assert.ErrorIs(t, err, apperror.ErrWrongPassword)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	session, err := svc.Login(ctx, valueobject.RoleStudent, "U2310001A", "password")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, session, "wrong", "NewPass1"), apperror.ErrWrongPassword)
	assert.True(t, apperror.IsValidation(svc.ChangePassword(ctx, session, "password", "weak")))

	require.NoError(t, svc.ChangePassword(ctx, session, "password", "NewPass1"))

	_, err = svc.Login(ctx, valueobject.RoleStudent, "U2310001A", "password")
	assert.ErrorIs(t, err, apperror.ErrWrongPassword)
	_, err = svc.Login(ctx, valueobject.RoleStudent, "U2310001A", "NewPass1")
	assert.NoError(t, err)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, student := newTestAuthService(t)
	ctx := context.Background()
	session, err := svc.Login(ctx, valueobject.RoleStudent, "U2310001A", "password")
	require.NoError(t, err)

	token, err := svc.IssueToken(session)
	require.NoError(t, err)

	resumed, err := svc.Resume(ctx, token)
	require.NoError(t, err)
	assert.Same(t, student, resumed.Account)

	_, err = svc.Resume(ctx, token+"x")
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestTokenManager_RejectsForeignSecretAndExpired(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", time.Hour).Generate("U1", valueobject.RoleStudent)
	require.NoError(t, err)

	_, _, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.Error(t, err)

	expired, _, err := NewTokenManager("secret-a", -time.Minute).Generate("U1", valueobject.RoleStudent)
	require.NoError(t, err)
	_, _, err = NewTokenManager("secret-a", time.Hour).Parse(expired)
	assert.Error(t, err)
}

func TestIsHashed(t *testing.T) {
	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("password")
	require.NoError(t, err)

	assert.True(t, IsHashed(hash))
	assert.False(t, IsHashed("password"))
}
