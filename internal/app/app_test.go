package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/internship-backend/internal/config"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/policy"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/persistence/csvstore"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                "test",
		StorageDriver:      config.StorageCSV,
		DataDir:            t.TempDir(),
		SessionSecret:      "test-session-secret-test-session-secret",
		SessionTTL:         time.Hour,
		DefaultRepPassword: "password",
		PasswordCost:       bcrypt.MinCost,
		Limits:             policy.DefaultLimits(),
	}
}

func TestBootstrap_EmptyDirectory(t *testing.T) {
	c, err := Bootstrap(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.ReadOnly())
	assert.Empty(t, c.Repo.Opportunities.All())
	assert.NotNil(t, c.Opportunities.Create)
	assert.NotNil(t, c.Accounts.Approve)
	assert.NotNil(t, c.Seeder)
}

func TestContainer_SaveThenBootstrap(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	c, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)
	student, err := entity.NewStudent("U1", "Ann", 2, valueobject.MajorIEEE, "")
	require.NoError(t, err)
	student.PasswordHash, err = c.Hasher.Hash("password")
	require.NoError(t, err)
	require.NoError(t, c.Repo.Users.Add(student))
	require.NoError(t, c.Save(ctx))

	reloaded, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)

	found, err := reloaded.Repo.Users.FindStudent("U1")
	require.NoError(t, err)
	assert.Equal(t, valueobject.MajorIEEE, found.Major)

	session, err := reloaded.Auth.Login(ctx, valueobject.RoleStudent, "U1", "password")
	require.NoError(t, err)
	assert.Equal(t, "U1", session.UserID())
}

func TestBootstrap_CorruptDataDisablesSaving(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	path := filepath.Join(cfg.DataDir, csvstore.OpportunitiesFile)
	require.NoError(t, os.WriteFile(path, []byte("Title,Level\nBackend,EXPERT\n"), 0o644))

	c, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)

	assert.True(t, c.ReadOnly())
	assert.Empty(t, c.Repo.Opportunities.All())
	assert.Equal(t, apperror.ErrCodeStorage, apperror.CodeOf(c.Save(ctx)))
}

func TestNewWithRepository_NilStoreSaveIsNoop(t *testing.T) {
	c := NewWithRepository(testConfig(t), memory.NewRepository(), nil)

	assert.NoError(t, c.Save(context.Background()))
	applied, err := c.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, applied)
	assert.NoError(t, c.Close())
}
