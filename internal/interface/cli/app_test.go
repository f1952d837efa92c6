package cli

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/persistence/csvstore"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/service"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:                "test",
		LogLevel:           "error",
		StorageDriver:      config.StorageCSV,
		DataDir:            dir,
		SessionFile:        filepath.Join(dir, ".session"),
		SessionSecret:      "test-session-secret-test-session-secret",
		SessionTTL:         time.Hour,
		DefaultRepPassword: "password",
		PasswordCost:       bcrypt.MinCost,
		ReportPath:         filepath.Join(dir, "report.txt"),
		Limits:             policy.DefaultLimits(),
	}
}

// seedUsers записывает в каталог данных студента U1, представителя и сотрудника с паролем "password".
func seedUsers(t *testing.T, cfg *config.Config) {
	t.Helper()
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password")
	require.NoError(t, err)

	repo := memory.NewRepository()
	student, err := entity.NewStudent("U1", "Ann Lee", 3, valueobject.MajorCCDS, "u1@e.ntu.edu.sg")
	require.NoError(t, err)
	rep, err := entity.NewRepresentative("hr@acme.com", "Ray Tan", "Acme", "R&D", "HR")
	require.NoError(t, err)
	staff, err := entity.NewStaff("staff1", "Sam Ng", "Career Office", "staff1@ntu.edu.sg")
	require.NoError(t, err)
	for _, account := range []entity.Account{student, rep, staff} {
		entity.IdentityOf(account).PasswordHash = hash
		require.NoError(t, repo.Users.Add(account))
	}

	store := csvstore.New(cfg.DataDir, hasher, cfg.DefaultRepPassword)
	require.NoError(t, store.Save(context.Background(), repo.Snapshot()))
}

func loadSnapshot(t *testing.T, cfg *config.Config) *repository.Snapshot {
	t.Helper()
	store := csvstore.New(cfg.DataDir, service.NewPasswordHasher(bcrypt.MinCost), cfg.DefaultRepPassword)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	return snap
}

// execute запускает команду на свежем экземпляре, как отдельный процесс.
func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := New(cfg).WithOutput(&stdout, &stderr)
	a.now = func() time.Time { return testNow }
	err := a.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func mustExecute(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := execute(t, cfg, args...)
	require.NoError(t, err, "command %v", args)
	return out
}

func login(t *testing.T, cfg *config.Config, role, id string) {
	t.Helper()
	mustExecute(t, cfg, "login", "--role", role, "--id", id, "--password", "password")
}

func TestApp_Version(t *testing.T) {
	out := mustExecute(t, testConfig(t), "version")

	assert.Contains(t, out, "internship version")
}

func TestApp_Help(t *testing.T) {
	out := mustExecute(t, testConfig(t), "--help")

	for _, name := range []string{"login", "opportunities", "applications", "withdrawals", "accounts", "report"} {
		assert.Contains(t, out, name)
	}
}

func TestApp_LoginErrors(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)

	_, err := execute(t, cfg, "login", "--role", "student", "--id", "U1", "--password", "wrong")
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))

	_, err = execute(t, cfg, "login", "--role", "student", "--id", "U404", "--password", "password")
	assert.Equal(t, apperror.ErrCodeNotFound, apperror.CodeOf(err))

	_, err = execute(t, cfg, "login", "--role", "admin", "--id", "U1", "--password", "password")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	_, statErr := os.Stat(cfg.SessionFile)
	assert.True(t, os.IsNotExist(statErr), "failed login must not create a session")
}

func TestApp_CommandsRequireLogin(t *testing.T) {
	cfg := testConfig(t)

	_, err := execute(t, cfg, "whoami")

	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
}

func TestApp_WhoamiAndLogout(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)
	login(t, cfg, "student", "U1")

	out := mustExecute(t, cfg, "whoami")
	assert.Contains(t, out, "Ann Lee (U1)")
	assert.Contains(t, out, "STUDENT")
	assert.Contains(t, out, "Фильтр: не задан")

	mustExecute(t, cfg, "logout")
	_, err := execute(t, cfg, "whoami")
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))
}

func TestApp_OpportunityLifecycle(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)

	login(t, cfg, "rep", "hr@acme.com")
	mustExecute(t, cfg, "opportunities", "create",
		"--title", "Backend Intern", "--level", "basic", "--major", "ccds",
		"--opens", "2026-01-01", "--closes", "2026-03-01", "--slots", "1")

	snap := loadSnapshot(t, cfg)
	require.Len(t, snap.Opportunities, 1)
	id := snap.Opportunities[0].ID.String()
	assert.Equal(t, valueobject.OpportunityStatusPending, snap.Opportunities[0].Status)

	_, err := execute(t, cfg, "opportunities", "approve", id)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err), "representative cannot approve")

	login(t, cfg, "staff", "staff1")
	out := mustExecute(t, cfg, "opportunities", "list", "--scope", "pending")
	assert.Contains(t, out, "Backend Intern")
	mustExecute(t, cfg, "opportunities", "approve", id)

	login(t, cfg, "rep", "hr@acme.com")
	out = mustExecute(t, cfg, "opportunities", "toggle", id)
	assert.Contains(t, out, "видима")

	login(t, cfg, "student", "U1")
	out = mustExecute(t, cfg, "opportunities", "available")
	assert.Contains(t, out, "Backend Intern")
	mustExecute(t, cfg, "applications", "apply", id)

	_, err = execute(t, cfg, "applications", "apply", id)
	assert.Error(t, err, "second application to the same opportunity")

	login(t, cfg, "rep", "hr@acme.com")
	out = mustExecute(t, cfg, "applications", "applicants", id)
	assert.Contains(t, out, "U1")
	mustExecute(t, cfg, "applications", "approve", id, "U1")

	login(t, cfg, "student", "U1")
	out = mustExecute(t, cfg, "applications", "accept", id)
	assert.Contains(t, out, "Предложение принято")

	out = mustExecute(t, cfg, "applications", "list", "--status", "accepted")
	assert.Contains(t, out, "Backend Intern")

	snap = loadSnapshot(t, cfg)
	opp := snap.Opportunities[0]
	assert.Equal(t, valueobject.OpportunityStatusFilled, opp.Status)
	require.Len(t, opp.Applications, 1)
	assert.Equal(t, valueobject.ApplicationStatusAccepted, opp.Applications[0].Status)
}

func TestApp_WithdrawalFlow(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)

	login(t, cfg, "rep", "hr@acme.com")
	mustExecute(t, cfg, "opportunities", "create",
		"--title", "Data Intern", "--level", "basic", "--major", "ccds",
		"--opens", "2026-01-01", "--closes", "2026-03-01", "--slots", "2")
	id := loadSnapshot(t, cfg).Opportunities[0].ID.String()
	mustExecute(t, cfg, "opportunities", "toggle", id)

	login(t, cfg, "staff", "staff1")
	mustExecute(t, cfg, "opportunities", "approve", id)

	login(t, cfg, "student", "U1")
	mustExecute(t, cfg, "applications", "apply", id)
	mustExecute(t, cfg, "withdrawals", "request", id, "--reason", "Changed plans")

	out := mustExecute(t, cfg, "withdrawals", "list")
	assert.Contains(t, out, "Changed plans")

	snap := loadSnapshot(t, cfg)
	require.Len(t, snap.WithdrawalRequests, 1)
	reqID := snap.WithdrawalRequests[0].ID.String()

	login(t, cfg, "staff", "staff1")
	mustExecute(t, cfg, "withdrawals", "approve", reqID)

	snap = loadSnapshot(t, cfg)
	assert.Empty(t, snap.WithdrawalRequests)
	assert.Equal(t, valueobject.ApplicationStatusWithdrawn, snap.Opportunities[0].Applications[0].Status)
	assert.Equal(t, 1, snap.Students[0].WithdrawalRequestsMade)
}

func TestApp_AccountRequestFlow(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)

	mustExecute(t, cfg, "accounts", "request",
		"--id", "new@globex.com", "--name", "Nia Goh", "--company", "Globex",
		"--department", "Sales", "--position", "Manager")

	_, err := execute(t, cfg, "login", "--role", "rep", "--id", "new@globex.com", "--password", "password")
	assert.Error(t, err, "pending representative cannot log in")

	login(t, cfg, "staff", "staff1")
	out := mustExecute(t, cfg, "accounts", "pending")
	assert.Contains(t, out, "new@globex.com")
	mustExecute(t, cfg, "accounts", "approve", "new@globex.com")

	login(t, cfg, "rep", "new@globex.com")
	out = mustExecute(t, cfg, "whoami")
	assert.Contains(t, out, "Globex")
}

func TestApp_FilterIsStoredInSession(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)
	login(t, cfg, "staff", "staff1")

	out := mustExecute(t, cfg, "opportunities", "filter", "--major", "dsai", "--level", "basic")
	assert.Contains(t, out, "DSAI")

	data, err := os.ReadFile(cfg.SessionFile)
	require.NoError(t, err)
	var state sessionState
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, "DSAI", state.Filter.Major)
	assert.Equal(t, "BASIC", state.Filter.Level)

	_, err = execute(t, cfg, "opportunities", "filter", "--opens-from", "2026-05-01", "--closes-by", "2026-04-01")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	out = mustExecute(t, cfg, "opportunities", "filter", "--clear")
	assert.Contains(t, out, "Фильтр: не задан")
}

func TestApp_PasswordChange(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)
	login(t, cfg, "student", "U1")

	_, err := execute(t, cfg, "password", "--old", "password", "--new", "weak")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	mustExecute(t, cfg, "password", "--old", "password", "--new", "Secret123")

	_, err = execute(t, cfg, "whoami")
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err), "password change ends the session")

	mustExecute(t, cfg, "login", "--role", "student", "--id", "U1", "--password", "Secret123")
}

func TestApp_ReportToStdout(t *testing.T) {
	cfg := testConfig(t)
	seedUsers(t, cfg)
	login(t, cfg, "rep", "hr@acme.com")
	mustExecute(t, cfg, "opportunities", "create",
		"--title", "Security Intern", "--level", "basic", "--major", "ccds",
		"--opens", "2026-01-01", "--closes", "2026-03-01")

	_, err := execute(t, cfg, "report", "-o", "-")
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	login(t, cfg, "staff", "staff1")
	out := mustExecute(t, cfg, "report", "-o", "-")
	assert.Contains(t, out, "Security Intern")
	assert.Contains(t, out, "Total: 1")

	mustExecute(t, cfg, "report")
	_, err = os.Stat(cfg.ReportPath)
	assert.NoError(t, err)
}

func TestApp_Seed(t *testing.T) {
	cfg := testConfig(t)

	out := mustExecute(t, cfg, "seed", "--students", "4", "--opportunities", "5", "--seed", "7")
	assert.Contains(t, out, "студентов 4")

	snap := loadSnapshot(t, cfg)
	assert.Len(t, snap.Students, 4)
	assert.Len(t, snap.Opportunities, 5)
	assert.Len(t, snap.Staff, 1)

	cfg.Env = "production"
	_, err := execute(t, cfg, "seed")
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))
}

func TestApp_MigrateIsNoopForCSV(t *testing.T) {
	out := mustExecute(t, testConfig(t), "migrate")

	assert.Contains(t, out, "Новых миграций нет")
}

func TestApp_RunExitCodes(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"ok", []string{"version"}, 0},
		{"not logged in", []string{"whoami"}, 2},
		{"unknown flag", []string{"version", "--bogus"}, 1},
		{"missing argument", []string{"opportunities", "toggle"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			a := New(cfg).WithOutput(&stdout, &stderr)
			a.root.SetArgs(tt.args)

			assert.Equal(t, tt.want, a.Run(context.Background()))
			if tt.want != 0 {
				assert.Contains(t, stderr.String(), "Ошибка:")
			}
		})
	}
}

func TestApp_CorruptDataIsNotOverwritten(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.DataDir, csvstore.StudentsFile)
	require.NoError(t, os.WriteFile(path, []byte("StudentID,Name,Major,Year,Email\nU1,Ann,CCDS,notayear,x\n"), 0o644))

	_, err := execute(t, cfg, "accounts", "request",
		"--id", "new@globex.com", "--name", "Nia", "--company", "Globex",
		"--department", "Sales", "--position", "Manager")

	assert.Equal(t, apperror.ErrCodeStorage, apperror.CodeOf(err))
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "notayear")
}
