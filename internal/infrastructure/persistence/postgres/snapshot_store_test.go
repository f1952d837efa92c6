package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

func sampleSnapshot(t *testing.T) *repository.Snapshot {
	t.Helper()

	student, err := entity.NewStudent("U1", "Ann", 3, valueobject.MajorCCDS, "ann@e.ntu.edu.sg")
	require.NoError(t, err)
	student.PasswordHash = "$2a$04$hash"
	student.WithdrawalRequestsMade = 1

	rep, err := entity.NewRepresentative("rep@acme.com", "Ray", "Acme", "R&D", "HR")
	require.NoError(t, err)
	staff, err := entity.NewStaff("staff1", "Sam", "CCDS", "")
	require.NoError(t, err)

	o, err := entity.NewOpportunity(rep, entity.OpportunityDetails{
		Title:          "Backend Intern",
		Level:          valueobject.LevelIntermediate,
		PreferredMajor: valueobject.MajorCCDS,
		OpeningDate:    valueobject.NewDate(2026, 1, 1),
		ClosingDate:    valueobject.NewDate(2026, 6, 30),
		Slots:          2,
	})
	require.NoError(t, err)
	require.NoError(t, o.Approve())
	_, err = o.AddApplication("U1", valueobject.NewDate(2026, 2, 1))
	require.NoError(t, err)

	wr, err := entity.NewWithdrawalRequest("U1", o, "Changed plans")
	require.NoError(t, err)
	ar, err := entity.NewAccountCreationRequest("new@globex.com", "Nia", "Globex", "Sales", "Manager")
	require.NoError(t, err)

	return &repository.Snapshot{
		Students:           []*entity.Student{student},
		Staff:              []*entity.Staff{staff},
		Representatives:    []*entity.Representative{rep},
		Opportunities:      []*entity.Opportunity{o},
		WithdrawalRequests: []*entity.WithdrawalRequest{wr},
		AccountRequests:    []*entity.AccountCreationRequest{ar},
	}
}

func TestRows_RoundTripThroughBuildSnapshot(t *testing.T) {
	snap := sampleSnapshot(t)
	o := snap.Opportunities[0]

	opps := []opportunityRow{toOpportunityRow(o, 0)}
	apps := toApplicationRows(o)
	wr := snap.WithdrawalRequests[0]
	withdraw := []withdrawalRow{{
		ID: wr.ID, StudentID: wr.StudentID, OpportunityID: wr.OpportunityID,
		OpportunityTitle: wr.OpportunityTitle, CompanyName: wr.CompanyName, Reason: wr.Reason,
	}}
	ar := snap.AccountRequests[0]
	accounts := []accountRequestRow{{
		UserID: ar.UserID, Name: ar.Name, CompanyName: ar.CompanyName,
		Department: ar.Department, Position: ar.Position,
	}}

	got, err := buildSnapshot(userRows(snap), opps, apps, withdraw, accounts)
	require.NoError(t, err)

	require.Len(t, got.Students, 1)
	assert.Equal(t, valueobject.MajorCCDS, got.Students[0].Major)
	assert.Equal(t, 3, got.Students[0].Year)
	assert.Equal(t, 1, got.Students[0].WithdrawalRequestsMade)
	assert.Equal(t, "$2a$04$hash", got.Students[0].PasswordHash)

	require.Len(t, got.Representatives, 1)
	assert.Equal(t, "Acme", got.Representatives[0].CompanyName)
	require.Len(t, got.Staff, 1)
	assert.Equal(t, "", got.Staff[0].Email)

	require.Len(t, got.Opportunities, 1)
	loaded := got.Opportunities[0]
	assert.Equal(t, o.ID, loaded.ID)
	assert.Equal(t, valueobject.OpportunityStatusApproved, loaded.Status)
	assert.Equal(t, "2026-06-30", loaded.Window.Closes.String())
	require.Len(t, loaded.Applications, 1)
	assert.Equal(t, "2026-02-01", loaded.Applications[0].AppliedOn.String())
	assert.Equal(t, valueobject.ApplicationStatusPending, loaded.Applications[0].Status)

	require.Len(t, got.WithdrawalRequests, 1)
	assert.Equal(t, o.ID, got.WithdrawalRequests[0].OpportunityID)
	require.Len(t, got.AccountRequests, 1)
	assert.Equal(t, "Globex", got.AccountRequests[0].CompanyName)
}

func TestUserRows_NullableColumns(t *testing.T) {
	rows := userRows(sampleSnapshot(t))

	require.Len(t, rows, 3)
	assert.Equal(t, "STUDENT", rows[0].Role)
	assert.True(t, rows[0].Year.Valid)
	assert.False(t, rows[1].Major.Valid, "representative has no major")
	assert.True(t, rows[1].CompanyName.Valid)
	assert.False(t, rows[2].Email.Valid, "empty email is stored as NULL")
}

func TestBuildSnapshot_OrphanApplication(t *testing.T) {
	apps := []applicationRow{{
		OpportunityID: uuid.New(), StudentID: "U1", AppliedOn: time.Now(), Status: "PENDING",
	}}

	_, err := buildSnapshot(nil, nil, apps, nil, nil)

	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}

func TestOpportunityRow_InvalidValues(t *testing.T) {
	base := toOpportunityRow(sampleSnapshot(t).Opportunities[0], 0)

	tests := []struct {
		name   string
		mutate func(*opportunityRow)
	}{
		{"level", func(r *opportunityRow) { r.Level = "EXPERT" }},
		{"major", func(r *opportunityRow) { r.PreferredMajor = "ARTS" }},
		{"status", func(r *opportunityRow) { r.Status = "ARCHIVED" }},
		{"window", func(r *opportunityRow) { r.ClosingDate = r.OpeningDate }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := base
			tt.mutate(&row)
			_, err := row.toEntity()
			assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
		})
	}
}
