package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type bcryptHasher struct {
	calls int
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	h.calls++
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeLegacyFiles(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, StudentsFile, "StudentID,Name,Major,Year,Email,Password\n"+
		"U2310001A,Chris Lee,CCDS,3,chris@e.ntu.edu.sg,Passw0rd\n"+
		"U2310002B,Dana Tan,IEEE,1,dana@e.ntu.edu.sg,\n")
	writeFile(t, dir, StaffFile, "StaffID,Name,Department,Email,Password\n"+
		"sng001,Sng Hui,CCDS,sng@ntu.edu.sg,Staff1pw\n")
	writeFile(t, dir, RepresentativesFile, "CompanyRepID,Name,CompanyName,Department,Position,Password\n"+
		"rep@acme.com,Ray,Acme,R&D,HR,Rep1pw\n")
	writeFile(t, dir, AccountRequestsFile, "CompanyRepID,Name,CompanyName,Department,Position\n"+
		"new@globex.com,Nia,Globex,Sales,Manager\n")
	writeFile(t, dir, OpportunitiesFile, "Title,Description,Level,PreferredMajor,OpeningDate,ClosingDate,"+
		"CompanyName,Department,CompanyRepInCharge,Slots,Status,Visible,ApplicationList\n"+
		"Backend Intern,Go services,BASIC,CCDS,2026-01-01,2026-12-31,Acme,R&D,rep@acme.com,2,APPROVED,true,"+
		"U2310001A;2026-03-01;SUCCESSFUL|U2310009Z;2026-03-02T10:15:00;WITHDRAWN\n")
	writeFile(t, dir, WithdrawalRequestsFile, "StudentID,InternshipTitle,CompanyName,WithdrawalReason\n"+
		"U2310001A,Backend Intern,Acme,Changed plans\n")
}

func TestStore_LoadLegacyLayout(t *testing.T) {
	dir := t.TempDir()
	writeLegacyFiles(t, dir)
	hasher := &bcryptHasher{}

	snap, err := New(dir, hasher, "password").Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Students, 2)
	chris := snap.Students[0]
	assert.Equal(t, "U2310001A", chris.ID)
	assert.Equal(t, valueobject.MajorCCDS, chris.Major)
	assert.Equal(t, 3, chris.Year)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(chris.PasswordHash), []byte("Passw0rd")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(snap.Students[1].PasswordHash), []byte("password")))
	assert.Equal(t, 4, hasher.calls)

	require.Len(t, snap.Staff, 1)
	require.Len(t, snap.Representatives, 1)
	assert.Equal(t, "Acme", snap.Representatives[0].CompanyName)
	require.Len(t, snap.AccountRequests, 1)
	assert.Equal(t, "new@globex.com", snap.AccountRequests[0].UserID)

	require.Len(t, snap.Opportunities, 1)
	o := snap.Opportunities[0]
	assert.Equal(t, valueobject.OpportunityStatusApproved, o.Status)
	assert.True(t, o.Visible)
	assert.Equal(t, "2026-12-31", o.Window.Closes.String())
	require.Len(t, o.Applications, 2)
	assert.Equal(t, valueobject.ApplicationStatusSuccessful, o.ApplicationOf("U2310001A").Status)
	assert.Equal(t, "2026-03-02", o.ApplicationOf("U2310009Z").AppliedOn.String())

	require.Len(t, snap.WithdrawalRequests, 1)
	assert.Equal(t, o.ID, snap.WithdrawalRequests[0].OpportunityID)
	assert.Equal(t, "Changed plans", snap.WithdrawalRequests[0].Reason)
}

func TestStore_LegacyIDIsStableAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	writeLegacyFiles(t, dir)
	store := New(dir, &bcryptHasher{}, "password")

	first, err := store.Load(context.Background())
	require.NoError(t, err)
	second, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Opportunities[0].ID, second.Opportunities[0].ID)
}

func TestStore_MissingDirectoryIsEmpty(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent"), &bcryptHasher{}, "password")

	snap, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snap.Students)
	assert.Empty(t, snap.Opportunities)
	assert.Empty(t, snap.WithdrawalRequests)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeLegacyFiles(t, dir)
	hasher := &bcryptHasher{}
	store := New(dir, hasher, "password")

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	snap.Students[0].WithdrawalRequestsMade = 2
	snap.Opportunities[0].Description = "Go services, queues and \"jobs\""

	require.NoError(t, store.Save(context.Background(), snap))
	hashed := hasher.calls

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, hashed, hasher.calls, "stored hashes must not be hashed again")
	assert.Equal(t, snap.Students[0].PasswordHash, reloaded.Students[0].PasswordHash)
	assert.Equal(t, 2, reloaded.Students[0].WithdrawalRequestsMade)
	assert.Equal(t, snap.Opportunities[0].ID, reloaded.Opportunities[0].ID)
	assert.Equal(t, "Go services, queues and \"jobs\"", reloaded.Opportunities[0].Description)
	assert.Len(t, reloaded.Opportunities[0].Applications, 2)
	assert.Equal(t, snap.WithdrawalRequests[0].ID, reloaded.WithdrawalRequests[0].ID)
	assert.Len(t, reloaded.AccountRequests, 1)
}

func TestStore_SaveEmptySnapshotCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store := New(dir, &bcryptHasher{}, "password")

	require.NoError(t, store.Save(context.Background(), &repository.Snapshot{}))

	for _, name := range []string{StudentsFile, StaffFile, RepresentativesFile,
		AccountRequestsFile, WithdrawalRequestsFile, OpportunitiesFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Opportunities)
}

func TestStore_RejectsBinaryFile(t *testing.T) {
	dir := t.TempDir()
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(filepath.Join(dir, OpportunitiesFile), png, 0o644))

	_, err := New(dir, &bcryptHasher{}, "password").Load(context.Background())

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err), "got %v", err)
}

func TestStore_MalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown major", StudentsFile, "StudentID,Name,Major,Year\nU1,Ann,ARTS,2\n"},
		{"year not a number", StudentsFile, "StudentID,Name,Major,Year\nU1,Ann,CCDS,two\n"},
		{"missing column", StudentsFile, "StudentID,Name,Year\nU1,Ann,2\n"},
		{"bad application entry", OpportunitiesFile, "Title,Level,PreferredMajor,OpeningDate,ClosingDate," +
			"CompanyName,CompanyRepInCharge,Slots,Status,ApplicationList\n" +
			"T,BASIC,CCDS,2026-01-01,2026-02-01,Acme,rep,1,APPROVED,U1;2026-01-05\n"},
		{"closing before opening", OpportunitiesFile, "Title,Level,PreferredMajor,OpeningDate,ClosingDate," +
			"CompanyName,CompanyRepInCharge,Slots,Status\n" +
			"T,BASIC,CCDS,2026-02-01,2026-01-01,Acme,rep,1,APPROVED\n"},
		{"orphan withdrawal", WithdrawalRequestsFile, "StudentID,InternshipTitle,CompanyName,WithdrawalReason\n" +
			"U1,Ghost,Nowhere,reason\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := New(dir, &bcryptHasher{}, "password").Load(context.Background())

			require.Error(t, err)
			assert.Equal(t, apperror.ErrCodeStorage, apperror.CodeOf(err))
		})
	}
}

func TestParseApplications(t *testing.T) {
	apps, err := parseApplications("s1;2026-01-02;pending| s2;2026-01-03;ACCEPTED |")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, valueobject.ApplicationStatusPending, apps[0].Status)
	assert.Equal(t, "s2", apps[1].StudentID)

	assert.Equal(t, "s1;2026-01-02;PENDING|s2;2026-01-03;ACCEPTED", formatApplications(apps))

	empty, err := parseApplications("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

}
