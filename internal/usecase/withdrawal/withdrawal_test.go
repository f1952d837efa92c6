package withdrawal_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/policy"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/usecase/application"
	"github.com/ignatzorin/internship-backend/internal/usecase/withdrawal"
)

type fixture struct {
	repo    *memory.Repository
	rep     *entity.Representative
	staff   *entity.Staff
	student *entity.Student
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    memory.NewRepository(),
		rep:     &entity.Representative{Identity: entity.Identity{ID: "rep@acme.com"}, CompanyName: "Acme"},
		staff:   &entity.Staff{Identity: entity.Identity{ID: "staff1"}},
		student: &entity.Student{Identity: entity.Identity{ID: "U1"}, Year: 3, Major: valueobject.MajorDSAI},
	}
	require.NoError(t, f.repo.Users.Add(f.rep))
	require.NoError(t, f.repo.Users.Add(f.staff))
	require.NoError(t, f.repo.Users.Add(f.student))
	return f
}

// appliedOpportunity создаёт одобренную стажировку с заявкой студента в нужном статусе.
func (f *fixture) appliedOpportunity(t *testing.T, title string, slots int, status valueobject.ApplicationStatus) *entity.Opportunity {
	t.Helper()
	o, err := entity.NewOpportunity(f.rep, entity.OpportunityDetails{
		Title:          title,
		Level:          valueobject.LevelAdvanced,
		PreferredMajor: valueobject.MajorDSAI,
		OpeningDate:    valueobject.NewDate(2026, 3, 1),
		ClosingDate:    valueobject.NewDate(2026, 3, 31),
		Slots:          slots,
	})
	require.NoError(t, err)
	require.NoError(t, o.Approve())
	_, err = o.AddApplication(f.student.ID, valueobject.NewDate(2026, 3, 2))
	require.NoError(t, err)

	switch status {
	case valueobject.ApplicationStatusSuccessful:
		require.NoError(t, o.SetApplicationStatus(f.student.ID, status))
	case valueobject.ApplicationStatusAccepted:
		require.NoError(t, o.SetApplicationStatus(f.student.ID, valueobject.ApplicationStatusSuccessful))
		require.NoError(t, o.AcceptApplication(f.student.ID))
	}

	require.NoError(t, f.repo.Opportunities.Add(o))
	return o
}

func (f *fixture) requestUseCase() *withdrawal.RequestWithdrawalUseCase {
	return withdrawal.NewRequestWithdrawalUseCase(f.repo.Opportunities, f.repo.Requests, f.repo.Users, policy.DefaultLimits())
}

func TestRequestWithdrawal_Success(t *testing.T) {
	f := newFixture(t)
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusPending)

	req, err := f.requestUseCase().Execute(context.Background(), withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "got another offer",
	})
	require.NoError(t, err)

	assert.Equal(t, "O1", req.OpportunityTitle)
	assert.Equal(t, "Acme", req.CompanyName)
	assert.Equal(t, []*entity.WithdrawalRequest{req}, f.repo.Requests.Withdrawals())
	assert.Equal(t, valueobject.ApplicationStatusPending, o.ApplicationOf(f.student.ID).Status)
}

func TestRequestWithdrawal_EmptyReason(t *testing.T) {
	f := newFixture(t)
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusPending)

	_, err := f.requestUseCase().Execute(context.Background(), withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "   ",
	})

	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, f.repo.Requests.Withdrawals())
}

func TestRequestWithdrawal_DuplicatePending(t *testing.T) {
	f := newFixture(t)
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusPending)
	input := withdrawal.RequestWithdrawalInput{StudentID: f.student.ID, OpportunityID: o.ID, Reason: "r"}

	_, err := f.requestUseCase().Execute(context.Background(), input)
	require.NoError(t, err)
	_, err = f.requestUseCase().Execute(context.Background(), input)

	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, f.repo.Requests.Withdrawals(), 1)
}

func TestRequestWithdrawal_AgainAfterRejection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusSuccessful)
	input := withdrawal.RequestWithdrawalInput{StudentID: f.student.ID, OpportunityID: o.ID, Reason: "r"}

	first, err := f.requestUseCase().Execute(ctx, input)
	require.NoError(t, err)
	require.NoError(t, withdrawal.NewRejectWithdrawalUseCase(f.repo.Requests, f.repo.Users).Execute(ctx, first.ID, f.staff.ID))

	second, err := f.requestUseCase().Execute(ctx, input)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []*entity.WithdrawalRequest{second}, f.repo.Requests.Withdrawals())
	assert.Equal(t, 1, f.student.WithdrawalRequestsMade)
}

func TestRequestWithdrawal_NoApplication(t *testing.T) {
	f := newFixture(t)
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusPending)
	other := &entity.Student{Identity: entity.Identity{ID: "U2"}, Year: 1, Major: valueobject.MajorDSAI}
	require.NoError(t, f.repo.Users.Add(other))

	_, err := f.requestUseCase().Execute(context.Background(), withdrawal.RequestWithdrawalInput{
		StudentID: other.ID, OpportunityID: o.ID, Reason: "r",
	})

	assert.True(t, apperror.IsNotFound(err))
}

func TestRequestWithdrawal_LifetimeLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reject := withdrawal.NewRejectWithdrawalUseCase(f.repo.Requests, f.repo.Users)

	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusPending)
	for i := 0; i < 3; i++ {
		req, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
			StudentID: f.student.ID, OpportunityID: o.ID, Reason: "changed my mind",
		})
		require.NoError(t, err)
		require.NoError(t, reject.Execute(ctx, req.ID, f.staff.ID))
	}
	assert.Equal(t, 3, f.student.WithdrawalRequestsMade)

	_, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "fourth",
	})

	assert.Equal(t, apperror.ErrCodeWithdrawalLimit, apperror.CodeOf(err))
	assert.Empty(t, f.repo.Requests.Withdrawals())
}

func TestRequestWithdrawal_PendingRequestsCountTowardsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var opps []*entity.Opportunity
	for _, title := range []string{"O1", "O2", "O3", "O4"} {
		opps = append(opps, f.appliedOpportunity(t, title, 1, valueobject.ApplicationStatusPending))
	}
	for _, o := range opps[:3] {
		_, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
			StudentID: f.student.ID, OpportunityID: o.ID, Reason: "r",
		})
		require.NoError(t, err)
	}

	_, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: opps[3].ID, Reason: "r",
	})

	assert.ErrorIs(t, err, apperror.ErrWithdrawalLimitReached)
}

func TestApproveWithdrawal_RevertsFilledOpportunity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusAccepted)
	require.Equal(t, valueobject.OpportunityStatusFilled, o.Status)

	req, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "relocating",
	})
	require.NoError(t, err)

	uc := withdrawal.NewApproveWithdrawalUseCase(f.repo.Opportunities, f.repo.Requests, f.repo.Users)
	updated, err := uc.Execute(ctx, req.ID, f.staff.ID)
	require.NoError(t, err)

	assert.Equal(t, valueobject.OpportunityStatusApproved, updated.Status)
	assert.Equal(t, valueobject.ApplicationStatusWithdrawn, o.ApplicationOf(f.student.ID).Status)
	assert.Empty(t, f.repo.Requests.Withdrawals())
	assert.Equal(t, 1, f.student.WithdrawalRequestsMade)
}

func TestApproveWithdrawal_ApplicationClosedByAcceptedOffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	offer := f.appliedOpportunity(t, "A", 1, valueobject.ApplicationStatusSuccessful)
	other := f.appliedOpportunity(t, "B", 1, valueobject.ApplicationStatusPending)

	req, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: other.ID, Reason: "prefer another company",
	})
	require.NoError(t, err)

	_, err = application.NewAcceptOfferUseCase(f.repo.Opportunities, f.repo.Users).Execute(ctx, application.AcceptOfferInput{
		StudentID: f.student.ID, OpportunityID: offer.ID,
	})
	require.NoError(t, err)
	require.Equal(t, valueobject.ApplicationStatusWithdrawn, other.ApplicationOf(f.student.ID).Status)
	require.Len(t, f.repo.Requests.Withdrawals(), 1)

	uc := withdrawal.NewApproveWithdrawalUseCase(f.repo.Opportunities, f.repo.Requests, f.repo.Users)
	updated, err := uc.Execute(ctx, req.ID, f.staff.ID)
	require.NoError(t, err)

	assert.Equal(t, other.ID, updated.ID)
	assert.Empty(t, f.repo.Requests.Withdrawals())
	assert.Equal(t, valueobject.ApplicationStatusWithdrawn, other.ApplicationOf(f.student.ID).Status)
	assert.Equal(t, valueobject.ApplicationStatusAccepted, offer.ApplicationOf(f.student.ID).Status)
	assert.Equal(t, valueobject.OpportunityStatusFilled, offer.Status)
	assert.Zero(t, f.student.WithdrawalRequestsMade)
}

func TestApproveWithdrawal_StaffOnlyAndUnknownRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusSuccessful)
	req, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "r",
	})
	require.NoError(t, err)

	uc := withdrawal.NewApproveWithdrawalUseCase(f.repo.Opportunities, f.repo.Requests, f.repo.Users)

	_, err = uc.Execute(ctx, req.ID, f.student.ID)
	assert.True(t, apperror.IsForbidden(err))

	_, err = uc.Execute(ctx, uuid.New(), f.staff.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.Len(t, f.repo.Requests.Withdrawals(), 1)
	assert.Equal(t, valueobject.ApplicationStatusSuccessful, o.ApplicationOf(f.student.ID).Status)
}

func TestRejectWithdrawal_LeavesApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusSuccessful)
	req, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "r",
	})
	require.NoError(t, err)

	require.NoError(t, withdrawal.NewRejectWithdrawalUseCase(f.repo.Requests, f.repo.Users).Execute(ctx, req.ID, f.staff.ID))

	assert.Empty(t, f.repo.Requests.Withdrawals())
	assert.Equal(t, valueobject.ApplicationStatusSuccessful, o.ApplicationOf(f.student.ID).Status)
}

func TestListWithdrawals_ByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.appliedOpportunity(t, "O1", 1, valueobject.ApplicationStatusPending)
	_, err := f.requestUseCase().Execute(ctx, withdrawal.RequestWithdrawalInput{
		StudentID: f.student.ID, OpportunityID: o.ID, Reason: "r",
	})
	require.NoError(t, err)

	uc := withdrawal.NewListWithdrawalsUseCase(f.repo.Requests)

	all, err := uc.Execute(ctx, entity.NewSession(f.staff))
	require.NoError(t, err)
	assert.Len(t, all, 1)

	own, err := uc.Execute(ctx, entity.NewSession(f.student))
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = uc.Execute(ctx, entity.NewSession(f.rep))
	assert.True(t, apperror.IsForbidden(err))
}
