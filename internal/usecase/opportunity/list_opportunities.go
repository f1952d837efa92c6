package opportunity

import (
	"context"
	"time"

	"github.com/ignatzorin/internship-backend/internal/domain/eligibility"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeOwned     Scope = "owned"
	ScopePending   Scope = "pending"
	ScopeEligible  Scope = "eligible"
	ScopeAvailable Scope = "available"
)

type ListOpportunitiesInput struct {
	Session *entity.Session
	Scope   Scope
	// Today по умолчанию, текущая дата.
	Today valueobject.Date
}

// ListOpportunitiesUseCase возвращает выборку, доступную роли пользователя,
// с применённым фильтром сессии.
type ListOpportunitiesUseCase struct {
	oppRepo repository.OpportunityRepository
}

func NewListOpportunitiesUseCase(oppRepo repository.OpportunityRepository) *ListOpportunitiesUseCase {
	return &ListOpportunitiesUseCase{oppRepo: oppRepo}
}

func (uc *ListOpportunitiesUseCase) Execute(ctx context.Context, input ListOpportunitiesInput) ([]*entity.Opportunity, error) {
	if input.Session == nil {
		return nil, apperror.ErrUnauthorized
	}

	today := input.Today
	if today.IsZero() {
		today = valueobject.DateOf(time.Now())
	}

	var result []*entity.Opportunity

	switch input.Scope {
	case ScopeAll, ScopePending:
		if _, ok := input.Session.Staff(); !ok {
			return nil, apperror.ErrForbidden
		}
		if input.Scope == ScopePending {
			result = uc.oppRepo.ByStatus(valueobject.OpportunityStatusPending)
		} else {
			result = uc.oppRepo.All()
		}
	case ScopeOwned:
		rep, ok := input.Session.Representative()
		if !ok {
			return nil, apperror.ErrForbidden
		}
		result = uc.oppRepo.ByOwner(rep.ID)
	case ScopeEligible, ScopeAvailable:
		student, ok := input.Session.Student()
		if !ok {
			return nil, apperror.ErrForbidden
		}
		if input.Scope == ScopeEligible {
			result = eligibility.EligibleFor(student, uc.oppRepo.All())
		} else {
			result = eligibility.AvailableFor(student, uc.oppRepo.All(), today)
		}
	default:
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестная выборка %q", input.Scope)
	}

	return eligibility.ApplyFilter(result, input.Session.ActiveFilter()), nil
}

// DefaultScope возвращает выборку по умолчанию для роли.
func DefaultScope(role valueobject.Role) Scope {
	switch role {
	case valueobject.RoleStudent:
		return ScopeAvailable
	case valueobject.RoleRepresentative:
		return ScopeOwned
	default:
		return ScopeAll
	}
}
