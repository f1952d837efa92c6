package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/internship-backend/internal/domain/eligibility"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type ApplicationView struct {
	Opportunity *entity.Opportunity
	Application *entity.Application
}

type ListStudentApplicationsInput struct {
	StudentID string
	// Status пустой, все заявки студента.
	Status valueobject.ApplicationStatus
}

type ListStudentApplicationsUseCase struct {
	oppRepo repository.OpportunityRepository
}

func NewListStudentApplicationsUseCase(oppRepo repository.OpportunityRepository) *ListStudentApplicationsUseCase {
	return &ListStudentApplicationsUseCase{oppRepo: oppRepo}
}

func (uc *ListStudentApplicationsUseCase) Execute(ctx context.Context, input ListStudentApplicationsInput) ([]ApplicationView, error) {
	var opps []*entity.Opportunity
	if input.Status == "" {
		opps = eligibility.AppliedBy(input.StudentID, uc.oppRepo.All())
	} else {
		if !input.Status.IsValid() {
			return nil, apperror.Newf(apperror.ErrCodeValidation, "некорректный статус заявки: %q", input.Status)
		}
		opps = eligibility.ByApplicationStatus(input.StudentID, input.Status, uc.oppRepo.All())
	}

	views := make([]ApplicationView, 0, len(opps))
	for _, o := range opps {
		views = append(views, ApplicationView{Opportunity: o, Application: o.ApplicationOf(input.StudentID)})
	}
	return views, nil
}

// ListApplicantsUseCase показывает заявки на стажировку её владельцу и сотрудникам.
type ListApplicantsUseCase struct {
	oppRepo  repository.OpportunityRepository
	userRepo repository.UserRepository
}

func NewListApplicantsUseCase(oppRepo repository.OpportunityRepository, userRepo repository.UserRepository) *ListApplicantsUseCase {
	return &ListApplicantsUseCase{oppRepo: oppRepo, userRepo: userRepo}
}

func (uc *ListApplicantsUseCase) Execute(ctx context.Context, opportunityID uuid.UUID, viewerID string) ([]*entity.Application, error) {
	opp, err := uc.oppRepo.FindByID(opportunityID)
	if err != nil {
		return nil, err
	}

	if !opp.IsOwnedBy(viewerID) {
		if _, err := uc.userRepo.FindStaff(viewerID); err != nil {
			return nil, apperror.ErrForbidden
		}
	}

	return append([]*entity.Application(nil), opp.Applications...), nil
}
