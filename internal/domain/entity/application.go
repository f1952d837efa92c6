package entity

import (
	"strings"
	"time"

	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type Application struct {
	StudentID string
	AppliedOn valueobject.Date
	Status    valueobject.ApplicationStatus
	UpdatedAt time.Time
}

func NewApplication(studentID string, appliedOn valueobject.Date) (*Application, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "идентификатор студента обязателен")
	}
	if appliedOn.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "дата подачи заявки обязательна")
	}
	return &Application{
		StudentID: studentID,
		AppliedOn: appliedOn,
		Status:    valueobject.ApplicationStatusPending,
		UpdatedAt: time.Now(),
	}, nil
}

func (a *Application) Approve() error {
	return a.transition(valueobject.ApplicationStatusSuccessful, "одобрить можно только ожидающую заявку")
}

func (a *Application) Reject() error {
	return a.transition(valueobject.ApplicationStatusRejected, "отклонить можно только ожидающую заявку")
}

func (a *Application) Accept() error {
	return a.transition(valueobject.ApplicationStatusAccepted, "принять можно только одобренное предложение")
}

func (a *Application) Withdraw() error {
	return a.transition(valueobject.ApplicationStatusWithdrawn, "заявка уже закрыта")
}

func (a *Application) IsLive() bool {
	return a.Status.IsLive()
}

func (a *Application) IsAccepted() bool {
	return a.Status == valueobject.ApplicationStatusAccepted
}

func (a *Application) transition(to valueobject.ApplicationStatus, message string) error {
	if !a.Status.CanTransitionTo(to) {
		return apperror.New(apperror.ErrCodeBusinessRule, message)
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return nil
}

// AddApplication регистрирует новую заявку студента.
// У студента не может быть двух живых заявок на одну стажировку.
func (o *Opportunity) AddApplication(studentID string, appliedOn valueobject.Date) (*Application, error) {
	if existing := o.ApplicationOf(studentID); existing != nil && existing.IsLive() {
		return nil, apperror.New(apperror.ErrCodeConflict, "вы уже подали заявку на эту стажировку")
	}

	app, err := NewApplication(studentID, appliedOn)
	if err != nil {
		return nil, err
	}

	o.Applications = append(o.Applications, app)
	o.touch()
	return app, nil
}

// ApplicationOf возвращает последнюю заявку студента или nil.
func (o *Opportunity) ApplicationOf(studentID string) *Application {
	for i := len(o.Applications) - 1; i >= 0; i-- {
		if o.Applications[i].StudentID == studentID {
			return o.Applications[i]
		}
	}
	return nil
}

func (o *Opportunity) HasApplicationFrom(studentID string) bool {
	return o.ApplicationOf(studentID) != nil
}

func (o *Opportunity) ApplicationsOf(studentID string) []*Application {
	var result []*Application
	for _, app := range o.Applications {
		if app.StudentID == studentID {
			result = append(result, app)
		}
	}
	return result
}

func (o *Opportunity) ApplicationsByStatus(status valueobject.ApplicationStatus) []*Application {
	var result []*Application
	for _, app := range o.Applications {
		if app.Status == status {
			result = append(result, app)
		}
	}
	return result
}

func (o *Opportunity) AcceptedCount() int {
	return len(o.ApplicationsByStatus(valueobject.ApplicationStatusAccepted))
}

func (o *Opportunity) RemainingSlots() int {
	remaining := o.Slots - o.AcceptedCount()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetApplicationStatus переводит заявку студента в новый статус и пересчитывает заполненность.
func (o *Opportunity) SetApplicationStatus(studentID string, status valueobject.ApplicationStatus) error {
	app := o.ApplicationOf(studentID)
	if app == nil {
		return apperror.ErrApplicationNotFound
	}

	var err error
	switch status {
	case valueobject.ApplicationStatusSuccessful:
		err = app.Approve()
	case valueobject.ApplicationStatusRejected:
		err = app.Reject()
	case valueobject.ApplicationStatusAccepted:
		return o.AcceptApplication(studentID)
	case valueobject.ApplicationStatusWithdrawn:
		return o.WithdrawApplication(studentID)
	default:
		err = apperror.Newf(apperror.ErrCodeValidation, "нельзя перевести заявку в статус %s", status)
	}
	if err != nil {
		return err
	}

	o.touch()
	return nil
}

// AcceptApplication занимает место под принятую заявку; при исчерпании мест стажировка становится FILLED.
func (o *Opportunity) AcceptApplication(studentID string) error {
	app := o.ApplicationOf(studentID)
	if app == nil {
		return apperror.ErrApplicationNotFound
	}
	if o.Status != valueobject.OpportunityStatusApproved {
		return apperror.New(apperror.ErrCodeBusinessRule, "на стажировке не осталось свободных мест")
	}
	if o.RemainingSlots() == 0 {
		return apperror.New(apperror.ErrCodeBusinessRule, "на стажировке не осталось свободных мест")
	}
	if err := app.Accept(); err != nil {
		return err
	}

	o.syncFillStatus()
	o.touch()
	return nil
}

// WithdrawApplication освобождает место, если заявка была принята.
func (o *Opportunity) WithdrawApplication(studentID string) error {
	app := o.ApplicationOf(studentID)
	if app == nil {
		return apperror.ErrApplicationNotFound
	}
	if err := app.Withdraw(); err != nil {
		return err
	}

	o.syncFillStatus()
	o.touch()
	return nil
}
