package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type Opportunity struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Level            valueobject.Level
	PreferredMajor   valueobject.Major
	Window           valueobject.DateWindow
	CompanyName      string
	Department       string
	RepresentativeID string
	Slots            int
	Status           valueobject.OpportunityStatus
	Visible          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Applications []*Application
}

type OpportunityDetails struct {
	Title          string
	Description    string
	Level          valueobject.Level
	PreferredMajor valueobject.Major
	OpeningDate    valueobject.Date
	ClosingDate    valueobject.Date
	Department     string
	Slots          int
}

// OpportunityKey задаёт описательный ключ (название, компания, отдел).
// Используется только для отображения и поиска дубликатов; канонический ключ, ID.
type OpportunityKey struct {
	Title       string
	CompanyName string
	Department  string
}

func (k OpportunityKey) String() string {
	return k.Title + ", " + k.CompanyName + ", " + k.Department
}

type OpportunityField string

const (
	FieldTitle       OpportunityField = "title"
	FieldDescription OpportunityField = "description"
	FieldOpeningDate OpportunityField = "opening_date"
	FieldClosingDate OpportunityField = "closing_date"
	FieldMajor       OpportunityField = "major"
	FieldSlots       OpportunityField = "slots"
	FieldDepartment  OpportunityField = "department"
	FieldLevel       OpportunityField = "level"
)

var EditableFields = []OpportunityField{
	FieldTitle, FieldDescription, FieldOpeningDate, FieldClosingDate,
	FieldMajor, FieldSlots, FieldDepartment, FieldLevel,
}

func NewOpportunityField(field string) (OpportunityField, error) {
	f := OpportunityField(strings.ToLower(strings.TrimSpace(field)))
	for _, known := range EditableFields {
		if f == known {
			return f, nil
		}
	}
	return "", apperror.Newf(apperror.ErrCodeValidation, "поле %q нельзя редактировать", field)
}

func NewOpportunity(rep *Representative, details OpportunityDetails) (*Opportunity, error) {
	if rep == nil {
		return nil, apperror.ErrForbidden
	}
	if strings.TrimSpace(details.Title) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название стажировки обязательно")
	}
	if !details.Level.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный уровень стажировки")
	}
	if !details.PreferredMajor.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректная специальность")
	}
	if details.Slots <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "количество мест должно быть положительным")
	}

	window, err := valueobject.NewDateWindow(details.OpeningDate, details.ClosingDate)
	if err != nil {
		return nil, err
	}

	department := details.Department
	if strings.TrimSpace(department) == "" {
		department = rep.Department
	}

	now := time.Now()
	return &Opportunity{
		ID:               uuid.New(),
		Title:            strings.TrimSpace(details.Title),
		Description:      strings.TrimSpace(details.Description),
		Level:            details.Level,
		PreferredMajor:   details.PreferredMajor,
		Window:           window,
		CompanyName:      rep.CompanyName,
		Department:       department,
		RepresentativeID: rep.ID,
		Slots:            details.Slots,
		Status:           valueobject.OpportunityStatusPending,
		Visible:          false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (o *Opportunity) Key() OpportunityKey {
	return OpportunityKey{Title: o.Title, CompanyName: o.CompanyName, Department: o.Department}
}

func (o *Opportunity) IsOwnedBy(repID string) bool {
	return o.RepresentativeID == repID
}

func (o *Opportunity) IsPending() bool {
	return o.Status == valueobject.OpportunityStatusPending
}

func (o *Opportunity) Approve() error {
	if !o.Status.CanTransitionTo(valueobject.OpportunityStatusApproved) || !o.IsPending() {
		return apperror.New(apperror.ErrCodeBusinessRule, "одобрить можно только стажировку в статусе PENDING")
	}
	o.Status = valueobject.OpportunityStatusApproved
	o.touch()
	o.syncFillStatus()
	return nil
}

func (o *Opportunity) Reject() error {
	if !o.Status.CanTransitionTo(valueobject.OpportunityStatusRejected) {
		return apperror.New(apperror.ErrCodeBusinessRule, "отклонить можно только стажировку в статусе PENDING")
	}
	o.Status = valueobject.OpportunityStatusRejected
	o.touch()
	return nil
}

// ToggleVisibility переключает видимость в любом статусе и не влияет на статус одобрения.
func (o *Opportunity) ToggleVisibility() {
	o.Visible = !o.Visible
	o.touch()
}

// Edit меняет одно поле стажировки, пока она ожидает одобрения.
// Значение проверяется целиком до изменения, так что при ошибке стажировка не меняется.
func (o *Opportunity) Edit(field OpportunityField, value string) error {
	if !o.IsPending() {
		return apperror.New(apperror.ErrCodeBusinessRule, "редактировать можно только стажировку в статусе PENDING")
	}

	value = strings.TrimSpace(value)

	switch field {
	case FieldTitle:
		if value == "" {
			return apperror.New(apperror.ErrCodeValidation, "название стажировки обязательно")
		}
		o.Title = value
	case FieldDescription:
		o.Description = value
	case FieldDepartment:
		if value == "" {
			return apperror.New(apperror.ErrCodeValidation, "отдел обязателен")
		}
		o.Department = value
	case FieldLevel:
		level, err := valueobject.NewLevel(value)
		if err != nil {
			return err
		}
		o.Level = level
	case FieldMajor:
		major, err := valueobject.NewMajor(value)
		if err != nil {
			return err
		}
		o.PreferredMajor = major
	case FieldOpeningDate, FieldClosingDate:
		date, err := valueobject.ParseDate(value)
		if err != nil {
			return err
		}
		opens, closes := o.Window.Opens, o.Window.Closes
		if field == FieldOpeningDate {
			opens = date
		} else {
			closes = date
		}
		window, err := valueobject.NewDateWindow(opens, closes)
		if err != nil {
			return err
		}
		o.Window = window
	case FieldSlots:
		slots, err := strconv.Atoi(value)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, "количество мест должно быть числом")
		}
		if err := o.ResizeSlots(slots); err != nil {
			return err
		}
	default:
		return apperror.Newf(apperror.ErrCodeValidation, "поле %q нельзя редактировать", field)
	}

	o.touch()
	return nil
}

// ResizeSlots не допускает меньше мест, чем уже принятых заявок.
func (o *Opportunity) ResizeSlots(slots int) error {
	if slots <= 0 {
		return apperror.New(apperror.ErrCodeValidation, "количество мест должно быть положительным")
	}
	if slots < o.AcceptedCount() {
		return apperror.Newf(apperror.ErrCodeBusinessRule,
			"нельзя сократить количество мест до %d: уже принято %d заявок", slots, o.AcceptedCount())
	}
	o.Slots = slots
	return nil
}

func (o *Opportunity) IsOpenOn(day valueobject.Date) bool {
	return o.Window.Contains(day)
}

func (o *Opportunity) touch() {
	o.UpdatedAt = time.Now()
}

// syncFillStatus поддерживает инвариант FILLED <=> число ACCEPTED заявок равно числу мест.
func (o *Opportunity) syncFillStatus() {
	accepted := o.AcceptedCount()
	switch o.Status {
	case valueobject.OpportunityStatusApproved:
		if accepted >= o.Slots {
			o.Status = valueobject.OpportunityStatusFilled
		}
	case valueobject.OpportunityStatusFilled:
		if accepted < o.Slots {
			o.Status = valueobject.OpportunityStatusApproved
		}
	}
}
