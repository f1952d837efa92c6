package entity

import (
	"strings"

	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// Filter хранит неизменяемый набор необязательных критериев, объединяемых по И.
// Незаданный критерий подходит под любую стажировку.
type Filter struct {
	status    valueobject.OpportunityStatus
	major     valueobject.Major
	level     valueobject.Level
	opensFrom valueobject.Date
	closesBy  valueobject.Date
}

type FilterOption func(*Filter)

func WithStatus(status valueobject.OpportunityStatus) FilterOption {
	return func(f *Filter) { f.status = status }
}

func WithMajor(major valueobject.Major) FilterOption {
	return func(f *Filter) { f.major = major }
}

func WithLevel(level valueobject.Level) FilterOption {
	return func(f *Filter) { f.level = level }
}

func OpensFrom(date valueobject.Date) FilterOption {
	return func(f *Filter) { f.opensFrom = date }
}

func ClosesBy(date valueobject.Date) FilterOption {
	return func(f *Filter) { f.closesBy = date }
}

func NewFilter(opts ...FilterOption) (Filter, error) {
	var f Filter
	for _, opt := range opts {
		opt(&f)
	}
	if f.status != "" && !f.status.IsValid() {
		return Filter{}, apperror.New(apperror.ErrCodeValidation, "некорректный статус в фильтре")
	}
	if f.major != "" && !f.major.IsValid() {
		return Filter{}, apperror.New(apperror.ErrCodeValidation, "некорректная специальность в фильтре")
	}
	if f.level != "" && !f.level.IsValid() {
		return Filter{}, apperror.New(apperror.ErrCodeValidation, "некорректный уровень в фильтре")
	}
	if !f.opensFrom.IsZero() && !f.closesBy.IsZero() && !f.closesBy.After(f.opensFrom) {
		return Filter{}, apperror.New(apperror.ErrCodeValidation, "граница закрытия должна быть позже границы открытия")
	}
	return f, nil
}

// FilterCriteria задаёт строковое представление фильтра для CLI и файла сессии.
type FilterCriteria struct {
	Status    string `json:"status,omitempty"`
	Major     string `json:"major,omitempty"`
	Level     string `json:"level,omitempty"`
	OpensFrom string `json:"opens_from,omitempty"`
	ClosesBy  string `json:"closes_by,omitempty"`
}

func NewFilterFromCriteria(c FilterCriteria) (Filter, error) {
	var opts []FilterOption

	if v := strings.TrimSpace(c.Status); v != "" {
		status, err := valueobject.NewOpportunityStatus(v)
		if err != nil {
			return Filter{}, err
		}
		opts = append(opts, WithStatus(status))
	}
	if v := strings.TrimSpace(c.Major); v != "" {
		major, err := valueobject.NewMajor(v)
		if err != nil {
			return Filter{}, err
		}
		opts = append(opts, WithMajor(major))
	}
	if v := strings.TrimSpace(c.Level); v != "" {
		level, err := valueobject.NewLevel(v)
		if err != nil {
			return Filter{}, err
		}
		opts = append(opts, WithLevel(level))
	}
	if v := strings.TrimSpace(c.OpensFrom); v != "" {
		date, err := valueobject.ParseDate(v)
		if err != nil {
			return Filter{}, err
		}
		opts = append(opts, OpensFrom(date))
	}
	if v := strings.TrimSpace(c.ClosesBy); v != "" {
		date, err := valueobject.ParseDate(v)
		if err != nil {
			return Filter{}, err
		}
		opts = append(opts, ClosesBy(date))
	}

	return NewFilter(opts...)
}

func (f Filter) Criteria() FilterCriteria {
	return FilterCriteria{
		Status:    string(f.status),
		Major:     string(f.major),
		Level:     string(f.level),
		OpensFrom: f.opensFrom.String(),
		ClosesBy:  f.closesBy.String(),
	}
}

func (f Filter) IsEmpty() bool {
	return f.status == "" && f.major == "" && f.level == "" && f.opensFrom.IsZero() && f.closesBy.IsZero()
}

// Matches: открытие не раньше opensFrom, закрытие не позже closesBy.
func (f Filter) Matches(o *Opportunity) bool {
	if o == nil {
		return false
	}
	if f.status != "" && o.Status != f.status {
		return false
	}
	if f.major != "" && o.PreferredMajor != f.major {
		return false
	}
	if f.level != "" && o.Level != f.level {
		return false
	}
	if !f.opensFrom.IsZero() && o.Window.Opens.Before(f.opensFrom) {
		return false
	}
	if !f.closesBy.IsZero() && o.Window.Closes.After(f.closesBy) {
		return false
	}
	return true
}
