package valueobject

import (
	"strings"
	"time"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

const DateLayout = "2006-01-02"

// Date хранит календарную дату без времени суток.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, apperror.Wrap(err, apperror.ErrCodeValidation, "дата должна быть в формате ГГГГ-ММ-ДД")
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) Time() time.Time { return d.t }
func (d Date) AddDays(n int) Date { return DateOf(d.t.AddDate(0, 0, n)) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// DateWindow задаёт окно приёма заявок, закрытие строго позже открытия.
type DateWindow struct {
	Opens  Date
	Closes Date
}

func NewDateWindow(opens, closes Date) (DateWindow, error) {
	if opens.IsZero() || closes.IsZero() {
		return DateWindow{}, apperror.New(apperror.ErrCodeValidation, "даты открытия и закрытия обязательны")
	}
	if !closes.After(opens) {
		return DateWindow{}, apperror.New(apperror.ErrCodeValidation, "дата закрытия должна быть позже даты открытия")
	}
	return DateWindow{Opens: opens, Closes: closes}, nil
}

// Contains проверяет opens <= day <= closes.
func (w DateWindow) Contains(day Date) bool {
	return !day.Before(w.Opens) && !day.After(w.Closes)
}

func (w DateWindow) String() string {
	return w.Opens.String() + " - " + w.Closes.String()
}
