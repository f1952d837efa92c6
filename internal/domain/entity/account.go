package entity

import (
	"strings"

	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// Identity содержит общие поля любого аккаунта.
type Identity struct {
	ID           string
	Name         string
	PasswordHash string
}

func (i *Identity) identity() *Identity { return i }

// Account закрыт для внешних типов, варианты: *Student, *Representative, *Staff.
type Account interface {
	identity() *Identity
}

type Student struct {
	Identity
	Year  int
	Major valueobject.Major
	Email string

	// WithdrawalRequestsMade считает уже рассмотренных запросов на отзыв.
	WithdrawalRequestsMade int
}

type Representative struct {
	Identity
	CompanyName string
	Department  string
	Position    string
}

type Staff struct {
	Identity
	Department string
	Email      string
}

func NewStudent(id, name string, year int, major valueobject.Major, email string) (*Student, error) {
	if err := validateIdentity(id, name); err != nil {
		return nil, err
	}
	if year < 1 {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "некорректный год обучения: %d", year)
	}
	if !major.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректная специальность")
	}
	return &Student{
		Identity: Identity{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)},
		Year:     year,
		Major:    major,
		Email:    strings.TrimSpace(email),
	}, nil
}

func NewRepresentative(id, name, company, department, position string) (*Representative, error) {
	if err := validateIdentity(id, name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(company) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название компании обязательно")
	}
	return &Representative{
		Identity:    Identity{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)},
		CompanyName: strings.TrimSpace(company),
		Department:  strings.TrimSpace(department),
		Position:    strings.TrimSpace(position),
	}, nil
}

func NewStaff(id, name, department, email string) (*Staff, error) {
	if err := validateIdentity(id, name); err != nil {
		return nil, err
	}
	return &Staff{
		Identity:   Identity{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)},
		Department: strings.TrimSpace(department),
		Email:      strings.TrimSpace(email),
	}, nil
}

// MinAdvancedYear задаёт курс, начиная с которого доступны уровни выше BASIC.
const MinAdvancedYear = 3

func (s *Student) AcceptsAdvancedLevels() bool {
	return s.Year >= MinAdvancedYear
}

func IdentityOf(a Account) *Identity {
	if a == nil {
		return nil
	}
	return a.identity()
}

func RoleOf(a Account) valueobject.Role {
	switch a.(type) {
	case *Student:
		return valueobject.RoleStudent
	case *Representative:
		return valueobject.RoleRepresentative
	case *Staff:
		return valueobject.RoleStaff
	default:
		return ""
	}
}

func validateIdentity(id, name string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.New(apperror.ErrCodeValidation, "идентификатор пользователя обязателен")
	}
	if strings.TrimSpace(name) == "" {
		return apperror.New(apperror.ErrCodeValidation, "имя пользователя обязательно")
	}
	return nil
}
