package valueobject

import (
	"strings"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

type Level string

const (
	LevelBasic        Level = "BASIC"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

var Levels = []Level{LevelBasic, LevelIntermediate, LevelAdvanced}

func (l Level) IsValid() bool {
	switch l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func NewLevel(level string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(level)))
	if !l.IsValid() {
		return "", apperror.Newf(apperror.ErrCodeValidation, "некорректный уровень стажировки: %q", level)
	}
	return l, nil
}

type Major string

const (
	MajorCCDS Major = "CCDS"
	MajorIEEE Major = "IEEE"
	MajorDSAI Major = "DSAI"
)

var Majors = []Major{MajorCCDS, MajorIEEE, MajorDSAI}

func (m Major) IsValid() bool {
	switch m {
	case MajorCCDS, MajorIEEE, MajorDSAI:
		return true
	}
	return false
}

func NewMajor(major string) (Major, error) {
	m := Major(strings.ToUpper(strings.TrimSpace(major)))
	if !m.IsValid() {
		return "", apperror.Newf(apperror.ErrCodeValidation, "некорректная специальность: %q", major)
	}
	return m, nil
}

type Role string

const (
	RoleStudent        Role = "STUDENT"
	RoleRepresentative Role = "COMPANY_REP"
	RoleStaff          Role = "CAREER_STAFF"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleRepresentative, RoleStaff:
		return true
	}
	return false
}

// NewRole принимает как каноническое имя роли, так и короткие псевдонимы из CLI.
func NewRole(role string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "student", "1":
		return RoleStudent, nil
	case "staff", "career_staff", "2":
		return RoleStaff, nil
	case "rep", "company_rep", "representative", "3":
		return RoleRepresentative, nil
	}
	return "", apperror.Newf(apperror.ErrCodeValidation, "некорректная роль: %q", role)
}
