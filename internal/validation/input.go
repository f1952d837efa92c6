package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

const (
	MaxUserIDLength           = 100
	MaxNameLength             = 100
	MaxOpportunityTitleLength = 200
	MaxDescriptionLength      = 5000
	MaxWithdrawalReasonLength = 1000
	MaxDepartmentLength       = 100
	MaxCompanyNameLength      = 200
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Newf(apperror.ErrCodeValidation, "%s обязательно", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperror.New(apperror.ErrCodeValidation, "email обязателен")
	}
	if !emailRegex.MatchString(email) {
		return apperror.Newf(apperror.ErrCodeValidation, "некорректный формат email: %q", email)
	}
	return nil
}

func ValidateUserID(id string) error {
	if err := ValidateNonEmpty("идентификатор пользователя", id); err != nil {
		return err
	}
	if strings.ContainsAny(id, ",;|\n") {
		return apperror.New(apperror.ErrCodeValidation, "идентификатор пользователя содержит недопустимые символы")
	}
	return ValidateLength("идентификатор пользователя", strings.TrimSpace(id), 1, MaxUserIDLength)
}

func ValidateOpportunityTitle(title string) error {
	if err := ValidateNonEmpty("название стажировки", title); err != nil {
		return err
	}
	return ValidateLength("название стажировки", strings.TrimSpace(title), 1, MaxOpportunityTitleLength)
}

func ValidateDescription(description string) error {
	return ValidateLength("описание", strings.TrimSpace(description), 0, MaxDescriptionLength)
}

func ValidateWithdrawalReason(reason string) error {
	if err := ValidateNonEmpty("причина отзыва", reason); err != nil {
		return err
	}
	return ValidateLength("причина отзыва", strings.TrimSpace(reason), 1, MaxWithdrawalReasonLength)
}

// ValidateAccountRequest проверяет поля запроса на аккаунт представителя компании.
func ValidateAccountRequest(userID, name, company, department, position string) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	fields := []struct {
		name, value string
		max         int
	}{
		{"имя", name, MaxNameLength},
		{"название компании", company, MaxCompanyNameLength},
		{"отдел", department, MaxDepartmentLength},
		{"должность", position, MaxNameLength},
	}
	for _, f := range fields {
		if err := ValidateNonEmpty(f.name, f.value); err != nil {
			return err
		}
		if err := ValidateLength(f.name, strings.TrimSpace(f.value), 1, f.max); err != nil {
			return err
		}
	}
	return nil
}
