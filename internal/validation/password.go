package validation

import (
	"unicode"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

const MinPasswordLength = 5

// ValidatePassword проверяет пароль на соответствие требованиям:
// - не короче MinPasswordLength символов
// - хотя бы одна заглавная буква
// - хотя бы одна строчная буква
// - хотя бы одна цифра
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return apperror.Newf(apperror.ErrCodeValidation, "пароль должен быть не менее %d символов", MinPasswordLength)
	}

	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать хотя бы одну заглавную букву")
	}
	if !hasLower {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать хотя бы одну строчную букву")
	}
	if !hasNumber {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать хотя бы одну цифру")
	}

	return nil
}
