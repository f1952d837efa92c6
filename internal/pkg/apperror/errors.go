package apperror

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE"
	ErrCodeWithdrawalLimit ErrorCode = "WITHDRAWAL_LIMIT"
	ErrCodeStorage         ErrorCode = "STORAGE_ERROR"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code     ErrorCode
	Message  string
	ExitCode int
	Cause    error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: codeToExitCode(code),
	}
}

func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: codeToExitCode(code),
		Cause:    err,
	}
}

// codeToExitCode сопоставляет код ошибки с кодом завершения CLI.
// Бизнес-ошибки и ошибки ввода не фатальны: процесс завершается штатно с кодом 1,
// а вызывающая сторона решает, повторять ли ввод.
func codeToExitCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound, ErrCodeValidation, ErrCodeConflict, ErrCodeBusinessRule:
		return 1
	case ErrCodeUnauthorized, ErrCodeForbidden:
		return 2
	case ErrCodeWithdrawalLimit:
		return 3
	default:
		return 10
	}
}

// Message возвращает текст ошибки без кода, пригодный для показа пользователю.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// ExitCode возвращает код завершения для произвольной ошибки.
func ExitCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return codeToExitCode(ErrCodeInternal)
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

func IsBusinessRule(err error) bool {
	return CodeOf(err) == ErrCodeBusinessRule
}

func IsUnauthorized(err error) bool {
	return CodeOf(err) == ErrCodeUnauthorized
}

var (
	ErrOpportunityNotFound       = New(ErrCodeNotFound, "стажировка не найдена")
	ErrApplicationNotFound       = New(ErrCodeNotFound, "заявка не найдена")
	ErrWithdrawalRequestNotFound = New(ErrCodeNotFound, "запрос на отзыв заявки не найден")
	ErrAccountRequestNotFound    = New(ErrCodeNotFound, "запрос на создание аккаунта не найден")
	ErrUserNotFound              = New(ErrCodeNotFound, "пользователь не найден")
	ErrEmptyCredentials          = New(ErrCodeValidation, "идентификатор и пароль не могут быть пустыми")
	ErrWrongPassword             = New(ErrCodeUnauthorized, "неверный пароль")
	ErrUnauthorized              = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden                 = New(ErrCodeForbidden, "недостаточно прав")
	ErrWithdrawalLimitReached    = New(ErrCodeWithdrawalLimit, "лимит запросов на отзыв исчерпан, обратитесь к администратору")
)
