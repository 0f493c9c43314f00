package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode — машиночитаемый код ошибки приложения.
type ErrorCode string

const (
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeBadRequest    ErrorCode = "BAD_REQUEST"
	CodeUpstream      ErrorCode = "UPSTREAM"
	CodeInternal      ErrorCode = "INTERNAL"
)

// AppError — ошибка приложения с кодом и HTTP статусом.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New создаёт AppError с кодом и сообщением.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap оборачивает исходную ошибку в AppError.
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      cause,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeValidation
	}
	return false
}

// Часто используемые ошибки аутентификации и доступа.
var (
	ErrInvalidCredentials = New(CodeUnauthorized, "Неверное имя пользователя или пароль")
	ErrUnauthorized       = New(CodeUnauthorized, "Требуется авторизация")
	ErrAdminOnly          = New(CodeForbidden, "Операция доступна только администратору")
)
