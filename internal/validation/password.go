package validation

import (
	"errors"
	"unicode"
)

// Ограничения на пароль.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ValidatePassword проверяет, что пароль удовлетворяет требованиям безопасности.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("пароль должен содержать не менее 8 символов")
	}
	if len(password) > MaxPasswordLength {
		return errors.New("пароль слишком длинный")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return errors.New("пароль должен содержать буквы и цифры")
	}

	return nil
}
