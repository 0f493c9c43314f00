package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// Ограничения на длины полей.
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 32
	MaxEmailLength       = 254
	MaxFullNameLength    = 100
	MaxTitleLength       = 200
	MaxNameLength        = 150
	MaxCategoryLength    = 50
	MaxDescriptionLength = 1000
	MaxSubjectLength     = 200
	MaxContentLength     = 50000
	MaxMessageLength     = 5000
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldError — нарушение ограничения для конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors — список всех нарушений, найденных при валидации входных данных.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// HasErrors сообщает, были ли найдены нарушения.
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

func (e *Errors) requireString(field, value string, maxLen int) {
	if strings.TrimSpace(value) == "" {
		e.add(field, "поле обязательно")
		return
	}
	if len(value) > maxLen {
		e.add(field, fmt.Sprintf("не должно превышать %d символов", maxLen))
	}
}

func (e *Errors) checkOptionalString(field string, value *string, maxLen int) {
	if value == nil {
		return
	}
	e.requireString(field, *value, maxLen)
}

// ValidateUserCreate проверяет данные регистрации пользователя.
func ValidateUserCreate(input models.UserCreateInput) Errors {
	var errs Errors

	username := strings.TrimSpace(input.Username)
	if username == "" {
		errs.add("username", "поле обязательно")
	} else {
		if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
			errs.add("username", fmt.Sprintf("длина должна быть от %d до %d символов", MinUsernameLength, MaxUsernameLength))
		}
		if !usernameRegex.MatchString(username) {
			errs.add("username", "допустимы только латинские буквы, цифры, дефис и подчёркивание")
		}
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		errs.add("email", "поле обязательно")
	} else if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		errs.add("email", "некорректный адрес электронной почты")
	}

	if err := ValidatePassword(input.Password); err != nil {
		errs.add("password", err.Error())
	}

	if len(input.FullName) > MaxFullNameLength {
		errs.add("fullName", fmt.Sprintf("не должно превышать %d символов", MaxFullNameLength))
	}

	return errs
}

// ValidateTemplateCreate проверяет данные создания шаблона.
func ValidateTemplateCreate(input models.TemplateCreateInput) Errors {
	var errs Errors
	errs.requireString("name", input.Name, MaxNameLength)
	if len(input.Description) > MaxDescriptionLength {
		errs.add("description", fmt.Sprintf("не должно превышать %d символов", MaxDescriptionLength))
	}
	errs.requireString("category", input.Category, MaxCategoryLength)
	return errs
}

// ValidateTemplateUpdate проверяет данные частичного обновления шаблона.
func ValidateTemplateUpdate(input models.TemplateUpdateInput) Errors {
	var errs Errors
	errs.checkOptionalString("name", input.Name, MaxNameLength)
	if input.Description != nil && len(*input.Description) > MaxDescriptionLength {
		errs.add("description", fmt.Sprintf("не должно превышать %d символов", MaxDescriptionLength))
	}
	errs.checkOptionalString("category", input.Category, MaxCategoryLength)
	return errs
}

// ValidateSectionCreate проверяет данные создания секции шаблона.
func ValidateSectionCreate(input models.SectionCreateInput) Errors {
	var errs Errors
	errs.requireString("title", input.Title, MaxTitleLength)
	if len(input.Content) > MaxContentLength {
		errs.add("content", fmt.Sprintf("не должно превышать %d символов", MaxContentLength))
	}
	if input.Position < 0 {
		errs.add("position", "не может быть отрицательной")
	}
	return errs
}

// ValidateSectionUpdate проверяет данные частичного обновления секции.
func ValidateSectionUpdate(input models.SectionUpdateInput) Errors {
	var errs Errors
	errs.checkOptionalString("title", input.Title, MaxTitleLength)
	if input.Content != nil && len(*input.Content) > MaxContentLength {
		errs.add("content", fmt.Sprintf("не должно превышать %d символов", MaxContentLength))
	}
	if input.Position != nil && *input.Position < 0 {
		errs.add("position", "не может быть отрицательной")
	}
	return errs
}

// ValidateProposalCreate проверяет данные создания предложения.
func ValidateProposalCreate(input models.ProposalCreateInput) Errors {
	var errs Errors
	errs.requireString("title", input.Title, MaxTitleLength)
	errs.requireString("clientName", input.ClientName, MaxNameLength)
	if len(input.Content) > MaxContentLength {
		errs.add("content", fmt.Sprintf("не должно превышать %d символов", MaxContentLength))
	}
	if input.Status != "" {
		if _, ok := models.ValidProposalStatuses[input.Status]; !ok {
			errs.add("status", "недопустимый статус предложения")
		}
	}
	if input.Amount != nil && *input.Amount < 0 {
		errs.add("amount", "не может быть отрицательной")
	}
	return errs
}

// ValidateProposalUpdate проверяет данные частичного обновления предложения.
func ValidateProposalUpdate(input models.ProposalUpdateInput) Errors {
	var errs Errors
	errs.checkOptionalString("title", input.Title, MaxTitleLength)
	errs.checkOptionalString("clientName", input.ClientName, MaxNameLength)
	if input.Content != nil && len(*input.Content) > MaxContentLength {
		errs.add("content", fmt.Sprintf("не должно превышать %d символов", MaxContentLength))
	}
	if input.Status != nil {
		if _, ok := models.ValidProposalStatuses[*input.Status]; !ok {
			errs.add("status", "недопустимый статус предложения")
		}
	}
	if input.Amount != nil && *input.Amount < 0 {
		errs.add("amount", "не может быть отрицательной")
	}
	return errs
}

// ValidateActivityCreate проверяет данные создания записи журнала.
func ValidateActivityCreate(input models.ActivityCreateInput) Errors {
	var errs Errors
	errs.requireString("type", input.Type, MaxCategoryLength)
	errs.requireString("description", input.Description, MaxDescriptionLength)
	return errs
}

// ValidateContactMessageCreate проверяет данные формы обратной связи.
func ValidateContactMessageCreate(input models.ContactMessageCreateInput) Errors {
	var errs Errors
	errs.requireString("name", input.Name, MaxNameLength)

	email := strings.TrimSpace(input.Email)
	if email == "" {
		errs.add("email", "поле обязательно")
	} else if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		errs.add("email", "некорректный адрес электронной почты")
	}

	errs.requireString("subject", input.Subject, MaxSubjectLength)
	errs.requireString("message", input.Message, MaxMessageLength)
	return errs
}
