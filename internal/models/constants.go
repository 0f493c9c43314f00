package models

// Статусы коммерческого предложения.
const (
	ProposalStatusDraft    = "draft"
	ProposalStatusSent     = "sent"
	ProposalStatusViewed   = "viewed"
	ProposalStatusAccepted = "accepted"
	ProposalStatusDeclined = "declined"
)

// ValidProposalStatuses — множество допустимых статусов предложения.
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusDraft:    {},
	ProposalStatusSent:     {},
	ProposalStatusViewed:   {},
	ProposalStatusAccepted: {},
	ProposalStatusDeclined: {},
}

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRoles — множество допустимых ролей.
var ValidRoles = map[string]struct{}{
	RoleUser:  {},
	RoleAdmin: {},
}

// Типы шаблонных секций и контента для AI подсказок.
const (
	ContentTypeIntroduction = "introduction"
	ContentTypeScope        = "scope"
	ContentTypePricing      = "pricing"
	ContentTypeTimeline     = "timeline"
	ContentTypeTerms        = "terms"
	ContentTypeConclusion   = "conclusion"
)

// ValidContentTypes — множество допустимых типов контента.
var ValidContentTypes = map[string]struct{}{
	ContentTypeIntroduction: {},
	ContentTypeScope:        {},
	ContentTypePricing:      {},
	ContentTypeTimeline:     {},
	ContentTypeTerms:        {},
	ContentTypeConclusion:   {},
}
