package models

import "time"

// Proposal — коммерческое предложение.
type Proposal struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"userId"`
	TemplateID *int64     `db:"template_id" json:"templateId"`
	Title      string     `db:"title" json:"title"`
	ClientName string     `db:"client_name" json:"clientName"`
	Content    string     `db:"content" json:"content"`
	Status     string     `db:"status" json:"status"`
	Amount     *float64   `db:"amount" json:"amount"`
	Views      int64      `db:"views" json:"views"`
	SentAt     *time.Time `db:"sent_at" json:"sentAt"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// ProposalCreateInput — данные для создания предложения.
type ProposalCreateInput struct {
	Title      string   `json:"title"`
	ClientName string   `json:"clientName"`
	Content    string   `json:"content"`
	Status     string   `json:"status"`
	TemplateID *int64   `json:"templateId"`
	Amount     *float64 `json:"amount"`
}

// ProposalUpdateInput — данные для частичного обновления предложения.
type ProposalUpdateInput struct {
	Title      *string  `json:"title"`
	ClientName *string  `json:"clientName"`
	Content    *string  `json:"content"`
	Status     *string  `json:"status"`
	TemplateID *int64   `json:"templateId"`
	Amount     *float64 `json:"amount"`
}
