package models

import "time"

// Template — шаблон коммерческого предложения.
type Template struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	IsPopular   bool      `db:"is_popular" json:"isPopular"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Sections []TemplateSection `db:"-" json:"sections,omitempty"`
}

// TemplateSection — секция шаблона, упорядоченная по позиции.
type TemplateSection struct {
	ID         int64     `db:"id" json:"id"`
	TemplateID int64     `db:"template_id" json:"templateId"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	Position   int       `db:"position" json:"position"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// TemplateCreateInput — данные для создания шаблона.
type TemplateCreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	IsPopular   bool   `json:"isPopular"`
}

// TemplateUpdateInput — данные для частичного обновления шаблона.
type TemplateUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"imageUrl"`
	IsPopular   *bool   `json:"isPopular"`
}

// SectionCreateInput — данные для создания секции шаблона.
type SectionCreateInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// SectionUpdateInput — данные для частичного обновления секции.
type SectionUpdateInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Position *int    `json:"position"`
}
