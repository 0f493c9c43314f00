package models

import "time"

// Activity — запись журнала действий на дашборде. Журнал только пополняется.
type Activity struct {
	ID          int64     `db:"id" json:"id"`
	UserID      *int64    `db:"user_id" json:"userId"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	EntityID    *int64    `db:"entity_id" json:"entityId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ActivityCreateInput — данные для создания записи журнала.
type ActivityCreateInput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	EntityID    *int64 `json:"entityId"`
}
