package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// ActivityRepository управляет журналом действий. Журнал только пополняется,
// операций обновления и удаления у него нет.
type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create добавляет запись в журнал действий.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	query := `
		INSERT INTO activities (user_id, type, description, entity_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		activity.UserID, activity.Type, activity.Description, activity.EntityID,
	).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("activity repository: не удалось создать запись журнала: %w", err)
	}
	return activity, nil
}

// List возвращает записи журнала, новые первыми.
func (r *ActivityRepository) List(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	activities := []models.Activity{}
	query := `SELECT * FROM activities ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &activities, query, limit, offset); err != nil {
		return nil, fmt.Errorf("activity repository: не удалось получить журнал действий: %w", err)
	}
	return activities, nil
}

// ListRecent возвращает последние записи журнала.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	return r.List(ctx, limit, 0)
}
