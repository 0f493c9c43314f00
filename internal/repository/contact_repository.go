package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// ErrContactMessageNotFound возвращается, когда сообщение не найдено.
var ErrContactMessageNotFound = errors.New("сообщение не найдено")

// ContactRepository управляет сообщениями формы обратной связи.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create сохраняет новое сообщение обратной связи.
func (r *ContactRepository) Create(ctx context.Context, message *models.ContactMessage) (*models.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		message.Name, message.Email, message.Subject, message.Message,
	).Scan(&message.ID, &message.IsRead, &message.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("contact repository: не удалось сохранить сообщение: %w", err)
	}
	return message, nil
}

// GetByID возвращает сообщение по идентификатору.
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.GetContext(ctx, &message, `SELECT * FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactMessageNotFound
		}
		return nil, fmt.Errorf("contact repository: не удалось получить сообщение: %w", err)
	}
	return &message, nil
}

// List возвращает сообщения, новые первыми.
func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	query := `SELECT * FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &messages, query, limit, offset); err != nil {
		return nil, fmt.Errorf("contact repository: не удалось получить список сообщений: %w", err)
	}
	return messages, nil
}

// MarkRead помечает сообщение прочитанным.
func (r *ContactRepository) MarkRead(ctx context.Context, id int64) (*models.ContactMessage, error) {
	var message models.ContactMessage
	query := `UPDATE contact_messages SET is_read = TRUE WHERE id = $1 RETURNING *`
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactMessageNotFound
		}
		return nil, fmt.Errorf("contact repository: не удалось пометить сообщение прочитанным: %w", err)
	}
	return &message, nil
}

// Delete удаляет сообщение.
func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("contact repository: не удалось удалить сообщение: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact repository: не удалось получить количество удалённых строк: %w", err)
	}
	if rows == 0 {
		return ErrContactMessageNotFound
	}
	return nil
}
