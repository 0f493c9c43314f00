package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// ErrProposalNotFound возвращается, когда предложение не найдено.
var ErrProposalNotFound = errors.New("предложение не найдено")

// ProposalRepository управляет коммерческими предложениями в PostgreSQL.
// Изменения статусов и удаления синхронно корректируют счётчики статистики
// в одной транзакции, чтобы счётчики никогда не расходились с данными.
type ProposalRepository struct {
	db *sqlx.DB
}

func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет новое предложение и корректирует счётчики статистики.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) (*models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback()

	if proposal.Status == models.ProposalStatusSent && proposal.SentAt == nil {
		now := time.Now()
		proposal.SentAt = &now
	}

	query := `
		INSERT INTO proposals (user_id, template_id, title, client_name, content, status, amount, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, views, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		proposal.UserID, proposal.TemplateID, proposal.Title, proposal.ClientName,
		proposal.Content, proposal.Status, proposal.Amount, proposal.SentAt,
	).Scan(&proposal.ID, &proposal.Views, &proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось создать предложение: %w", err)
	}

	if err := adjustStats(ctx, tx, creationDelta(proposal.Status)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось зафиксировать транзакцию: %w", err)
	}
	return proposal, nil
}

// GetByID возвращает предложение по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id int64) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: не удалось получить предложение: %w", err)
	}
	return &proposal, nil
}

// ListByUser возвращает предложения пользователя, новые первыми.
func (r *ProposalRepository) ListByUser(ctx context.Context, userID int64) ([]models.Proposal, error) {
	proposals := []models.Proposal{}
	query := `SELECT * FROM proposals WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &proposals, query, userID); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось получить список предложений: %w", err)
	}
	return proposals, nil
}

// ListRecent возвращает последние предложения пользователя.
func (r *ProposalRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Proposal, error) {
	proposals := []models.Proposal{}
	query := `SELECT * FROM proposals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &proposals, query, userID, limit); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось получить последние предложения: %w", err)
	}
	return proposals, nil
}

// Update частично обновляет предложение. Смена статуса выполняется под
// блокировкой строки и корректирует счётчики статистики в той же транзакции.
func (r *ProposalRepository) Update(ctx context.Context, id int64, input models.ProposalUpdateInput) (*models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback()

	var current models.Proposal
	err = tx.GetContext(ctx, &current, `SELECT * FROM proposals WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: не удалось заблокировать предложение: %w", err)
	}

	setParts := []string{}
	args := []interface{}{}
	argNum := 1

	addSet := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Title != nil {
		addSet("title", *input.Title)
	}
	if input.ClientName != nil {
		addSet("client_name", *input.ClientName)
	}
	if input.Content != nil {
		addSet("content", *input.Content)
	}
	if input.TemplateID != nil {
		addSet("template_id", *input.TemplateID)
	}
	if input.Amount != nil {
		addSet("amount", *input.Amount)
	}

	var delta models.StatsDelta
	if input.Status != nil && *input.Status != current.Status {
		addSet("status", *input.Status)
		delta = transitionDelta(current.Status, *input.Status)

		// Первый переход в sent фиксирует время отправки.
		if *input.Status == models.ProposalStatusSent && current.SentAt == nil {
			addSet("sent_at", time.Now())
		}
	}

	if len(setParts) == 0 {
		return &current, nil
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE proposals SET %s WHERE id = $%d`, strings.Join(setParts, ", "), argNum)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось обновить предложение: %w", err)
	}

	if err := adjustStats(ctx, tx, delta); err != nil {
		return nil, err
	}

	var updated models.Proposal
	if err := tx.GetContext(ctx, &updated, `SELECT * FROM proposals WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось перечитать предложение: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось зафиксировать транзакцию: %w", err)
	}
	return &updated, nil
}

// Delete удаляет предложение и снимает его вклад со счётчиков статистики.
func (r *ProposalRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("proposal repository: не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback()

	var current models.Proposal
	err = tx.GetContext(ctx, &current, `SELECT * FROM proposals WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProposalNotFound
		}
		return fmt.Errorf("proposal repository: не удалось заблокировать предложение: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("proposal repository: не удалось удалить предложение: %w", err)
	}

	if err := adjustStats(ctx, tx, deletionDelta(current.Status, current.Views)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("proposal repository: не удалось зафиксировать транзакцию: %w", err)
	}
	return nil
}

// IncrementViews атомарно увеличивает счётчик просмотров предложения
// и общий счётчик просмотров в статистике.
func (r *ProposalRepository) IncrementViews(ctx context.Context, id int64) (*models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback()

	var proposal models.Proposal
	query := `
		UPDATE proposals SET views = views + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	err = tx.GetContext(ctx, &proposal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: не удалось увеличить счётчик просмотров: %w", err)
	}

	if err := adjustStats(ctx, tx, models.StatsDelta{ProposalViews: 1}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("proposal repository: не удалось зафиксировать транзакцию: %w", err)
	}
	return &proposal, nil
}
