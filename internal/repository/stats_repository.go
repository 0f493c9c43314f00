package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// StatsRepository управляет единственной строкой агрегированной статистики.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get возвращает текущую статистику дашборда.
func (r *StatsRepository) Get(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := r.db.GetContext(ctx, &stats, `SELECT * FROM stats WHERE id = 1`); err != nil {
		return nil, fmt.Errorf("stats repository: не удалось получить статистику: %w", err)
	}
	return &stats, nil
}

// adjustStats выполняет обновление счётчиков через переданный executor,
// что позволяет вызывать его и внутри транзакций других репозиториев.
// Нулевая дельта не трогает строку статистики и её last_updated.
func adjustStats(ctx context.Context, execer sqlx.ExecerContext, delta models.StatsDelta) error {
	if delta.IsZero() {
		return nil
	}
	query := `
		UPDATE stats SET
			total_proposals = GREATEST(total_proposals + $1, 0),
			accepted_proposals = GREATEST(accepted_proposals + $2, 0),
			proposal_views = GREATEST(proposal_views + $3, 0),
			pending_approvals = GREATEST(pending_approvals + $4, 0),
			last_updated = NOW()
		WHERE id = 1
	`
	if _, err := execer.ExecContext(ctx, query,
		delta.TotalProposals, delta.AcceptedProposals, delta.ProposalViews, delta.PendingApprovals,
	); err != nil {
		return fmt.Errorf("stats repository: не удалось обновить счётчики: %w", err)
	}
	return nil
}
