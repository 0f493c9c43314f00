package models

import "time"

// Stats — единственная строка агрегированных счётчиков дашборда.
type Stats struct {
	ID                int64     `db:"id" json:"id"`
	TotalProposals    int64     `db:"total_proposals" json:"totalProposals"`
	AcceptedProposals int64     `db:"accepted_proposals" json:"acceptedProposals"`
	ProposalViews     int64     `db:"proposal_views" json:"proposalViews"`
	PendingApprovals  int64     `db:"pending_approvals" json:"pendingApprovals"`
	LastUpdated       time.Time `db:"last_updated" json:"lastUpdated"`
}

// StatsDelta — изменение счётчиков статистики, применяемое атомарно.
type StatsDelta struct {
	TotalProposals    int64
	AcceptedProposals int64
	ProposalViews     int64
	PendingApprovals  int64
}

// IsZero сообщает, что дельта не меняет ни один счётчик.
func (d StatsDelta) IsZero() bool {
	return d.TotalProposals == 0 && d.AcceptedProposals == 0 && d.ProposalViews == 0 && d.PendingApprovals == 0
}

// Add возвращает сумму двух дельт.
func (d StatsDelta) Add(other StatsDelta) StatsDelta {
	return StatsDelta{
		TotalProposals:    d.TotalProposals + other.TotalProposals,
		AcceptedProposals: d.AcceptedProposals + other.AcceptedProposals,
		ProposalViews:     d.ProposalViews + other.ProposalViews,
		PendingApprovals:  d.PendingApprovals + other.PendingApprovals,
	}
}
