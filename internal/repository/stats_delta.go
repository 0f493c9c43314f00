package repository

import "github.com/ignatzorin/proposalpro-backend/internal/models"

// creationDelta возвращает изменение счётчиков при создании предложения
// в указанном статусе.
func creationDelta(status string) models.StatsDelta {
	delta := models.StatsDelta{TotalProposals: 1}
	switch status {
	case models.ProposalStatusSent:
		delta.PendingApprovals = 1
	case models.ProposalStatusAccepted:
		delta.AcceptedProposals = 1
	}
	return delta
}

// transitionDelta возвращает изменение счётчиков при переходе предложения
// из одного статуса в другой. Переход в тот же статус дельту не меняет.
func transitionDelta(from, to string) models.StatsDelta {
	if from == to {
		return models.StatsDelta{}
	}

	var delta models.StatsDelta

	// Снимаем вклад старого статуса.
	switch from {
	case models.ProposalStatusSent:
		delta.PendingApprovals--
	case models.ProposalStatusAccepted:
		delta.AcceptedProposals--
	}

	// Добавляем вклад нового статуса.
	switch to {
	case models.ProposalStatusSent:
		delta.PendingApprovals++
	case models.ProposalStatusAccepted:
		delta.AcceptedProposals++
	}

	return delta
}

// deletionDelta возвращает изменение счётчиков при удалении предложения
// с указанным статусом и числом просмотров.
func deletionDelta(status string, views int64) models.StatsDelta {
	delta := models.StatsDelta{TotalProposals: -1, ProposalViews: -views}
	switch status {
	case models.ProposalStatusSent:
		delta.PendingApprovals = -1
	case models.ProposalStatusAccepted:
		delta.AcceptedProposals = -1
	}
	return delta
}
