package mapping

import (
	"database/sql"

	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/mafujur-rahman/cash-plus-server/internal/models"
)

// ToModelTransfer converts a domain Transfer to a model Transfer
func ToModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		TransferID:            d.TransferID,
		IdempotencyKey:        sql.NullString{String: d.IdempotencyKey, Valid: d.IdempotencyKey != ""},
		SenderID:              d.SenderID,
		ReceiverID:            d.ReceiverID,
		ReceiverContactNumber: d.ReceiverContactNumber,
		Amount:                d.Amount,
		TotalAmount:           d.TotalAmount,
		Status:                string(d.Status),
		CreatedAt:             d.CreatedAt,
	}
}

// ToDomainTransfer converts a model Transfer to a domain Transfer
func ToDomainTransfer(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		TransferID:            m.TransferID,
		IdempotencyKey:        m.IdempotencyKey.String,
		SenderID:              m.SenderID,
		ReceiverID:            m.ReceiverID,
		ReceiverContactNumber: m.ReceiverContactNumber,
		Amount:                m.Amount,
		TotalAmount:           m.TotalAmount,
		Status:                domain.TransferStatus(m.Status),
		CreatedAt:             m.CreatedAt,
	}
}
