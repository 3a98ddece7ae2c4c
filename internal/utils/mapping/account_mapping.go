package mapping

import (
	"github.com/mafujur-rahman/cash-plus-server/internal/core/domain"
	"github.com/mafujur-rahman/cash-plus-server/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Name:           d.Name,
		CredentialHash: d.CredentialHash,
		ContactNumber:  d.ContactNumber,
		Email:          d.Email,
		Balance:        d.Balance,
		Status:         string(d.Status),
		Role:           string(d.Role),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Name:           m.Name,
		CredentialHash: m.CredentialHash,
		ContactNumber:  m.ContactNumber,
		Email:          m.Email,
		Balance:        m.Balance,
		Status:         domain.AccountStatus(m.Status),
		Role:           domain.AccountRole(m.Role),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
