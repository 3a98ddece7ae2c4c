package services

import (
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Stateless collaborators first, the account and ledger services depend on them
	container.Credentials = NewCredentialVerifier(cfg.BcryptCost)
	container.Sessions = NewTokenService(cfg)

	container.Account = NewAccountService(
		repos.AccountRepo,
		container.Credentials,
		container.Sessions,
		WithAccountEventPublisher(publisher),
	)

	container.Ledger = NewLedgerService(
		repos.AccountRepo,
		repos.TransferRepo,
		container.Credentials,
		WithLedgerEventPublisher(publisher),
		WithTransferTimeout(cfg.TransferTimeout),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade   = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade    = (*ledgerService)(nil)
	_ portssvc.SessionIssuer      = (*tokenService)(nil)
	_ portssvc.CredentialVerifier = (*bcryptCredentialVerifier)(nil)
)
