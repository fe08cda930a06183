package services

import (
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
)

// NewContainer wires every service against the repository provider. The
// handlers receive this container and never touch repositories directly.
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:        NewAccountService(repos.AccountRepo),
		Asset:          NewAssetService(repos.AssetRepo),
		Booking:        NewBookingService(repos.ReservationRepo, repos.AssetRepo),
		Ledger:         NewLedgerService(repos.JournalRepo, repos.AccountRepo),
		Reconciliation: NewReconciliationService(repos.ReservationRepo, repos.AssetRepo, repos.JournalRepo, repos.ReconciliationRepo),
	}
}
