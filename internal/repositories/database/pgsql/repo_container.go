package pgsql

import (
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	assetRepo := newPgxAssetRepository(dbPool)
	reservationRepo := newPgxReservationRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	reconciliationRepo := newPgxReconciliationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:        accountRepo,
		AssetRepo:          assetRepo,
		ReservationRepo:    reservationRepo,
		JournalRepo:        journalRepo,
		ReconciliationRepo: reconciliationRepo,
	}
}
