package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	"github.com/fleetstack/rental_ledger_app/internal/models"
	"github.com/fleetstack/rental_ledger_app/internal/utils/accounting"
	"github.com/fleetstack/rental_ledger_app/internal/utils/mapping"
	"github.com/fleetstack/rental_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal and transaction data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// SaveJournal saves a journal, updates account balances, and saves associated
// transactions within one DB transaction. The unique index on external_ref is
// the idempotency check: a second insert under the same reference fails the
// whole transaction with apperrors.ErrDuplicate and writes nothing.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	accountRepo := r.accountRepo

	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx) // No-op once the transaction is committed

	now := journal.CreatedAt
	userID := journal.CreatedBy

	// 1. Insert the journal entry
	modelJournal := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (
			journal_id, external_ref, journal_date, description, currency_code, status,
			original_journal_id, reversing_journal_id, amount,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.ExternalRef,
		modelJournal.JournalDate,
		modelJournal.Description,
		modelJournal.CurrencyCode,
		modelJournal.Status,
		modelJournal.OriginalJournalID,
		modelJournal.ReversingJournalID,
		modelJournal.Amount,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on external_ref
			return fmt.Errorf("%w: external ref %s already posted", apperrors.ErrDuplicate, modelJournal.ExternalRef)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	// 2. Lock every affected account and read its balance
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	// 3. Apply the net balance changes
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	// 4. Insert transaction lines with running balances
	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO transactions (transaction_id, journal_id, account_id, amount, transaction_type, currency_code, notes, created_at, created_by, last_updated_at, last_updated_by, running_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	currentRunningBalances := make(map[string]decimal.Decimal)
	for accID, lockedAcc := range lockedAccounts {
		currentRunningBalances[accID] = lockedAcc.Balance // Balance before this journal's changes
	}

	// Deterministic line order for running balance calculation
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].TransactionID < transactions[j].TransactionID
	})

	for _, txn := range transactions {
		modelTxn := mapping.ToModelTransaction(txn)
		modelTxn.CreatedAt = now
		modelTxn.LastUpdatedAt = now
		modelTxn.CreatedBy = userID
		modelTxn.LastUpdatedBy = userID

		lockedAccount, ok := lockedAccounts[txn.AccountID]
		if !ok {
			return apperrors.NewAppError(500, "internal error: locked account "+txn.AccountID+" not found during transaction processing", nil)
		}

		signedAmount, err := accounting.CalculateSignedAmount(txn, lockedAccount.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to calculate signed amount for transaction "+txn.TransactionID, err)
		}

		newRunningBalance := currentRunningBalances[txn.AccountID].Add(signedAmount)
		modelTxn.RunningBalance = newRunningBalance
		currentRunningBalances[txn.AccountID] = newRunningBalance

		batch.Queue(txnQuery,
			modelTxn.TransactionID,
			modelTxn.JournalID,
			modelTxn.AccountID,
			modelTxn.Amount,
			modelTxn.TransactionType,
			modelTxn.CurrencyCode,
			modelTxn.Notes,
			modelTxn.CreatedAt,
			modelTxn.CreatedBy,
			modelTxn.LastUpdatedAt,
			modelTxn.LastUpdatedBy,
			modelTxn.RunningBalance,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction batch for journal "+modelJournal.JournalID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for journal "+modelJournal.JournalID, err)
	}

	return nil
}

const journalColumns = `journal_id, external_ref, journal_date, description, currency_code, status,
		       original_journal_id, reversing_journal_id, amount,
		       created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	var originalID sql.NullString
	var reversingID sql.NullString

	err := row.Scan(
		&m.JournalID,
		&m.ExternalRef,
		&m.JournalDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&originalID,
		&reversingID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}

	if originalID.Valid {
		m.OriginalJournalID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingJournalID = &reversingID.String
	}
	return m, nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	modelJournal, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	domainJournal := mapping.ToDomainJournal(modelJournal)
	return &domainJournal, nil
}

// FindJournalByExternalRef retrieves a journal by its unique external
// reference. This is the read side of the idempotent posting path.
func (r *PgxJournalRepository) FindJournalByExternalRef(ctx context.Context, externalRef string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE external_ref = $1;`

	modelJournal, err := scanJournal(r.Pool.QueryRow(ctx, query, externalRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by external ref "+externalRef, err)
	}

	domainJournal := mapping.ToDomainJournal(modelJournal)
	return &domainJournal, nil
}

// FindJournalsByExternalRefs retrieves journals for a batch of external
// references, keyed by reference. References with no journal have no entry.
func (r *PgxJournalRepository) FindJournalsByExternalRefs(ctx context.Context, externalRefs []string) (map[string]domain.Journal, error) {
	if len(externalRefs) == 0 {
		return map[string]domain.Journal{}, nil
	}

	query := `SELECT ` + journalColumns + ` FROM journals WHERE external_ref = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, externalRefs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journals by external refs", err)
	}
	defer rows.Close()

	journalsMap := make(map[string]domain.Journal)
	for rows.Next() {
		modelJournal, err := scanJournal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal row during batch fetch", err)
		}
		journalsMap[modelJournal.ExternalRef] = mapping.ToDomainJournal(modelJournal)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal rows during batch fetch", err)
	}

	return journalsMap, nil
}

// FindTransactionsByJournalID retrieves all transactions associated with a specific journal.
func (r *PgxJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, journal_id, account_id, amount, transaction_type, currency_code, notes, created_at, created_by, last_updated_at, last_updated_by, running_balance
		FROM transactions
		WHERE journal_id = $1
		ORDER BY transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal "+journalID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.JournalID,
			&t.AccountID,
			&t.Amount,
			&t.TransactionType,
			&t.CurrencyCode,
			&t.Notes,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
			&t.RunningBalance,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for journal "+journalID, err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for journal "+journalID, err)
	}

	return mapping.ToDomainTransactionSlice(transactions), nil
}

// FindTransactionsByJournalIDs retrieves all transactions for a given list of journal IDs.
// It returns a map where keys are journal IDs and values are slices of transactions.
func (r *PgxJournalRepository) FindTransactionsByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.Transaction, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.Transaction{}, nil
	}

	query := `
		SELECT transaction_id, journal_id, account_id, amount, transaction_type, currency_code, notes, created_at, created_by, last_updated_at, last_updated_by, running_balance
		FROM transactions
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, transaction_id;
	`

	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal IDs", err)
	}
	defer rows.Close()

	transactionsMap := make(map[string][]domain.Transaction)
	for rows.Next() {
		var modelTxn models.Transaction
		var runningBalancePtr *decimal.Decimal // running_balance is nullable

		if err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.JournalID,
			&modelTxn.AccountID,
			&modelTxn.Amount,
			&modelTxn.TransactionType,
			&modelTxn.CurrencyCode,
			&modelTxn.Notes,
			&modelTxn.CreatedAt,
			&modelTxn.CreatedBy,
			&modelTxn.LastUpdatedAt,
			&modelTxn.LastUpdatedBy,
			&runningBalancePtr,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row during batch fetch", err)
		}
		if runningBalancePtr != nil {
			modelTxn.RunningBalance = *runningBalancePtr
		} else {
			modelTxn.RunningBalance = decimal.Zero
		}

		domainTxn := mapping.ToDomainTransaction(modelTxn)
		transactionsMap[domainTxn.JournalID] = append(transactionsMap[domainTxn.JournalID], domainTxn)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows during batch fetch", err)
	}

	// Journals with no transactions still get an entry
	for _, jid := range journalIDs {
		if _, exists := transactionsMap[jid]; !exists {
			transactionsMap[jid] = []domain.Transaction{}
		}
	}

	return transactionsMap, nil
}

// ListTransactionsByAccountID retrieves a paginated list of transactions for a specific account using token-based pagination.
func (r *PgxJournalRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to detect whether there is a next page
	fetchLimit := limit + 1

	baseQuery := `
		SELECT t.transaction_id, t.journal_id, t.account_id, t.amount, t.transaction_type, t.currency_code, t.notes,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.running_balance, j.journal_date
		FROM transactions t
		JOIN journals j ON t.journal_id = j.journal_id
		WHERE t.account_id = $1 AND j.status = 'POSTED' AND j.original_journal_id IS NULL
	`
	orderByClause := `ORDER BY j.journal_date DESC, t.created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (j.journal_date, t.created_at) < ($2, $3)`
		args = append(args, lastJournalDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.JournalID,
			&t.AccountID,
			&t.Amount,
			&t.TransactionType,
			&t.CurrencyCode,
			&t.Notes,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
			&t.RunningBalance,
			&t.JournalDate,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for account "+accountID, err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := transactions
	if len(transactions) > limit {
		lastTxn := transactions[limit-1] // Last item actually included in this page
		token := pagination.EncodeToken(lastTxn.JournalDate, lastTxn.CreatedAt)
		nextTokenVal = &token
		results = transactions[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// ListJournals retrieves a paginated list of journals using token-based pagination, newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalColumns + ` FROM journals`

	filterClause := `WHERE TRUE`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND reversing_journal_id IS NULL AND original_journal_id IS NULL`
	}

	orderByClause := `ORDER BY journal_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (journal_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	modelJournals := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanJournal(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", scanErr)
		}
		modelJournals = append(modelJournals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var nextTokenVal *string
	results := modelJournals
	if len(modelJournals) > limit {
		lastJournal := modelJournals[limit-1]
		newToken := pagination.EncodeToken(lastJournal.JournalDate, lastJournal.CreatedAt)
		nextTokenVal = &newToken
		results = modelJournals[:limit]
	}

	domainJournals := make([]domain.Journal, len(results))
	for i, m := range results {
		domainJournals[i] = mapping.ToDomainJournal(m)
	}

	return domainJournals, nextTokenVal, nil
}

// SumAccountAsOf computes the signed net of all posted lines against an
// account up to and including asOf. Reversed journals and their reversals
// still count: their lines cancel arithmetically, so no filter is needed.
func (r *PgxJournalRepository) SumAccountAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN a.account_type IN ('ASSET', 'EXPENSE') AND t.transaction_type = 'DEBIT' THEN t.amount
				WHEN a.account_type IN ('ASSET', 'EXPENSE') AND t.transaction_type = 'CREDIT' THEN -t.amount
				WHEN t.transaction_type = 'CREDIT' THEN t.amount
				ELSE -t.amount
			END
		), 0)
		FROM transactions t
		JOIN journals j ON t.journal_id = j.journal_id
		JOIN accounts a ON t.account_id = a.account_id
		WHERE t.account_id = $1 AND j.journal_date <= $2;
	`

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum transactions for account "+accountID, err)
	}
	return total, nil
}

// UpdateJournalStatusAndLinks updates the status and reversal links for a journal.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2,
		    reversing_journal_id = COALESCE($3, reversing_journal_id),
		    original_journal_id = COALESCE($4, original_journal_id),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE journal_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		journalID,
		status,
		reversingJournalID,
		originalJournalID,
		updatedAt,
		updatedByUserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal status/links for "+journalID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for update")
	}

	return nil
}
