package accounting

import (
	"fmt"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a transaction amount
// based on account type and transaction type. Shared by the ledger service
// and the pgsql repository so running balances and account balances agree.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(txn domain.Transaction, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := txn.Amount
	isDebit := txn.TransactionType == domain.Debit

	switch accountType {
	case domain.AccountTypeAsset, domain.AccountTypeExpense:
		if !isDebit { // Credit to Asset/Expense
			signedAmount = signedAmount.Neg()
		}
	case domain.AccountTypeLiability, domain.AccountTypeEquity, domain.AccountTypeRevenue:
		if isDebit { // Debit to Liability/Equity/Revenue
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, txn.AccountID)
	}
	return signedAmount, nil
}

// ValidateJournalBalance checks that the supplied lines form a balanced
// double entry: at least two lines, every amount positive, and the sum of
// debits equal to the sum of credits.
func ValidateJournalBalance(transactions []domain.Transaction) error {
	if len(transactions) < 2 {
		return fmt.Errorf("journal must have at least two transaction entries")
	}

	zero := decimal.NewFromInt(0)
	debitsSum := zero
	creditsSum := zero

	for _, txn := range transactions {
		if txn.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("transaction amount must be positive for account %s", txn.AccountID)
		}

		if txn.TransactionType == domain.Debit {
			debitsSum = debitsSum.Add(txn.Amount)
		} else {
			creditsSum = creditsSum.Add(txn.Amount)
		}
	}

	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("debits sum is %s and credits sum is %s", debitsSum.String(), creditsSum.String())
	}

	return nil
}
