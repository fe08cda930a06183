package accounting_test

import (
	"testing"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		accountType domain.AccountType
		txnType     domain.TransactionType
		want        decimal.Decimal
	}{
		{name: "debit to asset is positive", accountType: domain.AccountTypeAsset, txnType: domain.Debit, want: amount},
		{name: "credit to asset is negative", accountType: domain.AccountTypeAsset, txnType: domain.Credit, want: amount.Neg()},
		{name: "debit to expense is positive", accountType: domain.AccountTypeExpense, txnType: domain.Debit, want: amount},
		{name: "debit to revenue is negative", accountType: domain.AccountTypeRevenue, txnType: domain.Debit, want: amount.Neg()},
		{name: "credit to revenue is positive", accountType: domain.AccountTypeRevenue, txnType: domain.Credit, want: amount},
		{name: "credit to liability is positive", accountType: domain.AccountTypeLiability, txnType: domain.Credit, want: amount},
		{name: "debit to equity is negative", accountType: domain.AccountTypeEquity, txnType: domain.Debit, want: amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{AccountID: "acc-1", Amount: amount, TransactionType: tt.txnType}
			got, err := accounting.CalculateSignedAmount(txn, tt.accountType)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	t.Run("unknown account type errors", func(t *testing.T) {
		txn := domain.Transaction{AccountID: "acc-1", Amount: amount, TransactionType: domain.Debit}
		_, err := accounting.CalculateSignedAmount(txn, domain.AccountType("BOGUS"))
		assert.Error(t, err)
	})
}

func TestValidateJournalBalance(t *testing.T) {
	line := func(acc string, amt int64, tt domain.TransactionType) domain.Transaction {
		return domain.Transaction{AccountID: acc, Amount: decimal.NewFromInt(amt), TransactionType: tt}
	}

	tests := []struct {
		name    string
		lines   []domain.Transaction
		wantErr bool
	}{
		{
			name:  "balanced pair accepted",
			lines: []domain.Transaction{line("a", 100, domain.Debit), line("b", 100, domain.Credit)},
		},
		{
			name: "balanced multi-leg accepted",
			lines: []domain.Transaction{
				line("a", 70, domain.Debit),
				line("b", 30, domain.Debit),
				line("c", 100, domain.Credit),
			},
		},
		{
			name:    "unbalanced rejected",
			lines:   []domain.Transaction{line("a", 100, domain.Debit), line("b", 90, domain.Credit)},
			wantErr: true,
		},
		{
			name:    "single line rejected",
			lines:   []domain.Transaction{line("a", 100, domain.Debit)},
			wantErr: true,
		},
		{
			name:    "zero amount rejected",
			lines:   []domain.Transaction{line("a", 0, domain.Debit), line("b", 0, domain.Credit)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateJournalBalance(tt.lines)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
