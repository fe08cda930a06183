package dto

import (
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostTransactionRequest is one debit or credit leg of a posting request.
type PostTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=DEBIT CREDIT"`
	Notes           string                 `json:"notes"`
}

// PostJournalRequest defines the data needed to post a business event as a
// balanced journal. ExternalRef is the caller-supplied idempotency key:
// retries of the same logical event must reuse the same value.
type PostJournalRequest struct {
	ExternalRef  string                   `json:"externalRef" binding:"required"`
	Date         time.Time                `json:"date" binding:"required"`
	Description  string                   `json:"description" binding:"required"`
	CurrencyCode string                   `json:"currencyCode" binding:"required"`
	Transactions []PostTransactionRequest `json:"transactions" binding:"required,min=2,dive"`
}

// TransactionResponse defines the data returned for a transaction line.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"` // DEBIT or CREDIT
	Notes          string          `json:"notes,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	ExternalRef        string                `json:"externalRef"`
	Date               time.Time             `json:"date"`
	Description        string                `json:"description"`
	CurrencyCode       string                `json:"currencyCode"`
	Status             domain.JournalStatus  `json:"status"`
	Amount             decimal.Decimal       `json:"amount"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	AlreadyPosted      bool                  `json:"alreadyPosted"` // True when this response returns a previously stored entry
	Transactions       []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
}

// ListJournalsResponse is the paginated journal listing.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListTransactionsParams holds parameters for listing an account's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is the paginated transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountCode string          `json:"accountCode"`
	AsOf        time.Time       `json:"asOf"`
	Balance     decimal.Decimal `json:"balance"`
}

// ReverseJournalRequest supplies the fresh external reference a correction
// posts under. The original reference is never reused.
type ReverseJournalRequest struct {
	ExternalRef string `json:"externalRef" binding:"required"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		AccountID:      txn.AccountID,
		Amount:         txn.Amount,
		Type:           string(txn.TransactionType),
		Notes:          txn.Notes,
		RunningBalance: txn.RunningBalance,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal, alreadyPosted bool) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		ExternalRef:        j.ExternalRef,
		Date:               j.JournalDate,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		Status:             j.Status,
		Amount:             j.Amount,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		AlreadyPosted:      alreadyPosted,
		CreatedAt:          j.CreatedAt,
	}
	if len(j.Transactions) > 0 {
		resp.Transactions = ToTransactionResponses(j.Transactions)
	}
	return resp
}
