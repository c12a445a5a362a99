package models

import "time"

type TransactionType string

const (
	TxnCaseOpen       TransactionType = "case_open"
	TxnMarketPurchase TransactionType = "market_purchase"
	TxnMarketSale     TransactionType = "market_sale"
	TxnAdminCredit    TransactionType = "admin_credit"
)

// Transaction is the audit record of a balance movement. Amount is signed:
// negative for debits, positive for credits.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
