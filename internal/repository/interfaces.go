package repository

import (
	"context"

	"github.com/baharkarakas/case-market/internal/models"
)

// Ledger is the set of reads and writes available inside one store
// transaction. Every method participates in the transaction that produced
// the Ledger; nothing is visible to other callers until it commits.
type Ledger interface {
	// GetUserBalance fails with models.ErrNotFound if the user is absent.
	GetUserBalance(ctx context.Context, userID string) (int64, error)
	// GetUsername fails with models.ErrNotFound if the user is absent.
	GetUsername(ctx context.Context, userID string) (string, error)
	// GetCase fails with models.ErrNotFound if the case is absent or inactive.
	GetCase(ctx context.Context, caseID string) (models.Case, error)

	// AdjustBalance adds delta and returns the new balance. A debit that would
	// drive the balance negative fails with models.ErrInsufficientFunds and
	// leaves the balance unchanged.
	AdjustBalance(ctx context.Context, userID string, delta int64) (int64, error)

	InsertInventoryItem(ctx context.Context, userID, name string, rarity models.Rarity) (string, error)
	// GetInventoryItem locks the row until the transaction ends.
	GetInventoryItem(ctx context.Context, itemID string) (models.InventoryItem, error)
	// DeleteInventoryItem fails with models.ErrNotFound if the item is absent
	// and models.ErrForbidden if it belongs to someone other than ownerID.
	DeleteInventoryItem(ctx context.Context, itemID, ownerID string) error

	// GetListing locks the row until the transaction ends. Sold listings are
	// returned as-is; callers decide.
	GetListing(ctx context.Context, listingID string) (models.Listing, error)
	InsertListing(ctx context.Context, l models.Listing) (string, error)
	// MarkListingSold flips is_sold from false to true. It fails with
	// models.ErrAlreadySold when the flag was already set, so at most one
	// transaction can ever succeed for a listing.
	MarkListingSold(ctx context.Context, listingID, buyerID string) error
}

// LedgerStore runs fn inside one atomic transaction: if fn returns an error
// every write it issued is rolled back, otherwise all of them commit.
type LedgerStore interface {
	WithTx(ctx context.Context, fn func(Ledger) error) error
}

// TransactionLog holds the best-effort audit records of balance movements.
type TransactionLog interface {
	Create(ctx context.Context, tx models.Transaction) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type Cases interface {
	Create(ctx context.Context, c models.Case) (models.Case, error)
	ListActive(ctx context.Context) ([]models.Case, error)
}

type Inventory interface {
	ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error)
}

type Listings interface {
	ListOpen(ctx context.Context, limit, offset int) ([]models.Listing, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type Messages interface {
	Create(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error)
	ListByListing(ctx context.Context, listingID string) ([]models.ChatMessage, error)
}
