package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/case-market/internal/models"
)

type ledger struct {
	st  *state
	now func() time.Time
}

func (l *ledger) user(id string) (models.User, error) {
	u, ok := l.st.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return u, nil
}

func (l *ledger) GetUserBalance(ctx context.Context, userID string) (int64, error) {
	u, err := l.user(userID)
	return u.Balance, err
}

func (l *ledger) GetUsername(ctx context.Context, userID string) (string, error) {
	u, err := l.user(userID)
	return u.Username, err
}

func (l *ledger) GetCase(ctx context.Context, caseID string) (models.Case, error) {
	c, ok := l.st.cases[caseID]
	if !ok || !c.IsActive {
		return models.Case{}, fmt.Errorf("%w: case %s", models.ErrNotFound, caseID)
	}
	return c, nil
}

func (l *ledger) AdjustBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	u, err := l.user(userID)
	if err != nil {
		return 0, err
	}
	if u.Balance+delta < 0 {
		return 0, fmt.Errorf("%w: user %s cannot cover %d", models.ErrInsufficientFunds, userID, -delta)
	}
	u.Balance += delta
	l.st.users[userID] = u
	return u.Balance, nil
}

func (l *ledger) InsertInventoryItem(ctx context.Context, userID, name string, rarity models.Rarity) (string, error) {
	if _, err := l.user(userID); err != nil {
		return "", err
	}
	id := uuid.NewString()
	l.st.inventory[id] = models.InventoryItem{
		ID:         id,
		UserID:     userID,
		ItemName:   name,
		Rarity:     rarity,
		AcquiredAt: l.now(),
	}
	return id, nil
}

func (l *ledger) GetInventoryItem(ctx context.Context, itemID string) (models.InventoryItem, error) {
	it, ok := l.st.inventory[itemID]
	if !ok {
		return models.InventoryItem{}, fmt.Errorf("%w: inventory item %s", models.ErrNotFound, itemID)
	}
	return it, nil
}

func (l *ledger) DeleteInventoryItem(ctx context.Context, itemID, ownerID string) error {
	it, ok := l.st.inventory[itemID]
	if !ok {
		return fmt.Errorf("%w: inventory item %s", models.ErrNotFound, itemID)
	}
	if it.UserID != ownerID {
		return fmt.Errorf("%w: inventory item %s is not owned by %s", models.ErrForbidden, itemID, ownerID)
	}
	delete(l.st.inventory, itemID)
	return nil
}

func (l *ledger) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	lst, ok := l.st.listings[listingID]
	if !ok {
		return models.Listing{}, fmt.Errorf("%w: listing %s", models.ErrNotFound, listingID)
	}
	return lst, nil
}

func (l *ledger) InsertListing(ctx context.Context, lst models.Listing) (string, error) {
	if _, err := l.user(lst.SellerID); err != nil {
		return "", err
	}
	if lst.ID == "" {
		lst.ID = uuid.NewString()
	}
	lst.IsSold = false
	lst.BuyerID = nil
	lst.SoldAt = nil
	lst.CreatedAt = l.now()
	l.st.listings[lst.ID] = lst
	return lst.ID, nil
}

func (l *ledger) MarkListingSold(ctx context.Context, listingID, buyerID string) error {
	lst, ok := l.st.listings[listingID]
	if !ok {
		return fmt.Errorf("%w: listing %s", models.ErrNotFound, listingID)
	}
	if lst.IsSold {
		return fmt.Errorf("%w: %s", models.ErrAlreadySold, listingID)
	}
	now := l.now()
	lst.IsSold = true
	lst.BuyerID = &buyerID
	lst.SoldAt = &now
	l.st.listings[listingID] = lst
	return nil
}
