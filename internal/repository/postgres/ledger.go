package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
)

type ledgerStore struct{ pool *pgxpool.Pool }

func NewLedgerStore(pool *pgxpool.Pool) repo.LedgerStore {
	return &ledgerStore{pool: pool}
}

// WithTx runs fn in a READ COMMITTED transaction. Races are settled by row
// locks (SELECT ... FOR UPDATE) and conditional updates checked by affected
// row count, not by the isolation level.
func (s *ledgerStore) WithTx(ctx context.Context, fn func(repo.Ledger) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", models.ErrStoreUnavailable, err)
	}
	defer SafeRollback(ctx, tx)

	if err := fn(&pgLedger{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

type pgLedger struct{ tx pgx.Tx }

func (l *pgLedger) GetUserBalance(ctx context.Context, userID string) (int64, error) {
	var bal int64
	err := l.tx.QueryRow(ctx, `SELECT balance FROM users WHERE id=$1`, userID).Scan(&bal)
	if err != nil {
		return 0, mapErr(err, "user "+userID)
	}
	return bal, nil
}

func (l *pgLedger) GetUsername(ctx context.Context, userID string) (string, error) {
	var name string
	err := l.tx.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, userID).Scan(&name)
	if err != nil {
		return "", mapErr(err, "user "+userID)
	}
	return name, nil
}

func (l *pgLedger) GetCase(ctx context.Context, caseID string) (models.Case, error) {
	var (
		c   models.Case
		raw []byte
	)
	err := l.tx.QueryRow(ctx,
		`SELECT id, name, price, is_active, reward_table, updated_at
		   FROM cases
		  WHERE id=$1 AND is_active`,
		caseID,
	).Scan(&c.ID, &c.Name, &c.Price, &c.IsActive, &raw, &c.UpdatedAt)
	if err != nil {
		return models.Case{}, mapErr(err, "case "+caseID)
	}
	c.RewardTable = raw
	return c, nil
}

// AdjustBalance applies delta only when the result stays non-negative. The
// UPDATE holds the row lock, so concurrent debits are checked one at a time.
func (l *pgLedger) AdjustBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	var bal int64
	err := l.tx.QueryRow(ctx,
		`UPDATE users
		    SET balance = balance + $2
		  WHERE id = $1 AND balance + $2 >= 0
		  RETURNING balance`,
		userID, delta,
	).Scan(&bal)
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, mapErr(err, "user "+userID)
	}

	var exists bool
	if err := l.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID).Scan(&exists); err != nil {
		return 0, mapErr(err, "user "+userID)
	}
	if !exists {
		return 0, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	return 0, fmt.Errorf("%w: user %s cannot cover %d", models.ErrInsufficientFunds, userID, -delta)
}

func (l *pgLedger) InsertInventoryItem(ctx context.Context, userID, name string, rarity models.Rarity) (string, error) {
	id := uuid.NewString()
	_, err := l.tx.Exec(ctx,
		`INSERT INTO inventory (id, user_id, item_name, rarity) VALUES ($1,$2,$3,$4)`,
		id, userID, name, string(rarity),
	)
	if err != nil {
		return "", mapErr(err, "inventory for user "+userID)
	}
	return id, nil
}

func (l *pgLedger) GetInventoryItem(ctx context.Context, itemID string) (models.InventoryItem, error) {
	var (
		it     models.InventoryItem
		rarity string
	)
	err := l.tx.QueryRow(ctx,
		`SELECT id, user_id, item_name, rarity, acquired_at
		   FROM inventory
		  WHERE id=$1
		  FOR UPDATE`,
		itemID,
	).Scan(&it.ID, &it.UserID, &it.ItemName, &rarity, &it.AcquiredAt)
	if err != nil {
		return models.InventoryItem{}, mapErr(err, "inventory item "+itemID)
	}
	it.Rarity = models.Rarity(rarity)
	return it, nil
}

func (l *pgLedger) DeleteInventoryItem(ctx context.Context, itemID, ownerID string) error {
	tag, err := l.tx.Exec(ctx, `DELETE FROM inventory WHERE id=$1 AND user_id=$2`, itemID, ownerID)
	if err != nil {
		return mapErr(err, "inventory item "+itemID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := l.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM inventory WHERE id=$1)`, itemID).Scan(&exists); err != nil {
		return mapErr(err, "inventory item "+itemID)
	}
	if exists {
		return fmt.Errorf("%w: inventory item %s is not owned by %s", models.ErrForbidden, itemID, ownerID)
	}
	return fmt.Errorf("%w: inventory item %s", models.ErrNotFound, itemID)
}

const listingColumns = `id, seller_id, seller_username, item_name, rarity, price, description,
	is_sold, buyer_id, created_at, sold_at`

func scanListing(row pgx.Row) (models.Listing, error) {
	var (
		l      models.Listing
		rarity string
	)
	err := row.Scan(&l.ID, &l.SellerID, &l.SellerUsername, &l.ItemName, &rarity, &l.Price,
		&l.Description, &l.IsSold, &l.BuyerID, &l.CreatedAt, &l.SoldAt)
	l.Rarity = models.Rarity(rarity)
	return l, err
}

func (l *pgLedger) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	lst, err := scanListing(l.tx.QueryRow(ctx,
		`SELECT `+listingColumns+`
		   FROM market_listings
		  WHERE id=$1
		  FOR UPDATE`,
		listingID,
	))
	if err != nil {
		return models.Listing{}, mapErr(err, "listing "+listingID)
	}
	return lst, nil
}

func (l *pgLedger) InsertListing(ctx context.Context, lst models.Listing) (string, error) {
	if lst.ID == "" {
		lst.ID = uuid.NewString()
	}
	_, err := l.tx.Exec(ctx,
		`INSERT INTO market_listings
		   (id, seller_id, seller_username, item_name, rarity, price, description)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		lst.ID, lst.SellerID, lst.SellerUsername, lst.ItemName, string(lst.Rarity), lst.Price, lst.Description,
	)
	if err != nil {
		return "", mapErr(err, "listing")
	}
	return lst.ID, nil
}

// MarkListingSold is the single point where a listing changes hands: the
// WHERE clause makes the flip conditional and the affected row count tells
// the winner from the loser.
func (l *pgLedger) MarkListingSold(ctx context.Context, listingID, buyerID string) error {
	tag, err := l.tx.Exec(ctx,
		`UPDATE market_listings
		    SET is_sold = true, buyer_id = $2, sold_at = now()
		  WHERE id = $1 AND NOT is_sold`,
		listingID, buyerID,
	)
	if err != nil {
		return mapErr(err, "listing "+listingID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := l.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM market_listings WHERE id=$1)`, listingID).Scan(&exists); err != nil {
		return mapErr(err, "listing "+listingID)
	}
	if !exists {
		return fmt.Errorf("%w: listing %s", models.ErrNotFound, listingID)
	}
	return fmt.Errorf("%w: %s", models.ErrAlreadySold, listingID)
}
