package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/metrics"
	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
)

const (
	opList     = "list"
	opPurchase = "purchase"
)

type PurchaseResult struct {
	NewBalance int64 `json:"newBalance"`
}

type MarketService struct {
	ledger   repo.LedgerStore
	listings repo.Listings
	rec      *Recorder
}

func NewMarketService(ledger repo.LedgerStore, listings repo.Listings, rec *Recorder) *MarketService {
	return &MarketService{ledger: ledger, listings: listings, rec: rec}
}

// CreateListing moves an inventory item onto the market. The listing insert
// and the inventory delete commit together.
func (s *MarketService) CreateListing(ctx context.Context, userID, itemID string, price int64, description string) (string, error) {
	log := logger.FromContext(ctx)
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(itemID) == "" {
		return "", s.fail(ctx, opList, fmt.Errorf("%w: user_id and item_id are required", models.ErrInvalidArgument))
	}
	if price <= 0 {
		return "", s.fail(ctx, opList, fmt.Errorf("%w: price must be > 0", models.ErrInvalidArgument))
	}

	var listingID string
	err := s.ledger.WithTx(ctx, func(l repo.Ledger) error {
		item, err := l.GetInventoryItem(ctx, itemID)
		if err != nil {
			return err
		}
		// Someone else's item is reported as missing.
		if item.UserID != userID {
			return fmt.Errorf("%w: inventory item %s", models.ErrNotFound, itemID)
		}
		seller, err := l.GetUsername(ctx, userID)
		if err != nil {
			return err
		}

		listingID, err = l.InsertListing(ctx, models.Listing{
			SellerID:       userID,
			SellerUsername: seller,
			ItemName:       item.ItemName,
			Rarity:         item.Rarity,
			Price:          price,
			Description:    description,
		})
		if err != nil {
			return err
		}
		return l.DeleteInventoryItem(ctx, itemID, userID)
	})
	if err != nil {
		return "", s.fail(ctx, opList, err)
	}

	metrics.MarketOpsTotal.WithLabelValues(opList, "ok").Inc()
	log.Info("listing created", "listing_id", listingID, "seller_id", userID, "price", price)
	return listingID, nil
}

// PurchaseListing transfers the listing price from buyer to seller and the
// item to the buyer. The sold flag flips with a conditional update, so of
// any number of concurrent buyers exactly one commits.
func (s *MarketService) PurchaseListing(ctx context.Context, buyerID, listingID string) (PurchaseResult, error) {
	log := logger.FromContext(ctx)
	if strings.TrimSpace(buyerID) == "" || strings.TrimSpace(listingID) == "" {
		return PurchaseResult{}, s.fail(ctx, opPurchase, fmt.Errorf("%w: user_id and listing_id are required", models.ErrInvalidArgument))
	}

	var (
		res     PurchaseResult
		listing models.Listing
	)
	err := s.ledger.WithTx(ctx, func(l repo.Ledger) error {
		var err error
		listing, err = l.GetListing(ctx, listingID)
		if err != nil {
			return err
		}
		if listing.IsSold {
			return fmt.Errorf("%w: %s", models.ErrAlreadySold, listingID)
		}
		if listing.SellerID == buyerID {
			return fmt.Errorf("%w: cannot buy own listing", models.ErrInvalidOperation)
		}
		bal, err := l.GetUserBalance(ctx, buyerID)
		if err != nil {
			return err
		}
		if bal < listing.Price {
			return fmt.Errorf("%w: balance %d, listing costs %d", models.ErrInsufficientFunds, bal, listing.Price)
		}

		if err := l.MarkListingSold(ctx, listingID, buyerID); err != nil {
			return err
		}
		for _, leg := range transferLegs(buyerID, listing.SellerID, listing.Price) {
			bal, err := l.AdjustBalance(ctx, leg.userID, leg.delta)
			if err != nil {
				return err
			}
			if leg.userID == buyerID {
				res.NewBalance = bal
			}
		}
		_, err = l.InsertInventoryItem(ctx, buyerID, listing.ItemName, listing.Rarity)
		return err
	})
	if err != nil {
		return PurchaseResult{}, s.fail(ctx, opPurchase, err)
	}

	metrics.MarketOpsTotal.WithLabelValues(opPurchase, "ok").Inc()
	s.rec.Record(ctx,
		models.Transaction{
			UserID:      buyerID,
			Amount:      -listing.Price,
			Type:        models.TxnMarketPurchase,
			Description: fmt.Sprintf("Bought %s from %s", listing.ItemName, listing.SellerUsername),
		},
		models.Transaction{
			UserID:      listing.SellerID,
			Amount:      listing.Price,
			Type:        models.TxnMarketSale,
			Description: fmt.Sprintf("Sold %s", listing.ItemName),
		},
	)
	log.Info("listing purchased", "listing_id", listingID, "buyer_id", buyerID, "seller_id", listing.SellerID, "price", listing.Price)
	return res, nil
}

type balanceLeg struct {
	userID string
	delta  int64
}

// transferLegs orders the debit and credit of a transfer by user id so that
// crossing transfers lock the same rows in the same order.
func transferLegs(from, to string, amount int64) [2]balanceLeg {
	legs := [2]balanceLeg{{from, -amount}, {to, amount}}
	if to < from {
		legs[0], legs[1] = legs[1], legs[0]
	}
	return legs
}

// ListOpen returns unsold listings, newest first.
func (s *MarketService) ListOpen(ctx context.Context, limit, offset int) ([]models.Listing, error) {
	return s.listings.ListOpen(ctx, clampLimit(limit), max(offset, 0))
}

func (s *MarketService) fail(ctx context.Context, op string, err error) error {
	kind := models.KindOf(err)
	metrics.MarketOpsTotal.WithLabelValues(op, string(kind)).Inc()
	logger.FromContext(ctx).Warn("market operation rejected", "op", op, "kind", kind, "err", err)
	return err
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}
