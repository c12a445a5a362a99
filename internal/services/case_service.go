package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/metrics"
	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
	"github.com/baharkarakas/case-market/internal/rewards"
)

type OpenedItem struct {
	Name   string        `json:"name"`
	Rarity models.Rarity `json:"rarity"`
}

type OpenCaseResult struct {
	Item       OpenedItem `json:"item"`
	ItemID     string     `json:"itemId"`
	NewBalance int64      `json:"newBalance"`
}

type CaseService struct {
	ledger  repo.LedgerStore
	cases   repo.Cases
	catalog *rewards.Catalog
	src     rewards.Source
	rec     *Recorder
}

// NewCaseService wires the case flow. A nil src uses rewards.GlobalSource.
func NewCaseService(ledger repo.LedgerStore, cases repo.Cases, catalog *rewards.Catalog, src rewards.Source, rec *Recorder) *CaseService {
	if src == nil {
		src = rewards.GlobalSource
	}
	return &CaseService{ledger: ledger, cases: cases, catalog: catalog, src: src, rec: rec}
}

// OpenCase charges the case price and awards one drawn item. The debit and
// the inventory insert commit together or not at all.
func (s *CaseService) OpenCase(ctx context.Context, userID, caseID string) (OpenCaseResult, error) {
	log := logger.FromContext(ctx)
	userID, caseID = strings.TrimSpace(userID), strings.TrimSpace(caseID)
	if userID == "" || caseID == "" {
		return OpenCaseResult{}, fmt.Errorf("%w: user_id and case_id are required", models.ErrInvalidArgument)
	}

	var (
		res  OpenCaseResult
		cost int64
	)
	err := s.ledger.WithTx(ctx, func(l repo.Ledger) error {
		c, err := l.GetCase(ctx, caseID)
		if err != nil {
			return err
		}
		bal, err := l.GetUserBalance(ctx, userID)
		if err != nil {
			return err
		}
		if bal < c.Price {
			return fmt.Errorf("%w: balance %d, case costs %d", models.ErrInsufficientFunds, bal, c.Price)
		}

		table, err := s.catalog.TableFor(c)
		if err != nil {
			return err
		}
		rarity, item, err := rewards.Draw(table, s.src)
		if err != nil {
			return err
		}

		newBal, err := l.AdjustBalance(ctx, userID, -c.Price)
		if err != nil {
			return err
		}
		itemID, err := l.InsertInventoryItem(ctx, userID, item.Name, rarity)
		if err != nil {
			return err
		}

		cost = c.Price
		res = OpenCaseResult{
			Item:       OpenedItem{Name: item.Name, Rarity: rarity},
			ItemID:     itemID,
			NewBalance: newBal,
		}
		return nil
	})
	if err != nil {
		log.Warn("open case failed", "user_id", userID, "case_id", caseID, "kind", models.KindOf(err), "err", err)
		return OpenCaseResult{}, err
	}

	metrics.CasesOpenedTotal.WithLabelValues(string(res.Item.Rarity)).Inc()
	s.rec.Record(ctx, models.Transaction{
		UserID:      userID,
		Amount:      -cost,
		Type:        models.TxnCaseOpen,
		Description: fmt.Sprintf("Opened case %s: %s (%s)", caseID, res.Item.Name, res.Item.Rarity),
	})
	log.Info("case opened", "user_id", userID, "case_id", caseID, "rarity", res.Item.Rarity, "item_id", res.ItemID)
	return res, nil
}

// CreateCase adds a case to the catalog. A non-empty rewardTable must parse
// as a valid reward table; an empty one leaves the case on the default table.
func (s *CaseService) CreateCase(ctx context.Context, name string, price int64, isActive bool, rewardTable json.RawMessage) (models.Case, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Case{}, fmt.Errorf("%w: name is required", models.ErrInvalidArgument)
	}
	if price <= 0 {
		return models.Case{}, fmt.Errorf("%w: price must be positive, got %d", models.ErrInvalidArgument, price)
	}
	if len(rewardTable) > 0 {
		if _, err := rewards.ParseJSON(rewardTable); err != nil {
			return models.Case{}, fmt.Errorf("%w: reward_table: %v", models.ErrInvalidArgument, err)
		}
	}

	c, err := s.cases.Create(ctx, models.Case{
		Name:        name,
		Price:       price,
		IsActive:    isActive,
		RewardTable: rewardTable,
	})
	if err != nil {
		return models.Case{}, err
	}
	logger.FromContext(ctx).Info("case created", "case_id", c.ID, "name", c.Name, "price", c.Price, "active", c.IsActive)
	return c, nil
}

func (s *CaseService) ListCases(ctx context.Context) ([]models.Case, error) {
	return s.cases.ListActive(ctx)
}
