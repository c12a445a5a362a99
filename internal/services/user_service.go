package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
)

type CreditResult struct {
	UserID     string `json:"user_id"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"newBalance"`
}

type UserService struct {
	users     repo.Users
	inventory repo.Inventory
	txs       repo.TransactionLog
	ledger    repo.LedgerStore
	rec       *Recorder

	// Idempotency-Key -> first result, process-local.
	idemMu sync.Mutex
	idem   *lru.Cache[string, CreditResult]
}

func NewUserService(users repo.Users, inventory repo.Inventory, txs repo.TransactionLog,
	ledger repo.LedgerStore, rec *Recorder, idemSize int) (*UserService, error) {
	if idemSize <= 0 {
		idemSize = 1024
	}
	cache, err := lru.New[string, CreditResult](idemSize)
	if err != nil {
		return nil, fmt.Errorf("idempotency cache: %w", err)
	}
	return &UserService{
		users:     users,
		inventory: inventory,
		txs:       txs,
		ledger:    ledger,
		rec:       rec,
		idem:      cache,
	}, nil
}

func (s *UserService) Register(ctx context.Context, username, email string) (models.User, error) {
	u := models.User{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	u, err := s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	logger.FromContext(ctx).Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, clampLimit(limit), max(offset, 0))
}

func (s *UserService) Inventory(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.inventory.ListByUser(ctx, userID)
}

// Transactions lists a user's transaction records, newest first. Records are
// best-effort, so the list may miss movements whose record write failed.
func (s *UserService) Transactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.txs.ListByUser(ctx, userID, clampLimit(limit), max(offset, 0))
}

// Credit tops up a user's balance. A repeated call with the same non-empty
// idemKey returns the first result without crediting again.
func (s *UserService) Credit(ctx context.Context, userID string, amount int64, idemKey string) (CreditResult, error) {
	if amount <= 0 {
		return CreditResult{}, fmt.Errorf("%w: amount must be > 0", models.ErrInvalidArgument)
	}

	if idemKey != "" {
		s.idemMu.Lock()
		defer s.idemMu.Unlock()
		if res, ok := s.idem.Get(userID + "/" + idemKey); ok {
			return res, nil
		}
	}

	res := CreditResult{UserID: userID, Amount: amount}
	err := s.ledger.WithTx(ctx, func(l repo.Ledger) error {
		var err error
		res.NewBalance, err = l.AdjustBalance(ctx, userID, amount)
		return err
	})
	if err != nil {
		return CreditResult{}, err
	}
	if idemKey != "" {
		s.idem.Add(userID+"/"+idemKey, res)
	}

	s.rec.Record(ctx, models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.TxnAdminCredit,
		Description: "Balance top-up",
	})
	logger.FromContext(ctx).Info("balance credited", "user_id", userID, "amount", amount)
	return res, nil
}
