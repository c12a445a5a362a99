package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
	"github.com/baharkarakas/case-market/internal/repository/memory"
	"github.com/baharkarakas/case-market/internal/rewards"
)

// fixedSource always yields the same sample and item index.
type fixedSource struct {
	r   float64
	idx int
}

func (s fixedSource) Float64() float64 { return s.r }
func (s fixedSource) IntN(n int) int   { return s.idx % n }

type fixture struct {
	store  *memory.Store
	cases  *CaseService
	market *MarketService
	users  *UserService
	chat   *ChatService
}

func newFixture(t *testing.T, src rewards.Source) *fixture {
	t.Helper()
	store := memory.NewStore()
	catalog, err := rewards.NewCatalog(rewards.DefaultTable(), 0)
	require.NoError(t, err)

	rec := NewRecorder(store.Transactions(), nil)
	users, err := NewUserService(store.Users(), store.Inventory(), store.Transactions(), store, rec, 16)
	require.NoError(t, err)

	return &fixture{
		store:  store,
		cases:  NewCaseService(store, store.Cases(), catalog, src, rec),
		market: NewMarketService(store, store.Listings(), rec),
		users:  users,
		chat:   NewChatService(store.Listings(), store.Messages()),
	}
}

var userSeq int

func (f *fixture) user(t *testing.T, balance int64) string {
	t.Helper()
	userSeq++
	u, err := f.store.Users().Create(context.Background(), models.User{
		Username: fmt.Sprintf("player%d", userSeq),
		Email:    fmt.Sprintf("player%d@example.com", userSeq),
		Balance:  balance,
	})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) kase(t *testing.T, price int64, active bool, table []byte) string {
	t.Helper()
	c, err := f.store.Cases().Create(context.Background(), models.Case{
		Name:        "Starter",
		Price:       price,
		IsActive:    active,
		RewardTable: table,
	})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) item(t *testing.T, userID, name string, rarity models.Rarity) string {
	t.Helper()
	var id string
	err := f.store.WithTx(context.Background(), func(l repo.Ledger) error {
		var err error
		id, err = l.InsertInventoryItem(context.Background(), userID, name, rarity)
		return err
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	t.Helper()
	bal, ok := f.store.Balance(userID)
	require.True(t, ok, "user %s", userID)
	return bal
}

// MockTransactionLog implements repo.TransactionLog for testing.
type MockTransactionLog struct {
	mock.Mock
}

func (m *MockTransactionLog) Create(ctx context.Context, tx models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionLog) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

// MockLedgerStore implements repo.LedgerStore for testing.
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) WithTx(ctx context.Context, fn func(repo.Ledger) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}
