// Package memory is an in-process implementation of the repository
// interfaces. Transactions are serialized behind one mutex and applied to a
// copy of the state that replaces the original only on success, which gives
// the same all-or-nothing and one-winner guarantees as the postgres store.
//
// It backs the service and router tests; cmd/api always runs on postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
)

type state struct {
	users        map[string]models.User
	cases        map[string]models.Case
	inventory    map[string]models.InventoryItem
	listings     map[string]models.Listing
	messages     []models.ChatMessage
	transactions []models.Transaction
}

func newState() *state {
	return &state{
		users:     make(map[string]models.User),
		cases:     make(map[string]models.Case),
		inventory: make(map[string]models.InventoryItem),
		listings:  make(map[string]models.Listing),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.cases {
		c.cases[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.listings {
		c.listings[k] = v
	}
	c.messages = append([]models.ChatMessage(nil), s.messages...)
	c.transactions = append([]models.Transaction(nil), s.transactions...)
	return c
}

type Store struct {
	mu         sync.Mutex
	st         *state
	now        func() time.Time
	recordErr  error
	recordHook func(models.Transaction)
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

var _ repo.LedgerStore = (*Store)(nil)

type (
	txLog       struct{ s *Store }
	usersRepo   struct{ s *Store }
	casesRepo   struct{ s *Store }
	invRepo     struct{ s *Store }
	listingRepo struct{ s *Store }
	msgRepo     struct{ s *Store }
)

func (s *Store) Transactions() repo.TransactionLog { return txLog{s} }
func (s *Store) Users() repo.Users                 { return usersRepo{s} }
func (s *Store) Cases() repo.Cases                 { return casesRepo{s} }
func (s *Store) Inventory() repo.Inventory         { return invRepo{s} }
func (s *Store) Listings() repo.Listings           { return listingRepo{s} }
func (s *Store) Messages() repo.Messages           { return msgRepo{s} }

// FailRecords makes every TransactionLog.Create return err. nil restores
// normal behavior.
func (s *Store) FailRecords(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordErr = err
}

// OnRecord registers a hook called for every stored transaction record.
func (s *Store) OnRecord(fn func(models.Transaction)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordHook = fn
}

func (s *Store) WithTx(ctx context.Context, fn func(repo.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&ledger{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ---- seeding and inspection ----

func (s *Store) Balance(userID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[userID]
	return u.Balance, ok
}

func (s *Store) InventoryItem(id string) (models.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.st.inventory[id]
	return it, ok
}

func (s *Store) InventoryCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.st.inventory {
		if it.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) Listing(id string) (models.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.st.listings[id]
	return l, ok
}

func (s *Store) Records() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.st.transactions...)
}

// ---- TransactionLog ----

func (v txLog) Create(ctx context.Context, tx models.Transaction) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	if _, ok := s.st.users[tx.UserID]; !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, tx.UserID)
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = s.now()
	s.st.transactions = append(s.st.transactions, tx)
	if s.recordHook != nil {
		s.recordHook(tx)
	}
	return nil
}

func (v txLog) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for i := len(s.st.transactions) - 1; i >= 0; i-- {
		if tx := s.st.transactions[i]; tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ---- Users ----

func (v usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.st.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return models.User{}, fmt.Errorf("%w: user %s already exists", models.ErrInvalidArgument, u.Username)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.now()
	s.st.users[u.ID] = u
	return u, nil
}

func (v usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return u, nil
}

func (v usersRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.st.users))
	for _, u := range s.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// ---- Cases ----

func (v casesRepo) Create(ctx context.Context, c models.Case) (models.Case, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UpdatedAt = s.now()
	s.st.cases[c.ID] = c
	return c, nil
}

func (v casesRepo) ListActive(ctx context.Context) ([]models.Case, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Case
	for _, c := range s.st.cases {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ---- Inventory ----

func (v invRepo) ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.InventoryItem
	for _, it := range s.st.inventory {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcquiredAt.After(out[j].AcquiredAt) })
	return out, nil
}

// ---- Listings ----

func (v listingRepo) ListOpen(ctx context.Context, limit, offset int) ([]models.Listing, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Listing
	for _, l := range s.st.listings {
		if !l.IsSold {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (v listingRepo) Exists(ctx context.Context, id string) (bool, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.st.listings[id]
	return ok, nil
}

// ---- Messages ----

func (v msgRepo) Create(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.listings[m.ListingID]; !ok {
		return models.ChatMessage{}, fmt.Errorf("%w: listing %s", models.ErrNotFound, m.ListingID)
	}
	sender, ok := s.st.users[m.SenderID]
	if !ok {
		return models.ChatMessage{}, fmt.Errorf("%w: user %s", models.ErrNotFound, m.SenderID)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.SenderUsername = sender.Username
	m.CreatedAt = s.now()
	s.st.messages = append(s.st.messages, m)
	return m, nil
}

func (v msgRepo) ListByListing(ctx context.Context, listingID string) ([]models.ChatMessage, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range s.st.messages {
		if m.ListingID == listingID {
			out = append(out, m)
		}
	}
	return out, nil
}
