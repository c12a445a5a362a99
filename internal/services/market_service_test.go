package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
)

func TestCreateListing_MovesItemToMarket(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	seller := f.user(t, 0)
	itemID := f.item(t, seller, "Phoenix Feather", models.RarityEpic)

	listingID, err := f.market.CreateListing(ctx, seller, itemID, 250, "barely used")
	require.NoError(t, err)

	_, stillOwned := f.store.InventoryItem(itemID)
	assert.False(t, stillOwned)

	l, ok := f.store.Listing(listingID)
	require.True(t, ok)
	assert.Equal(t, seller, l.SellerID)
	assert.NotEmpty(t, l.SellerUsername)
	assert.Equal(t, "Phoenix Feather", l.ItemName)
	assert.Equal(t, models.RarityEpic, l.Rarity)
	assert.Equal(t, int64(250), l.Price)
	assert.Equal(t, "barely used", l.Description)
	assert.False(t, l.IsSold)
}

func TestCreateListing_Rejections(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	owner := f.user(t, 0)
	other := f.user(t, 0)
	itemID := f.item(t, owner, "Iron Sword", models.RarityCommon)

	tests := []struct {
		name   string
		userID string
		itemID string
		price  int64
		want   error
	}{
		{"zero price", owner, itemID, 0, models.ErrInvalidArgument},
		{"negative price", owner, itemID, -5, models.ErrInvalidArgument},
		{"missing item", owner, "no-such-item", 10, models.ErrNotFound},
		{"someone else's item", other, itemID, 10, models.ErrNotFound},
		{"no user", "", itemID, 10, models.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.market.CreateListing(ctx, tt.userID, tt.itemID, tt.price, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	item, ok := f.store.InventoryItem(itemID)
	require.True(t, ok)
	assert.Equal(t, owner, item.UserID)
}

func TestPurchase_ListThenBuy(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	seller := f.user(t, 10)
	buyer := f.user(t, 300)
	itemID := f.item(t, seller, "Dragon Scale", models.RarityLegendary)

	listingID, err := f.market.CreateListing(ctx, seller, itemID, 120, "")
	require.NoError(t, err)

	res, err := f.market.PurchaseListing(ctx, buyer, listingID)
	require.NoError(t, err)
	assert.Equal(t, int64(180), res.NewBalance)
	assert.Equal(t, int64(180), f.balance(t, buyer))
	assert.Equal(t, int64(130), f.balance(t, seller))

	_, ok := f.store.InventoryItem(itemID)
	assert.False(t, ok, "original inventory row must be gone")

	inv, err := f.users.Inventory(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "Dragon Scale", inv[0].ItemName)
	assert.Equal(t, models.RarityLegendary, inv[0].Rarity)

	l, _ := f.store.Listing(listingID)
	assert.True(t, l.IsSold)
	require.NotNil(t, l.BuyerID)
	assert.Equal(t, buyer, *l.BuyerID)

	_, err = f.market.PurchaseListing(ctx, f.user(t, 1000), listingID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, err, models.ErrAlreadySold)

	recs := f.store.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, models.TxnMarketPurchase, recs[0].Type)
	assert.Equal(t, int64(-120), recs[0].Amount)
	assert.Equal(t, models.TxnMarketSale, recs[1].Type)
	assert.Equal(t, int64(120), recs[1].Amount)
}

func TestPurchase_OwnListingIsInvalidRegardlessOfBalance(t *testing.T) {
	for _, balance := range []int64{0, 50, 1_000_000} {
		f := newFixture(t, fixedSource{})
		seller := f.user(t, balance)
		listingID, err := f.market.CreateListing(context.Background(), seller, f.item(t, seller, "Gem", models.RarityRare), 50, "")
		require.NoError(t, err)

		_, err = f.market.PurchaseListing(context.Background(), seller, listingID)
		assert.ErrorIs(t, err, models.ErrInvalidOperation, "balance %d", balance)
		assert.Equal(t, balance, f.balance(t, seller))

		l, _ := f.store.Listing(listingID)
		assert.False(t, l.IsSold)
	}
}

func TestPurchase_InsufficientFundsChangesNothing(t *testing.T) {
	f := newFixture(t, fixedSource{})
	seller := f.user(t, 0)
	buyer := f.user(t, 49)
	listingID, err := f.market.CreateListing(context.Background(), seller, f.item(t, seller, "Gem", models.RarityRare), 50, "")
	require.NoError(t, err)

	_, err = f.market.PurchaseListing(context.Background(), buyer, listingID)
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.Equal(t, int64(49), f.balance(t, buyer))
	assert.Equal(t, int64(0), f.balance(t, seller))
	assert.Zero(t, f.store.InventoryCount(buyer))

	l, _ := f.store.Listing(listingID)
	assert.False(t, l.IsSold)
}

func TestPurchase_MissingListing(t *testing.T) {
	f := newFixture(t, fixedSource{})
	_, err := f.market.PurchaseListing(context.Background(), f.user(t, 10), "no-such-listing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPurchase_ConcurrentBuyersExactlyOneWins(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	seller := f.user(t, 0)
	listingID, err := f.market.CreateListing(ctx, seller, f.item(t, seller, "Rune", models.RarityEpic), 75, "")
	require.NoError(t, err)

	const buyers = 16
	ids := make([]string, buyers)
	for i := range ids {
		ids[i] = f.user(t, 100)
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.market.PurchaseListing(ctx, id, listingID)
		}(i, id)
	}
	wg.Wait()

	wins := 0
	var total int64
	for i, err := range errs {
		if err == nil {
			wins++
			assert.Equal(t, int64(25), f.balance(t, ids[i]))
			assert.Equal(t, 1, f.store.InventoryCount(ids[i]))
		} else {
			assert.True(t, errors.Is(err, models.ErrNotFound), "unexpected error: %v", err)
			assert.Equal(t, int64(100), f.balance(t, ids[i]))
		}
		total += f.balance(t, ids[i])
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(75), f.balance(t, seller))
	total += f.balance(t, seller)
	assert.Equal(t, int64(buyers*100), total, "money must be conserved")
}

func TestPurchase_RepeatNeverDoubleTransfers(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	seller := f.user(t, 0)
	buyer := f.user(t, 500)
	listingID, err := f.market.CreateListing(ctx, seller, f.item(t, seller, "Orb", models.RarityRare), 100, "")
	require.NoError(t, err)

	_, err = f.market.PurchaseListing(ctx, buyer, listingID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.market.PurchaseListing(ctx, buyer, listingID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
	assert.Equal(t, int64(400), f.balance(t, buyer))
	assert.Equal(t, int64(100), f.balance(t, seller))
	assert.Equal(t, 1, f.store.InventoryCount(buyer))
}

func TestListOpen_HidesSold(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	seller := f.user(t, 0)
	buyer := f.user(t, 100)
	sold, err := f.market.CreateListing(ctx, seller, f.item(t, seller, "A", models.RarityCommon), 10, "")
	require.NoError(t, err)
	open, err := f.market.CreateListing(ctx, seller, f.item(t, seller, "B", models.RarityCommon), 10, "")
	require.NoError(t, err)
	_, err = f.market.PurchaseListing(ctx, buyer, sold)
	require.NoError(t, err)

	listings, err := f.market.ListOpen(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, open, listings[0].ID)
}

// adjustSpy records the user of every AdjustBalance call made through it.
type adjustSpy struct {
	repo.LedgerStore
	mu    sync.Mutex
	calls []string
}

func (s *adjustSpy) WithTx(ctx context.Context, fn func(repo.Ledger) error) error {
	return s.LedgerStore.WithTx(ctx, func(l repo.Ledger) error {
		return fn(&adjustSpyLedger{Ledger: l, spy: s})
	})
}

type adjustSpyLedger struct {
	repo.Ledger
	spy *adjustSpy
}

func (l *adjustSpyLedger) AdjustBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	l.spy.mu.Lock()
	l.spy.calls = append(l.spy.calls, userID)
	l.spy.mu.Unlock()
	return l.Ledger.AdjustBalance(ctx, userID, delta)
}

func TestPurchase_CrossingTradesAdjustBalancesInIDOrder(t *testing.T) {
	f := newFixture(t, fixedSource{})
	ctx := context.Background()
	low, err := f.store.Users().Create(ctx, models.User{ID: "00000000-aaaa", Username: "low", Email: "low@example.com", Balance: 500})
	require.NoError(t, err)
	high, err := f.store.Users().Create(ctx, models.User{ID: "ffffffff-zzzz", Username: "high", Email: "high@example.com", Balance: 500})
	require.NoError(t, err)

	lowListing, err := f.market.CreateListing(ctx, low.ID, f.item(t, low.ID, "Ember", models.RarityRare), 100, "")
	require.NoError(t, err)
	highListing, err := f.market.CreateListing(ctx, high.ID, f.item(t, high.ID, "Frost", models.RarityRare), 150, "")
	require.NoError(t, err)

	spy := &adjustSpy{LedgerStore: f.store}
	market := NewMarketService(spy, f.store.Listings(), NewRecorder(f.store.Transactions(), nil))

	res, err := market.PurchaseListing(ctx, high.ID, lowListing)
	require.NoError(t, err)
	assert.Equal(t, int64(400), res.NewBalance, "buyer balance is reported even when debited second")
	assert.Equal(t, []string{low.ID, high.ID}, spy.calls)

	spy.calls = nil
	res, err = market.PurchaseListing(ctx, low.ID, highListing)
	require.NoError(t, err)
	assert.Equal(t, int64(450), res.NewBalance)
	assert.Equal(t, []string{low.ID, high.ID}, spy.calls)

	assert.Equal(t, int64(450), f.balance(t, low.ID))
	assert.Equal(t, int64(550), f.balance(t, high.ID))
}

func TestTransferLegs(t *testing.T) {
	legs := transferLegs("b", "a", 30)
	assert.Equal(t, [2]balanceLeg{{"a", 30}, {"b", -30}}, legs)

	legs = transferLegs("a", "b", 30)
	assert.Equal(t, [2]balanceLeg{{"a", -30}, {"b", 30}}, legs)
}
