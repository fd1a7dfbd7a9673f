package store

import (
	"context"
	"testing"

	"auraverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartOf(t *testing.T, s *Store, ids ...string) ([]models.Product, int64) {
	t.Helper()

	var items []models.Product
	var total int64
	for _, id := range ids {
		p, err := s.GetProductByID(context.Background(), id)
		require.NoError(t, err)
		items = append(items, *p)
		total += p.Price
	}
	return items, total
}

func TestCheckoutDebitsTokensAndDecrementsStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 1000)
	items, total := cartOf(t, s, "p1", "p2")
	require.Equal(t, int64(450), total)

	order, err := s.Checkout(ctx, buyer.ID, items, total, false)
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, int64(450), order.Total)
	require.Len(t, order.Items, 2)

	user, err := s.GetUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(550), user.Tokens)
	require.Len(t, user.Orders, 1)
	assert.Equal(t, order.ID, user.Orders[0].ID)

	p1, err := s.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(49), p1.Stock)

	p2, err := s.GetProductByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(24), p2.Stock)
}

func TestCheckoutSnapshotSurvivesCatalogChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 1000)
	items, total := cartOf(t, s, "p1")

	order, err := s.Checkout(ctx, buyer.ID, items, total, false)
	require.NoError(t, err)

	// Reprice the live product; the order snapshot must not move.
	_, err = s.db.ExecContext(ctx, s.rebind("UPDATE products SET price = ?, name = ? WHERE id = ?"),
		int64(999), "Renamed Jacket", "p1")
	require.NoError(t, err)

	orders, err := s.GetOrdersByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, "Neon Jacket", orders[0].Items[0].Name)
	assert.Equal(t, int64(150), orders[0].Items[0].Price)
}

func TestCheckoutInsufficientTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 100)
	items, total := cartOf(t, s, "p2")

	var fundsErr *InsufficientFundsError
	_, err := s.Checkout(ctx, buyer.ID, items, total, false)
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, models.CurrencyToken, fundsErr.Currency)
	assert.Equal(t, int64(100), fundsErr.Available)

	// Nothing committed: balance and stock unchanged.
	user, err := s.GetUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Tokens)
	assert.Empty(t, user.Orders)

	p2, err := s.GetProductByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(25), p2.Stock)
}

func TestCheckoutDebitGuardStopsAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 150)
	items, total := cartOf(t, s, "p1")

	// Exactly enough tokens drains to zero; the next purchase fails on
	// the guarded debit rather than overdrawing.
	_, err := s.Checkout(ctx, buyer.ID, items, total, false)
	require.NoError(t, err)

	var fundsErr *InsufficientFundsError
	_, err = s.Checkout(ctx, buyer.ID, items, total, false)
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, int64(0), fundsErr.Available)

	user, err := s.GetUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.Tokens)
	assert.Len(t, user.Orders, 1)
}

func TestCheckoutExhaustedStockFailsWholeOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 50000)
	items, total := cartOf(t, s, "p1", "p99")

	// Sell out the prototype first.
	_, err := s.db.ExecContext(ctx, s.rebind("UPDATE products SET stock = 0 WHERE id = ?"), "p99")
	require.NoError(t, err)

	var stockErr *InsufficientStockError
	_, err = s.Checkout(ctx, buyer.ID, items, total, false)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p99", stockErr.ProductID)

	// The p1 decrement from the same transaction rolled back too.
	p1, err := s.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), p1.Stock)

	user, err := s.GetUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), user.Tokens)
}

func TestCheckoutOversellPolicyRecordsSaleAtZeroStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 50000)
	items, total := cartOf(t, s, "p99")

	_, err := s.db.ExecContext(ctx, s.rebind("UPDATE products SET stock = 0 WHERE id = ?"), "p99")
	require.NoError(t, err)

	order, err := s.Checkout(ctx, buyer.ID, items, total, true)
	require.NoError(t, err)
	assert.Equal(t, int64(9999), order.Total)

	// Stock stays clamped at zero, never negative.
	p99, err := s.GetProductByID(ctx, "p99")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p99.Stock)
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 1000)
	items, _ := cartOf(t, s, "p1")

	_, err := s.Checkout(ctx, buyer.ID, items, -1, false)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.Checkout(ctx, buyer.ID, nil, 100, false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Checkout(ctx, "usr-missing", items, 150, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetOrdersByUserIDNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 10000)

	first, _ := cartOf(t, s, "p1")
	second, _ := cartOf(t, s, "p2")

	o1, err := s.Checkout(ctx, buyer.ID, first, 150, false)
	require.NoError(t, err)
	o2, err := s.Checkout(ctx, buyer.ID, second, 300, false)
	require.NoError(t, err)

	orders, err := s.GetOrdersByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, o2.ID, orders[0].ID)
	assert.Equal(t, o1.ID, orders[1].ID)
}

func TestGetOrdersCorruptSnapshotFailsRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	buyer := createTestUser(t, s, "nova", 0, 1000)
	items, total := cartOf(t, s, "p1")

	order, err := s.Checkout(ctx, buyer.ID, items, total, false)
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, s.rebind("UPDATE orders SET items_json = ? WHERE id = ?"),
		"{not json", order.ID)
	require.NoError(t, err)

	_, err = s.GetOrdersByUserID(ctx, buyer.ID)
	assert.Error(t, err)
}

func TestListRecentOrdersJoinsBuyer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice", 0, 10000)
	bob := createTestUser(t, s, "bob", 0, 10000)
	require.NoError(t, s.UpdateAvatar(ctx, bob.ID, "https://cdn.test/bob.png"))

	items, total := cartOf(t, s, "p1")
	_, err := s.Checkout(ctx, alice.ID, items, total, false)
	require.NoError(t, err)

	items, total = cartOf(t, s, "p2")
	bobOrder, err := s.Checkout(ctx, bob.ID, items, total, false)
	require.NoError(t, err)

	feed, err := s.ListRecentOrders(ctx, 20)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, bobOrder.ID, feed[0].OrderID)
	assert.Equal(t, "bob", feed[0].Username)
	assert.Equal(t, "https://cdn.test/bob.png", feed[0].AvatarURL)
	assert.Equal(t, "alice", feed[1].Username)

	limited, err := s.ListRecentOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "bob", limited[0].Username)
}
