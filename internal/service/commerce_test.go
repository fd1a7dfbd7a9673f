package service

import (
	"context"
	"testing"

	"auraverse/internal/broker"
	"auraverse/internal/models"
	"auraverse/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutThroughService(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cs := NewCommerceService(s, testMarketConfig(), broker.NoopPublisher{})
	ls := NewLedgerService(s, testMarketConfig(), broker.NoopPublisher{}, nil)

	buyer, err := ls.Register(ctx, &RegisterRequest{
		Username: "nova", Email: "nova@test.io", Password: "hunter22", Tokens: 1000,
	})
	require.NoError(t, err)

	p1, err := s.GetProductByID(ctx, "p1")
	require.NoError(t, err)

	order, err := cs.Checkout(ctx, buyer.ID, &CheckoutRequest{
		Items: []models.Product{*p1},
		Total: p1.Price,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150), order.Total)

	got, err := ls.GetUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(850), got.Tokens)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, order.ID, got.Orders[0].ID)
}

func TestCheckoutThroughServiceInsufficientFunds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cs := NewCommerceService(s, testMarketConfig(), broker.NoopPublisher{})
	ls := NewLedgerService(s, testMarketConfig(), broker.NoopPublisher{}, nil)

	buyer, err := ls.Register(ctx, &RegisterRequest{
		Username: "nova", Email: "nova@test.io", Password: "hunter22", Tokens: 10,
	})
	require.NoError(t, err)

	p1, err := s.GetProductByID(ctx, "p1")
	require.NoError(t, err)

	var fundsErr *store.InsufficientFundsError
	_, err = cs.Checkout(ctx, buyer.ID, &CheckoutRequest{
		Items: []models.Product{*p1},
		Total: p1.Price,
	})
	assert.ErrorAs(t, err, &fundsErr)
}
