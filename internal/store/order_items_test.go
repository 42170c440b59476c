package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

func TestOrderItemStore_ListSortedByOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	sc := signIn(t, s, "provider-1")

	orderID, err := s.Orders.Create(ctx, sc, &models.Order{ClientID: 1, Title: "Limpeza", Address: "Rua X"})
	require.NoError(t, err)

	_, err = s.OrderItems.Create(ctx, sc, &models.OrderItem{OrderID: orderID, Title: "Janelas", SortOrder: 2})
	require.NoError(t, err)
	_, err = s.OrderItems.Create(ctx, sc, &models.OrderItem{OrderID: orderID, Title: "Cozinha", SortOrder: 1, IsCompleted: true})
	require.NoError(t, err)

	list, err := s.OrderItems.ListByOrder(ctx, orderID, sc)
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Cozinha", list.Data[0].Title)
	assert.Equal(t, "Janelas", list.Data[1].Title)
	assert.False(t, list.Data[0].IsCompleted)
}

func TestOrderItemStore_ScopedThroughOrderOwner(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	alice := signIn(t, s, "alice")
	bob := signIn(t, s, "bob")

	orderID, err := s.Orders.Create(ctx, alice, &models.Order{ClientID: 1, Title: "Limpeza", Address: "Rua X"})
	require.NoError(t, err)
	itemID, err := s.OrderItems.Create(ctx, alice, &models.OrderItem{OrderID: orderID, Title: "Cozinha"})
	require.NoError(t, err)

	_, err = s.OrderItems.Create(ctx, bob, &models.OrderItem{OrderID: orderID, Title: "Intruso"})
	assert.ErrorIs(t, err, store.ErrParentNotFound)

	list, err := s.OrderItems.ListByOrder(ctx, orderID, bob)
	require.NoError(t, err)
	assert.Empty(t, list.Data)

	n, err := s.OrderItems.Update(ctx, itemID, bob, store.Patch{"is_completed": true})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.OrderItems.Delete(ctx, itemID, bob)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.OrderItems.Update(ctx, itemID, alice, store.Patch{"is_completed": true, "order_id": 42})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err = s.OrderItems.ListByOrder(ctx, orderID, alice)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].IsCompleted)
	assert.Equal(t, orderID, list.Data[0].OrderID)

	n, err = s.OrderItems.Delete(ctx, itemID, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err = s.OrderItems.ListByOrder(ctx, orderID, alice)
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}
