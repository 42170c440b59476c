package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// OrderItemStore scopes checklist items through the owner of their order.
type OrderItemStore struct {
	t      table[models.OrderItem]
	orders *OrderStore
}

func newOrderItemStore(s *Store) *OrderItemStore {
	return &OrderItemStore{
		orders: s.Orders,
		t: table[models.OrderItem]{
			store:     s,
			scoped:    itemsOfOwnedOrders,
			protected: []string{"id", "order_id", "created_at"},
			listOrder: "sort_order ASC, id ASC",
			id:        func(i *models.OrderItem) uint { return i.ID },
		},
	}
}

func itemsOfOwnedOrders(q *gorm.DB, sc Scope) *gorm.DB {
	owned := q.Session(&gorm.Session{NewDB: true}).
		Model(&models.Order{}).
		Select("id").
		Where("user_id = ?", sc.OwnerID)
	return q.Where("order_id IN (?)", owned)
}

func (s *OrderItemStore) ListByOrder(ctx context.Context, orderID uint, sc Scope) (Result[[]models.OrderItem], error) {
	return s.t.list(ctx, sc, func(q *gorm.DB) *gorm.DB {
		return q.Where("order_id = ?", orderID)
	}, "")
}

// Create fails with ErrParentNotFound when the order is not in scope.
func (s *OrderItemStore) Create(ctx context.Context, sc Scope, item *models.OrderItem) (uint, error) {
	if !sc.Valid() {
		return 0, ErrMissingScope
	}

	ok, err := s.orders.owned(ctx, item.OrderID, sc)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrParentNotFound
	}

	item.IsCompleted = false
	return s.t.create(ctx, sc, item)
}

func (s *OrderItemStore) Update(ctx context.Context, id uint, sc Scope, patch Patch) (int64, error) {
	return s.t.update(ctx, id, sc, patch)
}

func (s *OrderItemStore) Delete(ctx context.Context, id uint, sc Scope) (int64, error) {
	return s.t.delete(ctx, id, sc)
}
