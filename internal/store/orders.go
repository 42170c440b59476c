package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/order"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// OrderStore lists newest first. Delete cancels the order.
type OrderStore struct {
	t table[models.Order]
}

func newOrderStore(s *Store) *OrderStore {
	return &OrderStore{t: table[models.Order]{
		store:      s,
		scoped:     ownedRows,
		protected:  ownedProtected,
		listOrder:  "created_at DESC, id DESC",
		softDelete: map[string]any{"status": order.StatusCancelled},
		id:         func(o *models.Order) uint { return o.ID },
		bind:       func(o *models.Order, sc Scope) { o.UserID = sc.OwnerID },
	}}
}

func (s *OrderStore) List(ctx context.Context, sc Scope) (Result[[]models.Order], error) {
	return s.t.list(ctx, sc, nil, "")
}

func (s *OrderStore) ListByStatus(ctx context.Context, sc Scope, status order.Status) (Result[[]models.Order], error) {
	return s.t.list(ctx, sc, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status)
	}, "")
}

func (s *OrderStore) Get(ctx context.Context, id uint, sc Scope) (Result[*models.Order], error) {
	return s.t.get(ctx, id, sc)
}

func (s *OrderStore) Create(ctx context.Context, sc Scope, o *models.Order) (uint, error) {
	if o.Status == "" {
		o.Status = order.InitialStatus()
	}
	return s.t.create(ctx, sc, o)
}

func (s *OrderStore) Update(ctx context.Context, id uint, sc Scope, patch Patch) (int64, error) {
	return s.t.update(ctx, id, sc, patch)
}

func (s *OrderStore) Delete(ctx context.Context, id uint, sc Scope) (int64, error) {
	return s.t.delete(ctx, id, sc)
}

// owned reports whether orderID belongs to the scope.
func (s *OrderStore) owned(ctx context.Context, orderID uint, sc Scope) (bool, error) {
	db, err := s.t.store.conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := ownedRows(db.Model(&models.Order{}).Where("id = ?", orderID), sc).
		Count(&count).Error; err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}
