package store

import (
	"context"

	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// ClientStore lists only active clients. Delete deactivates.
type ClientStore struct {
	t table[models.Client]
}

func newClientStore(s *Store) *ClientStore {
	return &ClientStore{t: table[models.Client]{
		store:      s,
		scoped:     ownedRows,
		protected:  ownedProtected,
		listWhere:  map[string]any{"is_active": true},
		softDelete: map[string]any{"is_active": false},
		id:         func(c *models.Client) uint { return c.ID },
		bind:       func(c *models.Client, sc Scope) { c.UserID = sc.OwnerID },
	}}
}

func (s *ClientStore) List(ctx context.Context, sc Scope) (Result[[]models.Client], error) {
	return s.t.list(ctx, sc, nil, "")
}

func (s *ClientStore) Get(ctx context.Context, id uint, sc Scope) (Result[*models.Client], error) {
	return s.t.get(ctx, id, sc)
}

func (s *ClientStore) Create(ctx context.Context, sc Scope, c *models.Client) (uint, error) {
	c.IsActive = true
	return s.t.create(ctx, sc, c)
}

func (s *ClientStore) Update(ctx context.Context, id uint, sc Scope, patch Patch) (int64, error) {
	return s.t.update(ctx, id, sc, patch)
}

func (s *ClientStore) Delete(ctx context.Context, id uint, sc Scope) (int64, error) {
	return s.t.delete(ctx, id, sc)
}
