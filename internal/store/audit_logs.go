package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// AuditStore is append-only. Rows are read back per owner.
type AuditStore struct {
	t table[models.AuditLog]
}

func newAuditStore(s *Store) *AuditStore {
	return &AuditStore{t: table[models.AuditLog]{
		store:     s,
		scoped:    ownedRows,
		protected: ownedProtected,
		listOrder: "created_at DESC, id DESC",
		id:        func(l *models.AuditLog) uint { return l.ID },
		bind: func(l *models.AuditLog, sc Scope) {
			owner := sc.OwnerID
			l.UserID = &owner
		},
	}}
}

func (s *AuditStore) Append(ctx context.Context, sc Scope, entry *models.AuditLog) error {
	_, err := s.t.create(ctx, sc, entry)
	return err
}

// List returns at most limit entries, optionally filtered by entity.
func (s *AuditStore) List(ctx context.Context, sc Scope, entity string, limit int) (Result[[]models.AuditLog], error) {
	return s.t.list(ctx, sc, func(q *gorm.DB) *gorm.DB {
		if entity != "" {
			q = q.Where("entity = ?", entity)
		}
		return q.Limit(limit)
	}, "")
}
