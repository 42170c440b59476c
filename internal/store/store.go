package store

import (
	"context"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

type Options struct {
	// OwnerOpenID is promoted to admin by UpsertByOpenID.
	OwnerOpenID string
	Now         func() time.Time
}

// Store is the only component that talks to the database.
type Store struct {
	db     *gorm.DB
	closed atomic.Bool
	now    func() time.Time

	Users      *UserStore
	Clients    *ClientStore
	Orders     *OrderStore
	OrderItems *OrderItemStore
	Schedules  *ScheduleStore
	AuditLogs  *AuditStore
}

// New wraps an already opened handle. A nil handle yields a store whose
// reads degrade and whose writes fail with ErrUnavailable.
func New(db *gorm.DB, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{db: db, now: now}
	if db == nil {
		s.closed.Store(true)
	}

	s.Users = &UserStore{store: s, ownerOpenID: opts.OwnerOpenID}
	s.Clients = newClientStore(s)
	s.Orders = newOrderStore(s)
	s.OrderItems = newOrderItemStore(s)
	s.Schedules = newScheduleStore(s)
	s.AuditLogs = newAuditStore(s)

	return s
}

// Close releases the pool. Later reads degrade and writes fail.
func (s *Store) Close() error {
	if s.closed.Swap(true) || s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping reports whether the backend answers.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return classify(err)
	}
	return classify(sqlDB.PingContext(ctx))
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s.closed.Load() {
		return nil, ErrUnavailable
	}
	return s.db.WithContext(ctx), nil
}
