package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/schedule"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// ScheduleStore does no overlap checking between entries.
type ScheduleStore struct {
	t table[models.Schedule]
}

func newScheduleStore(s *Store) *ScheduleStore {
	return &ScheduleStore{t: table[models.Schedule]{
		store:     s,
		scoped:    ownedRows,
		protected: ownedProtected,
		listOrder: "start_date DESC, id DESC",
		id:        func(e *models.Schedule) uint { return e.ID },
		bind:      func(e *models.Schedule, sc Scope) { e.UserID = sc.OwnerID },
	}}
}

func (s *ScheduleStore) List(ctx context.Context, sc Scope) (Result[[]models.Schedule], error) {
	return s.t.list(ctx, sc, nil, "")
}

// ListRange returns entries starting in [from, to), earliest first.
func (s *ScheduleStore) ListRange(ctx context.Context, sc Scope, from, to time.Time) (Result[[]models.Schedule], error) {
	return s.t.list(ctx, sc, func(q *gorm.DB) *gorm.DB {
		return q.Where("start_date >= ? AND start_date < ?", from, to)
	}, "start_date ASC, id ASC")
}

func (s *ScheduleStore) Get(ctx context.Context, id uint, sc Scope) (Result[*models.Schedule], error) {
	return s.t.get(ctx, id, sc)
}

func (s *ScheduleStore) Create(ctx context.Context, sc Scope, e *models.Schedule) (uint, error) {
	if e.Type == "" {
		e.Type = schedule.KindService
	}
	if e.ReminderMinutes == nil {
		minutes := schedule.DefaultReminderMinutes
		e.ReminderMinutes = &minutes
	}
	return s.t.create(ctx, sc, e)
}

func (s *ScheduleStore) Update(ctx context.Context, id uint, sc Scope, patch Patch) (int64, error) {
	return s.t.update(ctx, id, sc, patch)
}

func (s *ScheduleStore) Delete(ctx context.Context, id uint, sc Scope) (int64, error) {
	return s.t.delete(ctx, id, sc)
}
