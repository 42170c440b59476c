package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ownedProtected = []string{"id", "user_id", "created_at"}

func ownedRows(q *gorm.DB, sc Scope) *gorm.DB {
	return q.Where("user_id = ?", sc.OwnerID)
}

// table implements the scoped CRUD shared by every entity. The scope
// predicate is applied by every method so no call can skip it.
type table[T any] struct {
	store *Store

	scoped    func(q *gorm.DB, sc Scope) *gorm.DB
	protected []string

	listWhere map[string]any
	listOrder string

	// nil means rows are physically deleted.
	softDelete map[string]any

	id   func(*T) uint
	bind func(*T, Scope)
}

// list applies filter (may be nil) and order (defaults to listOrder).
func (t *table[T]) list(ctx context.Context, sc Scope, filter func(*gorm.DB) *gorm.DB, order string) (Result[[]T], error) {
	if !sc.Valid() {
		return Result[[]T]{}, ErrMissingScope
	}

	db, err := t.store.conn(ctx)
	if err != nil {
		return Degrade([]T{}, err), nil
	}

	q := t.scoped(db.Model(new(T)), sc)
	if t.listWhere != nil {
		q = q.Where(t.listWhere)
	}
	if filter != nil {
		q = filter(q)
	}
	if order == "" {
		order = t.listOrder
	}
	if order != "" {
		q = q.Order(order)
	}

	rows := []T{}
	if err := q.Find(&rows).Error; err != nil {
		return readFailure([]T{}, err)
	}
	return OK(rows), nil
}

func (t *table[T]) get(ctx context.Context, id uint, sc Scope) (Result[*T], error) {
	if !sc.Valid() {
		return Result[*T]{}, ErrMissingScope
	}

	db, err := t.store.conn(ctx)
	if err != nil {
		return Degrade[*T](nil, err), nil
	}

	var rows []T
	q := t.scoped(db.Model(new(T)).Where("id = ?", id), sc)
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return readFailure[*T](nil, err)
	}
	if len(rows) == 0 {
		return OK[*T](nil), nil
	}
	return OK(&rows[0]), nil
}

func (t *table[T]) create(ctx context.Context, sc Scope, row *T) (uint, error) {
	if !sc.Valid() {
		return 0, ErrMissingScope
	}

	db, err := t.store.conn(ctx)
	if err != nil {
		return 0, err
	}

	if t.bind != nil {
		t.bind(row, sc)
	}
	if err := db.Create(row).Error; err != nil {
		return 0, classify(err)
	}
	return t.id(row), nil
}

func (t *table[T]) update(ctx context.Context, id uint, sc Scope, patch Patch) (int64, error) {
	if !sc.Valid() {
		return 0, ErrMissingScope
	}

	patch = patch.without(t.protected...)
	if len(patch) == 0 {
		return 0, nil
	}

	db, err := t.store.conn(ctx)
	if err != nil {
		return 0, err
	}

	res := t.scoped(db.Model(new(T)).Where("id = ?", id), sc).Updates(map[string]any(patch))
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

func (t *table[T]) delete(ctx context.Context, id uint, sc Scope) (int64, error) {
	if t.softDelete != nil {
		return t.update(ctx, id, sc, Patch(t.softDelete))
	}

	if !sc.Valid() {
		return 0, ErrMissingScope
	}

	db, err := t.store.conn(ctx)
	if err != nil {
		return 0, err
	}

	res := t.scoped(db.Where("id = ?", id), sc).Delete(new(T))
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}

// readFailure degrades connectivity failures and surfaces everything else.
func readFailure[T any](empty T, err error) (Result[T], error) {
	if err = classify(err); errors.Is(err, ErrUnavailable) {
		return Degrade(empty, err), nil
	}
	return Result[T]{}, err
}
