package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/user"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// UserUpsert carries the sign-in payload. Nil fields are left untouched
// on an existing row.
type UserUpsert struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	Role         *user.Role
	LastSignedIn *time.Time
}

// UserStore is keyed by the identity provider id. Users are not owner scoped.
type UserStore struct {
	store       *Store
	ownerOpenID string
}

// UpsertByOpenID inserts the user or updates the supplied fields of the
// existing row. last_signed_in is refreshed on every call.
func (u *UserStore) UpsertByOpenID(ctx context.Context, in UserUpsert) error {
	if in.OpenID == "" {
		return ErrOpenIDRequired
	}

	db, err := u.store.conn(ctx)
	if err != nil {
		return err
	}

	now := u.store.now()
	signedIn := now
	if in.LastSignedIn != nil {
		signedIn = *in.LastSignedIn
	}

	row := models.User{
		OpenID:       in.OpenID,
		Role:         user.RoleUser,
		LastSignedIn: signedIn,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	set := map[string]any{
		"last_signed_in": signedIn,
		"updated_at":     now,
	}
	if in.Name != nil {
		row.Name = *in.Name
		set["name"] = *in.Name
	}
	if in.Email != nil {
		row.Email = *in.Email
		set["email"] = *in.Email
	}
	if in.LoginMethod != nil {
		row.LoginMethod = *in.LoginMethod
		set["login_method"] = *in.LoginMethod
	}
	if role, ok := user.ResolveRole(in.Role, in.OpenID, u.ownerOpenID); ok {
		row.Role = role
		set["role"] = role
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_id"}},
		DoUpdates: clause.Assignments(set),
	}).Create(&row).Error
	return classify(err)
}

func (u *UserStore) GetByOpenID(ctx context.Context, openID string) (Result[*models.User], error) {
	return u.first(ctx, "open_id = ?", openID)
}

func (u *UserStore) GetByID(ctx context.Context, id uint) (Result[*models.User], error) {
	return u.first(ctx, "id = ?", id)
}

// Delete removes the account together with every row it owns, in one
// transaction. Audit rows are kept. Returns the users rows affected.
func (u *UserStore) Delete(ctx context.Context, id uint) (int64, error) {
	db, err := u.store.conn(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	err = db.Transaction(func(tx *gorm.DB) error {
		owned := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Order{}).
			Select("id").
			Where("user_id = ?", id)
		if err := tx.Where("order_id IN (?)", owned).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		for _, row := range []any{&models.Order{}, &models.Schedule{}, &models.Client{}} {
			if err := tx.Where("user_id = ?", id).Delete(row).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&models.User{})
		n = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (u *UserStore) first(ctx context.Context, query string, arg any) (Result[*models.User], error) {
	db, err := u.store.conn(ctx)
	if err != nil {
		return Degrade[*models.User](nil, err), nil
	}

	var rows []models.User
	if err := db.Where(query, arg).Limit(1).Find(&rows).Error; err != nil {
		return readFailure[*models.User](nil, err)
	}
	if len(rows) == 0 {
		return OK[*models.User](nil), nil
	}
	return OK(&rows[0]), nil
}
