package models

import (
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/user"
)

// User is created by the external auth provider on first sign-in.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OpenID      string    `gorm:"size:64;uniqueIndex;not null" json:"openId"`
	Name        string    `gorm:"type:text" json:"name"`
	Email       string    `gorm:"size:320" json:"email"`
	LoginMethod string    `gorm:"size:64" json:"loginMethod"`
	Role        user.Role `gorm:"size:20;not null;default:'user';check:role IN ('user','admin')" json:"role"`

	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `gorm:"not null" json:"lastSignedIn"`
}
