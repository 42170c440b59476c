package models

import (
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/order"
)

type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"userId"`

	// Referência ao cliente é apenas informativa, sem FK.
	ClientID uint `gorm:"not null;index" json:"clientId"`

	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Address     string       `gorm:"type:text;not null" json:"address"`
	Status      order.Status `gorm:"size:20;not null;default:'pending';check:status IN ('pending','in_progress','completed','cancelled')" json:"status"`

	ScheduledDate *time.Time `json:"scheduledDate"`
	ScheduledTime string     `gorm:"size:5" json:"scheduledTime"`
	CompletedAt   *time.Time `json:"completedAt"`

	// Valor em centavos.
	Value *int64 `json:"value"`
	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
