package models

import (
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/schedule"
)

// Schedule is a calendar entry. Overlapping entries are allowed.
type Schedule struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	UserID  uint  `gorm:"not null;index" json:"userId"`
	OrderID *uint `gorm:"index" json:"orderId"`

	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	StartDate   time.Time     `gorm:"not null;index" json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	Location    string        `gorm:"type:text" json:"location"`
	Type        schedule.Kind `gorm:"column:type;size:20;not null;default:'service';check:type IN ('service','meeting','break','other')" json:"type"`

	ReminderMinutes *int `gorm:"default:15" json:"reminderMinutes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
