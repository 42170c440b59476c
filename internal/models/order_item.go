package models

import "time"

// Item do checklist de uma ordem de serviço.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"orderId"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsCompleted bool   `gorm:"not null;default:false" json:"isCompleted"`
	SortOrder   int    `gorm:"not null;default:0" json:"order"`

	CreatedAt time.Time `json:"createdAt"`
}
