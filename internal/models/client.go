package models

import "time"

// Cliente do prestador. Nunca é apagado fisicamente, apenas desativado.
type Client struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"userId"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:320" json:"email"`
	Address  string `gorm:"type:text" json:"address"`
	TaxID    string `gorm:"size:20" json:"cpfCnpj"`
	Notes    string `gorm:"type:text" json:"notes"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
