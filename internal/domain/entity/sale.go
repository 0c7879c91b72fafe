package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale represents a promotional buyback rule. While active, it adjusts the
// payout for matching products; AllowedItemCount caps how many units across
// one whole transaction may be attributed to it (-1 means unlimited).
type Sale struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	DisplayName        string         `gorm:"size:255;not null" json:"display_name"`
	DiscountExpression string         `gorm:"size:100;not null" json:"discount_expression"`
	AllowedItemCount   int            `gorm:"default:-1" json:"allowed_item_count"`
	Priority           int            `gorm:"default:0;index" json:"priority"`
	StartsAt           *time.Time     `json:"starts_at,omitempty"`
	EndsAt             *time.Time     `json:"ends_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"many2many:sale_products" json:"products,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// IsActiveAt reports whether the sale window covers the given instant
func (s *Sale) IsActiveAt(t time.Time) bool {
	if s.StartsAt != nil && t.Before(*s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && t.After(*s.EndsAt) {
		return false
	}
	return true
}

// Attribution freezes the sale's terms into a cart attribution record
func (s *Sale) Attribution() *SaleAttribution {
	return &SaleAttribution{
		SaleID:             s.ID,
		DisplayName:        s.DisplayName,
		DiscountExpression: s.DiscountExpression,
		AllowedItemCount:   s.AllowedItemCount,
	}
}
