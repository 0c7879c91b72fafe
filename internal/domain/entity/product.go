package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product the store buys back from customers.
// Prices are integers in yen.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	Condition     string         `gorm:"size:100" json:"condition,omitempty"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	BuyingPrice   int64          `gorm:"default:0" json:"buying_price"`
	ProductImage  *string        `gorm:"size:255" json:"product_image,omitempty"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sales []Sale `gorm:"many2many:sale_products" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ImageURL returns the product image path, or empty when none is set
func (p *Product) ImageURL() string {
	if p.ProductImage == nil {
		return ""
	}
	return *p.ProductImage
}
