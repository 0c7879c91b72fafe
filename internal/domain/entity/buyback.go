package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// Buyback is the persisted form of a register transaction. A Draft row holds
// a partially-completed transaction that can be hydrated back into a session;
// a Completed row is final. All amounts are integers in yen.
type Buyback struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	BuybackNo      string             `gorm:"size:100;unique;not null" json:"buyback_no"`
	Status         enum.BuybackStatus `gorm:"default:0" json:"status"`
	PaymentMethod  enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	SubtotalAmount int64              `gorm:"default:0" json:"subtotal_amount"`
	DiscountAmount int64              `gorm:"default:0" json:"discount_amount"`
	TotalAmount    int64              `gorm:"default:0" json:"total_amount"`
	TaxAmount      int64              `gorm:"default:0" json:"tax_amount"`
	ReceivedAmount int64              `gorm:"default:0" json:"received_amount"`
	ChangeAmount   int64              `gorm:"default:0" json:"change_amount"`

	// Whole-cart discount, absent when none was applied.
	GlobalDiscountMode  *enum.DiscountMode `json:"global_discount_mode,omitempty"`
	GlobalDiscountValue *float64           `json:"global_discount_value,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User            `gorm:"foreignKey:UserID" json:"-"`
	Details []BuybackDetail `gorm:"foreignKey:BuybackID" json:"details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new buyback
func (b *Buyback) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Buyback model
func (Buyback) TableName() string {
	return "buybacks"
}

// BuybackDetail is one flattened cart variant of a persisted buyback
type BuybackDetail struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BuybackID          uuid.UUID `gorm:"type:uuid;not null;index" json:"buyback_id"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID          uuid.UUID `gorm:"type:uuid;not null" json:"variant_id"`
	Quantity           int       `gorm:"not null" json:"quantity"`
	UnitPrice          int64     `gorm:"not null" json:"unit_price"`
	IndividualDiscount string    `gorm:"size:100" json:"individual_discount,omitempty"`
	LineTotal          int64     `gorm:"not null" json:"line_total"`

	// Sale attribution, frozen at allocation time so a quota check on a
	// resumed draft sees the terms the units were granted under.
	SaleID                 *uuid.UUID `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	SaleDisplayName        string     `gorm:"size:255" json:"sale_display_name,omitempty"`
	SaleDiscountExpression string     `gorm:"size:100" json:"sale_discount_expression,omitempty"`
	SaleAllowedItemCount   int        `gorm:"default:-1" json:"sale_allowed_item_count,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Buyback Buyback `gorm:"foreignKey:BuybackID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new buyback detail
func (d *BuybackDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BuybackDetail model
func (BuybackDetail) TableName() string {
	return "buyback_details"
}
