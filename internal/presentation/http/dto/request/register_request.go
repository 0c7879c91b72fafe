package request

import "github.com/google/uuid"

// AddCartItemRequest adds quantity of a product to the register cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	ItemCount int       `json:"item_count" binding:"required,min=1"`
	// UnitPrice overrides the catalog buying price when set, for on-the-spot
	// appraisal adjustments.
	UnitPrice          *int64 `json:"unit_price"`
	IndividualDiscount string `json:"individual_discount" binding:"omitempty,max=100"`
	IsUnique           bool   `json:"is_unique"`
}

// UpdateItemCountRequest changes a cart variant's quantity
type UpdateItemCountRequest struct {
	ItemCount int `json:"item_count" binding:"min=0"`
}

// UpdateUnitPriceRequest changes a cart variant's unit price
type UpdateUnitPriceRequest struct {
	UnitPrice int64 `json:"unit_price" binding:"min=0"`
}

// IndividualDiscountRequest applies a per-unit discount to one cart variant
type IndividualDiscountRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Value     float64   `json:"value"`
	// Mode is "percent" or "fixed".
	Mode string `json:"mode" binding:"required,oneof=percent fixed"`
}

// GlobalDiscountRequest applies a whole-cart discount
type GlobalDiscountRequest struct {
	Value float64 `json:"value"`
	Mode  string  `json:"mode" binding:"required,oneof=percent fixed"`
}

// PaymentRequest records the payment method and received amount
type PaymentRequest struct {
	// PaymentMethod is 0 for cash, 1 for bank transfer.
	PaymentMethod  int   `json:"payment_method" binding:"min=0,max=1"`
	ReceivedAmount int64 `json:"received_amount" binding:"min=0"`
}

// BuybackFilterRequest represents buyback history filter parameters
type BuybackFilterRequest struct {
	Search    string `form:"search"`
	Status    *int   `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
