package request

import (
	"time"

	"github.com/google/uuid"
)

// CreateSaleRequest represents a sale creation request. The discount
// expression uses the register's form: "110%" for a percentage against a
// baseline of 100, or a plain number for a fixed per-unit amount.
type CreateSaleRequest struct {
	DisplayName        string      `json:"display_name" binding:"required,min=1,max=255"`
	DiscountExpression string      `json:"discount_expression" binding:"required,max=100"`
	AllowedItemCount   *int        `json:"allowed_item_count"`
	Priority           int         `json:"priority"`
	StartsAt           *time.Time  `json:"starts_at"`
	EndsAt             *time.Time  `json:"ends_at"`
	ProductIDs         []uuid.UUID `json:"product_ids"`
}

// UpdateSaleRequest represents a sale update request
type UpdateSaleRequest struct {
	DisplayName        *string     `json:"display_name" binding:"omitempty,min=1,max=255"`
	DiscountExpression *string     `json:"discount_expression" binding:"omitempty,max=100"`
	AllowedItemCount   *int        `json:"allowed_item_count"`
	Priority           *int        `json:"priority"`
	StartsAt           *time.Time  `json:"starts_at"`
	EndsAt             *time.Time  `json:"ends_at"`
	ProductIDs         []uuid.UUID `json:"product_ids"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
