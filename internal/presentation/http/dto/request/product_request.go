package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Code         string  `json:"code" binding:"omitempty,max=100"`
	Condition    string  `json:"condition" binding:"omitempty,max=100"`
	Quantity     int     `json:"quantity" binding:"min=0"`
	BuyingPrice  int64   `json:"buying_price" binding:"min=0"`
	ProductImage *string `json:"product_image"`
	Notes        *string `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	Code         *string `json:"code" binding:"omitempty,min=1,max=100"`
	Condition    *string `json:"condition" binding:"omitempty,max=100"`
	Quantity     *int    `json:"quantity" binding:"omitempty,min=0"`
	BuyingPrice  *int64  `json:"buying_price" binding:"omitempty,min=0"`
	ProductImage *string `json:"product_image"`
	Notes        *string `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
