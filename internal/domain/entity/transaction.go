package entity

import (
	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
)

// Transaction is the in-memory aggregate for one buyback being edited at the
// register. It is not a gorm model: the register mutates it through the cart
// service one snapshot at a time, and only a finalized snapshot is flattened
// into Buyback rows for persistence.
type Transaction struct {
	// ID is assigned once the transaction has been persisted as a draft or
	// completed buyback; it is nil while the cart only exists in a session.
	ID *uuid.UUID `json:"id,omitempty"`

	Carts []CartLine `json:"carts"`

	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	ReceivedAmount int64              `json:"received_amount"`
	ChangeAmount   int64              `json:"change_amount"`

	GlobalDiscount *GlobalDiscount `json:"global_discount,omitempty"`

	// Derived amounts, recomputed by the cart service after every change.
	SubtotalAmount int64 `json:"subtotal_amount"`
	DiscountAmount int64 `json:"discount_amount"`
	TotalAmount    int64 `json:"total_amount"`
	TaxAmount      int64 `json:"tax_amount"`
}

// CartLine holds all quantity of one product in the cart, split into variants
// by price and discount attribution. A line with no variants is removed.
type CartLine struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductImage  string    `json:"product_image,omitempty"`
	Condition     string    `json:"condition,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	Variants      []Variant `json:"variants"`
}

// Variant is one priced batch of units within a cart line.
type Variant struct {
	ID                 uuid.UUID        `json:"id"`
	ItemCount          int              `json:"item_count"`
	UnitPrice          int64            `json:"unit_price"`
	IndividualDiscount string           `json:"individual_discount,omitempty"`
	Sale               *SaleAttribution `json:"sale,omitempty"`
}

// SaleAttribution records which promotional rule a variant's units were
// allocated against, with the rule's terms frozen at allocation time.
type SaleAttribution struct {
	SaleID             uuid.UUID `json:"sale_id"`
	DisplayName        string    `json:"display_name"`
	DiscountExpression string    `json:"discount_expression"`
	AllowedItemCount   int       `json:"allowed_item_count"`
}

// GlobalDiscount is the single whole-transaction price adjustment.
type GlobalDiscount struct {
	Mode  enum.DiscountMode `json:"mode"`
	Value float64           `json:"value"`
}

// NewTransaction creates an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{Carts: []CartLine{}}
}

// Clone returns a deep copy. Cart operations always mutate a clone so the
// previous snapshot stays valid when an operation is rejected.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	if t.ID != nil {
		id := *t.ID
		cp.ID = &id
	}
	if t.GlobalDiscount != nil {
		gd := *t.GlobalDiscount
		cp.GlobalDiscount = &gd
	}
	cp.Carts = make([]CartLine, len(t.Carts))
	for i, line := range t.Carts {
		cp.Carts[i] = line
		cp.Carts[i].Variants = make([]Variant, len(line.Variants))
		for j, v := range line.Variants {
			cp.Carts[i].Variants[j] = v
			if v.Sale != nil {
				sale := *v.Sale
				cp.Carts[i].Variants[j].Sale = &sale
			}
		}
	}
	return &cp
}

// AllocatedToSale sums the item counts of every variant in the entire cart
// attributed to the given sale. Quotas are shared across all products, so
// the walk is cart-wide rather than per line.
func (t *Transaction) AllocatedToSale(saleID uuid.UUID) int {
	total := 0
	for _, line := range t.Carts {
		for _, v := range line.Variants {
			if v.Sale != nil && v.Sale.SaleID == saleID {
				total += v.ItemCount
			}
		}
	}
	return total
}

// FindLine returns the cart line for a product, or nil
func (t *Transaction) FindLine(productID uuid.UUID) *CartLine {
	for i := range t.Carts {
		if t.Carts[i].ProductID == productID {
			return &t.Carts[i]
		}
	}
	return nil
}

// FindVariant locates a variant by id anywhere in the cart. Variant ids are
// unique across the whole transaction.
func (t *Transaction) FindVariant(variantID uuid.UUID) *Variant {
	for i := range t.Carts {
		for j := range t.Carts[i].Variants {
			if t.Carts[i].Variants[j].ID == variantID {
				return &t.Carts[i].Variants[j]
			}
		}
	}
	return nil
}

// TotalItemCount returns the number of units across the whole cart
func (t *Transaction) TotalItemCount() int {
	total := 0
	for _, line := range t.Carts {
		for _, v := range line.Variants {
			total += v.ItemCount
		}
	}
	return total
}
