package service

import (
	"math"

	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/pkg/money"
)

// recompute derives all monetary totals from the cart in a single pass and
// writes them onto the transaction. Addition over integer contributions is
// order-independent, so reordering cart operations that end in the same
// multiset of variants yields the same subtotal.
func (s *CartService) recompute(tx *entity.Transaction) {
	var subtotal int64
	for _, line := range tx.Carts {
		for _, v := range line.Variants {
			subtotal += variantContribution(&v)
		}
	}

	discount := globalDiscountAmount(subtotal, tx.GlobalDiscount)
	total := subtotal + discount

	tx.SubtotalAmount = subtotal
	tx.DiscountAmount = discount
	tx.TotalAmount = total
	tx.TaxAmount = money.ExtractedTax(total, s.taxRate)

	// A manually entered change amount is kept until a received amount is
	// set, rather than being reset to zero.
	if tx.ReceivedAmount > 0 {
		tx.ChangeAmount = tx.ReceivedAmount - total
	}
}

// variantContribution is the payout for one variant: the unit price adjusted
// by the individual and sale discounts, times the item count. Both discount
// adjustments are evaluated against the variant's own unit price.
func variantContribution(v *entity.Variant) int64 {
	unit := v.UnitPrice + money.EvaluateDiscount(v.IndividualDiscount, v.UnitPrice)
	if v.Sale != nil {
		unit += money.EvaluateDiscount(v.Sale.DiscountExpression, v.UnitPrice)
	}
	return unit * int64(v.ItemCount)
}

// globalDiscountAmount returns the whole-cart discount as a non-negative
// magnitude. The cart total applies it with a fixed "+" sign: on the buy
// side a discount raises the payout to the customer.
func globalDiscountAmount(subtotal int64, gd *entity.GlobalDiscount) int64 {
	if gd == nil {
		return 0
	}
	switch gd.Mode {
	case enum.DiscountModeFixed:
		return int64(math.Abs(math.Floor(gd.Value)))
	default:
		return int64(math.Abs(math.Floor(float64(subtotal) * gd.Value / 100)))
	}
}
