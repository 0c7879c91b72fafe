package service

import (
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
)

// allocation is one segment of an allocation plan: a quantity and the sale it
// was granted under, nil for the unrestricted remainder.
type allocation struct {
	quantity int
	sale     *entity.SaleAttribution
}

// allocateQuota splits a requested quantity across the applicable sales and a
// residual unattributed segment. Sales are consumed in the order the catalog
// returned them; each grant is capped by what is left of that sale's quota
// after counting every unit already attributed to it anywhere in the cart.
// The returned segment quantities always sum to requested.
func allocateQuota(requested int, tx *entity.Transaction, sales []entity.Sale) []allocation {
	if requested <= 0 {
		return nil
	}

	remaining := requested
	var plan []allocation

	for i := range sales {
		if remaining <= 0 {
			break
		}
		sale := &sales[i]

		available := remaining
		if sale.AllowedItemCount >= 0 {
			available = sale.AllowedItemCount - tx.AllocatedToSale(sale.ID)
			if available < 0 {
				available = 0
			}
		}

		grant := min(available, remaining)
		if grant <= 0 {
			continue
		}

		plan = append(plan, allocation{quantity: grant, sale: sale.Attribution()})
		remaining -= grant
	}

	if remaining > 0 {
		plan = append(plan, allocation{quantity: remaining})
	}

	return plan
}
