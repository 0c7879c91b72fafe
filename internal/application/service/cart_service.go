package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
	"github.com/okanodev/kaitori-pos/pkg/money"
)

// DefaultTaxRate is the consumption tax rate used when none is configured
const DefaultTaxRate = 10.0

// CartService owns the buyback cart state transitions. Every operation takes
// the previous transaction snapshot and returns a new, fully recomputed one;
// the input snapshot is never mutated. When an operation is rejected or a
// reference is unknown, the input snapshot is returned as-is.
type CartService struct {
	saleRepo repository.SaleRepository
	taxRate  float64
	now      func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(saleRepo repository.SaleRepository, taxRate float64) *CartService {
	if taxRate <= 0 || taxRate >= 100 {
		taxRate = DefaultTaxRate
	}
	return &CartService{
		saleRepo: saleRepo,
		taxRate:  taxRate,
		now:      time.Now,
	}
}

// AddProductsInput describes one product being added to the cart
type AddProductsInput struct {
	ProductID     uuid.UUID
	ProductName   string
	ProductImage  string
	Condition     string
	StockQuantity int

	ItemCount          int
	UnitPrice          int64
	IndividualDiscount string

	// IsUnique forces a new variant even when an economically identical one
	// exists, so the batch can later be repriced or deleted on its own.
	IsUnique bool
}

// AddProducts looks up the active sales for the product, splits the requested
// quantity across their remaining quotas, and merges or appends the resulting
// variants into the cart. The sale lookup happens before any state is touched;
// allocation and commit are one atomic transition on the returned snapshot.
func (s *CartService) AddProducts(ctx context.Context, tx *entity.Transaction, input *AddProductsInput) (*entity.Transaction, error) {
	if input.ItemCount <= 0 {
		return tx, nil
	}

	unitPrice := input.UnitPrice
	if unitPrice < 0 {
		unitPrice = 0
	}

	sales, err := s.saleRepo.FindApplicable(ctx, input.ProductID, s.now())
	if err != nil {
		return tx, err
	}

	next := tx.Clone()
	plan := allocateQuota(input.ItemCount, next, sales)

	line := next.FindLine(input.ProductID)
	if line == nil {
		next.Carts = append(next.Carts, entity.CartLine{
			ProductID:     input.ProductID,
			ProductName:   input.ProductName,
			ProductImage:  input.ProductImage,
			Condition:     input.Condition,
			StockQuantity: input.StockQuantity,
		})
		line = &next.Carts[len(next.Carts)-1]
	}

	for _, alloc := range plan {
		if !input.IsUnique {
			if v := findMergeCandidate(line, unitPrice, input.IndividualDiscount, alloc.sale); v != nil {
				v.ItemCount += alloc.quantity
				continue
			}
		}
		line.Variants = append(line.Variants, entity.Variant{
			ID:                 uuid.New(),
			ItemCount:          alloc.quantity,
			UnitPrice:          unitPrice,
			IndividualDiscount: input.IndividualDiscount,
			Sale:               alloc.sale,
		})
	}

	s.recompute(next)
	return next, nil
}

// findMergeCandidate returns an existing variant in the line that is
// economically identical to the incoming one: same unit price, same sale
// attribution, and the same evaluated individual-discount adjustment. Two
// differently written expressions that evaluate alike still merge.
func findMergeCandidate(line *entity.CartLine, unitPrice int64, discount string, sale *entity.SaleAttribution) *entity.Variant {
	want := money.EvaluateDiscount(discount, unitPrice)
	for i := range line.Variants {
		v := &line.Variants[i]
		if v.UnitPrice != unitPrice {
			continue
		}
		if (v.Sale == nil) != (sale == nil) {
			continue
		}
		if v.Sale != nil && v.Sale.SaleID != sale.SaleID {
			continue
		}
		if money.EvaluateDiscount(v.IndividualDiscount, v.UnitPrice) != want {
			continue
		}
		return v
	}
	return nil
}

// UpdateItemCount replaces a variant's item count. A count of zero or less
// deletes the variant. When the variant is attributed to a sale with a finite
// quota, the new cart-wide total for that sale is validated first; on
// violation the previous snapshot is returned together with a quota-exceeded
// error and nothing changes.
func (s *CartService) UpdateItemCount(tx *entity.Transaction, variantID uuid.UUID, newCount int) (*entity.Transaction, error) {
	v := tx.FindVariant(variantID)
	if v == nil {
		return tx, nil
	}

	if newCount <= 0 {
		return s.DeleteCartItem(tx, variantID), nil
	}

	if v.Sale != nil && v.Sale.AllowedItemCount >= 0 {
		allocated := tx.AllocatedToSale(v.Sale.SaleID)
		if allocated-v.ItemCount+newCount > v.Sale.AllowedItemCount {
			return tx, apperror.NewQuotaExceededError(v.Sale.DisplayName, v.Sale.AllowedItemCount)
		}
	}

	next := tx.Clone()
	next.FindVariant(variantID).ItemCount = newCount
	s.recompute(next)
	return next, nil
}

// UpdateUnitPrice replaces a variant's unit price. Quotas are not
// re-validated and variants are not re-merged; callers that want merge
// semantics delete and re-add instead.
func (s *CartService) UpdateUnitPrice(tx *entity.Transaction, variantID uuid.UUID, newUnitPrice int64) *entity.Transaction {
	if tx.FindVariant(variantID) == nil {
		return tx
	}
	if newUnitPrice < 0 {
		newUnitPrice = 0
	}

	next := tx.Clone()
	next.FindVariant(variantID).UnitPrice = newUnitPrice
	s.recompute(next)
	return next
}

// DeleteCartItem removes a variant from the cart. A cart line left without
// variants is removed as well. Unknown variant ids are a no-op.
func (s *CartService) DeleteCartItem(tx *entity.Transaction, variantID uuid.UUID) *entity.Transaction {
	if tx.FindVariant(variantID) == nil {
		return tx
	}

	next := tx.Clone()
	for i := range next.Carts {
		line := &next.Carts[i]
		for j := range line.Variants {
			if line.Variants[j].ID != variantID {
				continue
			}
			line.Variants = append(line.Variants[:j], line.Variants[j+1:]...)
			if len(line.Variants) == 0 {
				next.Carts = append(next.Carts[:i], next.Carts[i+1:]...)
			}
			s.recompute(next)
			return next
		}
	}
	return tx
}

// ApplyIndividualDiscount replaces the per-unit discount expression on one
// variant of one product. Sibling variants are untouched.
func (s *CartService) ApplyIndividualDiscount(tx *entity.Transaction, productID, variantID uuid.UUID, value float64, mode enum.DiscountMode) *entity.Transaction {
	line := tx.FindLine(productID)
	if line == nil {
		return tx
	}
	found := false
	for i := range line.Variants {
		if line.Variants[i].ID == variantID {
			found = true
			break
		}
	}
	if !found {
		return tx
	}

	next := tx.Clone()
	next.FindVariant(variantID).IndividualDiscount = discountExpression(value, mode)
	s.recompute(next)
	return next
}

// ApplyGlobalDiscount sets the single whole-cart discount, replacing any
// prior one
func (s *CartService) ApplyGlobalDiscount(tx *entity.Transaction, value float64, mode enum.DiscountMode) *entity.Transaction {
	next := tx.Clone()
	next.GlobalDiscount = &entity.GlobalDiscount{Mode: mode, Value: value}
	s.recompute(next)
	return next
}

// SetPayment records the payment method and received amount. The change
// amount is derived during recompute; a received amount of zero or less
// leaves the previous change amount untouched.
func (s *CartService) SetPayment(tx *entity.Transaction, method enum.PaymentMethod, receivedAmount int64) *entity.Transaction {
	next := tx.Clone()
	next.PaymentMethod = method
	next.ReceivedAmount = receivedAmount
	s.recompute(next)
	return next
}

// discountExpression renders a (value, mode) pair into the expression form
// the evaluator parses
func discountExpression(value float64, mode enum.DiscountMode) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if mode == enum.DiscountModePercent {
		return s + "%"
	}
	return s
}
