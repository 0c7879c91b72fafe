package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
	"github.com/okanodev/kaitori-pos/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSaleRepo struct {
	sales []entity.Sale
	err   error
}

func (r *stubSaleRepo) Create(ctx context.Context, sale *entity.Sale) error { return nil }
func (r *stubSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return nil, nil
}
func (r *stubSaleRepo) Update(ctx context.Context, sale *entity.Sale) error { return nil }
func (r *stubSaleRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *stubSaleRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Sale, int64, error) {
	return nil, 0, nil
}
func (r *stubSaleRepo) FindApplicable(ctx context.Context, productID uuid.UUID, at time.Time) ([]entity.Sale, error) {
	return r.sales, r.err
}

func newTestCartService(sales ...entity.Sale) *CartService {
	return NewCartService(&stubSaleRepo{sales: sales}, DefaultTaxRate)
}

func addInput(count int, price int64) *AddProductsInput {
	return &AddProductsInput{
		ProductID:   uuid.New(),
		ProductName: "Switch Lite",
		Condition:   "used",
		ItemCount:   count,
		UnitPrice:   price,
	}
}

func TestAddProducts_NewLineAndTotals(t *testing.T) {
	svc := newTestCartService()
	tx := entity.NewTransaction()

	next, err := svc.AddProducts(context.Background(), tx, addInput(3, 1000))
	require.NoError(t, err)

	require.Len(t, next.Carts, 1)
	require.Len(t, next.Carts[0].Variants, 1)
	assert.Equal(t, 3, next.Carts[0].Variants[0].ItemCount)
	assert.Equal(t, int64(3000), next.SubtotalAmount)
	assert.Equal(t, int64(3000), next.TotalAmount)
	// 3000 * 10 / 110, rounded half away from zero
	assert.Equal(t, int64(273), next.TaxAmount)
}

func TestAddProducts_InputSnapshotUntouched(t *testing.T) {
	svc := newTestCartService()
	tx := entity.NewTransaction()

	next, err := svc.AddProducts(context.Background(), tx, addInput(2, 500))
	require.NoError(t, err)

	assert.NotSame(t, tx, next)
	assert.Empty(t, tx.Carts)
	assert.Zero(t, tx.SubtotalAmount)
}

func TestAddProducts_ZeroCountIsNoop(t *testing.T) {
	svc := newTestCartService()
	tx := entity.NewTransaction()

	next, err := svc.AddProducts(context.Background(), tx, addInput(0, 1000))
	require.NoError(t, err)
	assert.Same(t, tx, next)
}

func TestAddProducts_CatalogErrorLeavesStateUnchanged(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewCartService(&stubSaleRepo{err: repoErr}, DefaultTaxRate)
	tx := entity.NewTransaction()

	next, err := svc.AddProducts(context.Background(), tx, addInput(1, 1000))
	assert.ErrorIs(t, err, repoErr)
	assert.Same(t, tx, next)
}

func TestAddProducts_MergesIdenticalVariants(t *testing.T) {
	svc := newTestCartService()
	input := addInput(2, 1000)

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), input)
	require.NoError(t, err)
	tx, err = svc.AddProducts(context.Background(), tx, input)
	require.NoError(t, err)

	require.Len(t, tx.Carts, 1)
	require.Len(t, tx.Carts[0].Variants, 1)
	assert.Equal(t, 4, tx.Carts[0].Variants[0].ItemCount)
	assert.Equal(t, int64(4000), tx.SubtotalAmount)
}

func TestAddProducts_MergesEquivalentDiscountExpressions(t *testing.T) {
	svc := newTestCartService()
	first := addInput(1, 1000)
	first.IndividualDiscount = "50円"

	second := *first
	second.IndividualDiscount = "-50"

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), first)
	require.NoError(t, err)
	tx, err = svc.AddProducts(context.Background(), tx, &second)
	require.NoError(t, err)

	// "50円" and "-50" both evaluate to a +50 adjustment, so they merge.
	require.Len(t, tx.Carts[0].Variants, 1)
	assert.Equal(t, 2, tx.Carts[0].Variants[0].ItemCount)
}

func TestAddProducts_IsUniqueForcesNewVariant(t *testing.T) {
	svc := newTestCartService()
	input := addInput(2, 1000)
	input.IsUnique = true

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), input)
	require.NoError(t, err)
	tx, err = svc.AddProducts(context.Background(), tx, input)
	require.NoError(t, err)

	require.Len(t, tx.Carts, 1)
	require.Len(t, tx.Carts[0].Variants, 2)
	assert.NotEqual(t, tx.Carts[0].Variants[0].ID, tx.Carts[0].Variants[1].ID)
}

func TestAddProducts_QuotaSplitAndResidualMerge(t *testing.T) {
	sale := makeSale("trade-in bonus", 3, 0)
	svc := newTestCartService(sale)
	input := addInput(5, 1000)

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), input)
	require.NoError(t, err)

	require.Len(t, tx.Carts, 1)
	require.Len(t, tx.Carts[0].Variants, 2)
	assert.Equal(t, 3, tx.Carts[0].Variants[0].ItemCount)
	require.NotNil(t, tx.Carts[0].Variants[0].Sale)
	assert.Equal(t, 2, tx.Carts[0].Variants[1].ItemCount)
	assert.Nil(t, tx.Carts[0].Variants[1].Sale)

	// The sale quota is already exhausted, so a second add of 5 goes entirely
	// to the unattributed variant.
	tx, err = svc.AddProducts(context.Background(), tx, input)
	require.NoError(t, err)

	require.Len(t, tx.Carts[0].Variants, 2)
	assert.Equal(t, 3, tx.Carts[0].Variants[0].ItemCount)
	assert.Equal(t, 7, tx.Carts[0].Variants[1].ItemCount)

	// 3 units at 1000 with a 110% sale bonus plus 7 plain units.
	assert.Equal(t, int64(3*1100+7*1000), tx.SubtotalAmount)
}

func TestAddProducts_NegativePriceClampedToZero(t *testing.T) {
	svc := newTestCartService()
	input := addInput(2, -500)

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tx.Carts[0].Variants[0].UnitPrice)
	assert.Equal(t, int64(0), tx.SubtotalAmount)
}

func TestUpdateItemCount_RecomputesTotals(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(2, 1000))
	require.NoError(t, err)

	variantID := tx.Carts[0].Variants[0].ID
	next, err := svc.UpdateItemCount(tx, variantID, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, next.FindVariant(variantID).ItemCount)
	assert.Equal(t, int64(5000), next.SubtotalAmount)
	// The input snapshot keeps its old state.
	assert.Equal(t, 2, tx.FindVariant(variantID).ItemCount)
}

func TestUpdateItemCount_UnknownVariantIsNoop(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(2, 1000))
	require.NoError(t, err)

	next, err := svc.UpdateItemCount(tx, uuid.New(), 5)
	require.NoError(t, err)
	assert.Same(t, tx, next)
}

func TestUpdateItemCount_ZeroDeletesVariantAndLine(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(2, 1000))
	require.NoError(t, err)

	next, err := svc.UpdateItemCount(tx, tx.Carts[0].Variants[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, next.Carts)
	assert.Zero(t, next.SubtotalAmount)
}

func TestUpdateItemCount_QuotaViolationRejected(t *testing.T) {
	sale := makeSale("limited", 3, 0)
	svc := newTestCartService(sale)
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(3, 1000))
	require.NoError(t, err)

	variantID := tx.Carts[0].Variants[0].ID
	require.NotNil(t, tx.FindVariant(variantID).Sale)

	next, err := svc.UpdateItemCount(tx, variantID, 4)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	// Rejection returns the previous snapshot untouched.
	assert.Same(t, tx, next)
	assert.Equal(t, 3, next.FindVariant(variantID).ItemCount)
}

func TestUpdateItemCount_WithinQuotaAccepted(t *testing.T) {
	sale := makeSale("limited", 5, 0)
	svc := newTestCartService(sale)
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(3, 1000))
	require.NoError(t, err)

	variantID := tx.Carts[0].Variants[0].ID
	next, err := svc.UpdateItemCount(tx, variantID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, next.FindVariant(variantID).ItemCount)
}

func TestUpdateUnitPrice(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(2, 1000))
	require.NoError(t, err)

	variantID := tx.Carts[0].Variants[0].ID
	next := svc.UpdateUnitPrice(tx, variantID, 1500)
	assert.Equal(t, int64(1500), next.FindVariant(variantID).UnitPrice)
	assert.Equal(t, int64(3000), next.SubtotalAmount)

	// Negative prices clamp to zero, unknown ids are a no-op.
	next = svc.UpdateUnitPrice(next, variantID, -100)
	assert.Equal(t, int64(0), next.FindVariant(variantID).UnitPrice)
	assert.Same(t, next, svc.UpdateUnitPrice(next, uuid.New(), 200))
}

func TestDeleteCartItem(t *testing.T) {
	svc := newTestCartService()
	first := addInput(2, 1000)
	second := addInput(1, 700)

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), first)
	require.NoError(t, err)
	tx, err = svc.AddProducts(context.Background(), tx, second)
	require.NoError(t, err)
	require.Len(t, tx.Carts, 2)

	next := svc.DeleteCartItem(tx, tx.Carts[0].Variants[0].ID)
	require.Len(t, next.Carts, 1)
	assert.Equal(t, second.ProductID, next.Carts[0].ProductID)
	assert.Equal(t, int64(700), next.SubtotalAmount)

	// Unknown ids return the same snapshot.
	assert.Same(t, next, svc.DeleteCartItem(next, uuid.New()))
}

func TestApplyIndividualDiscount(t *testing.T) {
	svc := newTestCartService()
	input := addInput(2, 1000)

	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), input)
	require.NoError(t, err)

	variantID := tx.Carts[0].Variants[0].ID
	next := svc.ApplyIndividualDiscount(tx, input.ProductID, variantID, 110, enum.DiscountModePercent)

	assert.Equal(t, "110%", next.FindVariant(variantID).IndividualDiscount)
	// Each unit pays 1000 plus a 10% bonus.
	assert.Equal(t, int64(2200), next.SubtotalAmount)

	// A mismatched product or variant reference changes nothing.
	assert.Same(t, next, svc.ApplyIndividualDiscount(next, uuid.New(), variantID, 110, enum.DiscountModePercent))
	assert.Same(t, next, svc.ApplyIndividualDiscount(next, input.ProductID, uuid.New(), 110, enum.DiscountModePercent))
}

func TestApplyGlobalDiscount_Fixed(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(10, 1000))
	require.NoError(t, err)
	require.Equal(t, int64(10000), tx.SubtotalAmount)

	next := svc.ApplyGlobalDiscount(tx, 500, enum.DiscountModeFixed)

	assert.Equal(t, int64(500), next.DiscountAmount)
	// On the buy side a discount raises the payout.
	assert.Equal(t, int64(10500), next.TotalAmount)
}

func TestApplyGlobalDiscount_Percent(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(10, 1000))
	require.NoError(t, err)

	next := svc.ApplyGlobalDiscount(tx, 10, enum.DiscountModePercent)

	assert.Equal(t, int64(1000), next.DiscountAmount)
	assert.Equal(t, int64(11000), next.TotalAmount)
}

func TestApplyGlobalDiscount_ReplacesPrevious(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(10, 1000))
	require.NoError(t, err)

	tx = svc.ApplyGlobalDiscount(tx, 10, enum.DiscountModePercent)
	tx = svc.ApplyGlobalDiscount(tx, 300, enum.DiscountModeFixed)

	assert.Equal(t, int64(300), tx.DiscountAmount)
	assert.Equal(t, int64(10300), tx.TotalAmount)
}

func TestSetPayment_ChangeDerivation(t *testing.T) {
	svc := newTestCartService()
	tx, err := svc.AddProducts(context.Background(), entity.NewTransaction(), addInput(10, 1000))
	require.NoError(t, err)

	next := svc.SetPayment(tx, enum.PaymentMethodCash, 15000)
	assert.Equal(t, int64(5000), next.ChangeAmount)

	// Clearing the received amount keeps the previously derived change.
	next = svc.SetPayment(next, enum.PaymentMethodCash, 0)
	assert.Equal(t, int64(5000), next.ChangeAmount)
}

func TestRecompute_OrderIndependentSubtotal(t *testing.T) {
	svc := newTestCartService()
	a := addInput(2, 1000)
	b := addInput(3, 700)

	tx1, err := svc.AddProducts(context.Background(), entity.NewTransaction(), a)
	require.NoError(t, err)
	tx1, err = svc.AddProducts(context.Background(), tx1, b)
	require.NoError(t, err)

	tx2, err := svc.AddProducts(context.Background(), entity.NewTransaction(), b)
	require.NoError(t, err)
	tx2, err = svc.AddProducts(context.Background(), tx2, a)
	require.NoError(t, err)

	assert.Equal(t, tx1.SubtotalAmount, tx2.SubtotalAmount)
	assert.Equal(t, tx1.TotalAmount, tx2.TotalAmount)
}
