package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSale(name string, allowed, priority int) entity.Sale {
	return entity.Sale{
		ID:                 uuid.New(),
		DisplayName:        name,
		DiscountExpression: "110%",
		AllowedItemCount:   allowed,
		Priority:           priority,
	}
}

func TestAllocateQuota_NothingRequested(t *testing.T) {
	tx := entity.NewTransaction()
	sales := []entity.Sale{makeSale("spring", -1, 0)}

	assert.Nil(t, allocateQuota(0, tx, sales))
	assert.Nil(t, allocateQuota(-3, tx, sales))
}

func TestAllocateQuota_UnlimitedSaleTakesEverything(t *testing.T) {
	tx := entity.NewTransaction()
	sale := makeSale("spring", -1, 0)

	plan := allocateQuota(5, tx, []entity.Sale{sale})

	require.Len(t, plan, 1)
	assert.Equal(t, 5, plan[0].quantity)
	require.NotNil(t, plan[0].sale)
	assert.Equal(t, sale.ID, plan[0].sale.SaleID)
}

func TestAllocateQuota_FiniteQuotaLeavesResidual(t *testing.T) {
	tx := entity.NewTransaction()
	sale := makeSale("limited", 3, 0)

	plan := allocateQuota(5, tx, []entity.Sale{sale})

	require.Len(t, plan, 2)
	assert.Equal(t, 3, plan[0].quantity)
	require.NotNil(t, plan[0].sale)
	assert.Equal(t, 2, plan[1].quantity)
	assert.Nil(t, plan[1].sale)
}

func TestAllocateQuota_ConsumesSalesInCatalogOrder(t *testing.T) {
	tx := entity.NewTransaction()
	first := makeSale("first", 2, 0)
	second := makeSale("second", 4, 1)

	plan := allocateQuota(5, tx, []entity.Sale{first, second})

	require.Len(t, plan, 2)
	assert.Equal(t, 2, plan[0].quantity)
	assert.Equal(t, first.ID, plan[0].sale.SaleID)
	assert.Equal(t, 3, plan[1].quantity)
	assert.Equal(t, second.ID, plan[1].sale.SaleID)
}

func TestAllocateQuota_QuotaIsCartWide(t *testing.T) {
	sale := makeSale("limited", 3, 0)

	// Another product in the cart already holds 2 units of this sale's quota.
	tx := entity.NewTransaction()
	tx.Carts = append(tx.Carts, entity.CartLine{
		ProductID: uuid.New(),
		Variants: []entity.Variant{
			{ID: uuid.New(), ItemCount: 2, UnitPrice: 500, Sale: sale.Attribution()},
		},
	})

	plan := allocateQuota(4, tx, []entity.Sale{sale})

	require.Len(t, plan, 2)
	assert.Equal(t, 1, plan[0].quantity)
	assert.Equal(t, sale.ID, plan[0].sale.SaleID)
	assert.Equal(t, 3, plan[1].quantity)
	assert.Nil(t, plan[1].sale)
}

func TestAllocateQuota_ExhaustedSaleIsSkipped(t *testing.T) {
	sale := makeSale("limited", 2, 0)

	tx := entity.NewTransaction()
	tx.Carts = append(tx.Carts, entity.CartLine{
		ProductID: uuid.New(),
		Variants: []entity.Variant{
			{ID: uuid.New(), ItemCount: 2, UnitPrice: 500, Sale: sale.Attribution()},
		},
	})

	plan := allocateQuota(3, tx, []entity.Sale{sale})

	require.Len(t, plan, 1)
	assert.Equal(t, 3, plan[0].quantity)
	assert.Nil(t, plan[0].sale)
}

func TestAllocateQuota_SegmentsSumToRequested(t *testing.T) {
	tx := entity.NewTransaction()
	sales := []entity.Sale{
		makeSale("a", 1, 0),
		makeSale("b", 2, 1),
		makeSale("c", -1, 2),
	}

	for _, requested := range []int{1, 2, 3, 7, 100} {
		plan := allocateQuota(requested, tx, sales)
		total := 0
		for _, seg := range plan {
			total += seg.quantity
		}
		assert.Equal(t, requested, total)
	}
}

func TestAllocateQuota_ZeroQuotaSaleGrantsNothing(t *testing.T) {
	tx := entity.NewTransaction()
	plan := allocateQuota(2, tx, []entity.Sale{makeSale("closed", 0, 0)})

	require.Len(t, plan, 1)
	assert.Equal(t, 2, plan[0].quantity)
	assert.Nil(t, plan[0].sale)
}
