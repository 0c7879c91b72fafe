package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBuybackRepo struct {
	rows    map[uuid.UUID]*entity.Buyback
	details *memDetailRepo
}

func newMemBuybackRepo(details *memDetailRepo) *memBuybackRepo {
	return &memBuybackRepo{rows: make(map[uuid.UUID]*entity.Buyback), details: details}
}

func (r *memBuybackRepo) Create(ctx context.Context, b *entity.Buyback) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *memBuybackRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Buyback, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBuybackRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Buyback, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	b.Details, _ = r.details.GetByBuybackID(ctx, id)
	return b, nil
}

func (r *memBuybackRepo) Update(ctx context.Context, b *entity.Buyback) error {
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *memBuybackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *memBuybackRepo) List(ctx context.Context, params *repository.BuybackFilterParams) ([]entity.Buyback, int64, error) {
	var out []entity.Buyback
	for _, b := range r.rows {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

type memDetailRepo struct {
	rows     map[uuid.UUID][]entity.BuybackDetail
	products map[uuid.UUID]entity.Product
}

func newMemDetailRepo() *memDetailRepo {
	return &memDetailRepo{
		rows:     make(map[uuid.UUID][]entity.BuybackDetail),
		products: make(map[uuid.UUID]entity.Product),
	}
}

func (r *memDetailRepo) CreateBatch(ctx context.Context, details []entity.BuybackDetail) error {
	for i := range details {
		if details[i].ID == uuid.Nil {
			details[i].ID = uuid.New()
		}
		d := details[i]
		d.Product = r.products[d.ProductID]
		r.rows[d.BuybackID] = append(r.rows[d.BuybackID], d)
	}
	return nil
}

func (r *memDetailRepo) GetByBuybackID(ctx context.Context, buybackID uuid.UUID) ([]entity.BuybackDetail, error) {
	return append([]entity.BuybackDetail(nil), r.rows[buybackID]...), nil
}

func (r *memDetailRepo) DeleteByBuybackID(ctx context.Context, buybackID uuid.UUID) error {
	delete(r.rows, buybackID)
	return nil
}

type memProductRepo struct {
	products   map[uuid.UUID]*entity.Product
	increments map[uuid.UUID]int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		products:   make(map[uuid.UUID]*entity.Product),
		increments: make(map[uuid.UUID]int),
	}
}

func (r *memProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, n := range increments {
		r.increments[id] += n
		if p, ok := r.products[id]; ok {
			p.Quantity += n
		}
	}
	return nil
}

type buybackFixture struct {
	svc         *BuybackService
	cart        *CartService
	buybackRepo *memBuybackRepo
	productRepo *memProductRepo
	userID      uuid.UUID
}

func newBuybackFixture(t *testing.T, sales ...entity.Sale) *buybackFixture {
	t.Helper()
	detailRepo := newMemDetailRepo()
	buybackRepo := newMemBuybackRepo(detailRepo)
	productRepo := newMemProductRepo()

	return &buybackFixture{
		svc:         NewBuybackService(buybackRepo, detailRepo, productRepo),
		cart:        NewCartService(&stubSaleRepo{sales: sales}, DefaultTaxRate),
		buybackRepo: buybackRepo,
		productRepo: productRepo,
		userID:      uuid.New(),
	}
}

func (f *buybackFixture) addProduct(t *testing.T, name string, price int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Code: "C-" + name, Condition: "used", BuyingPrice: price}
	require.NoError(t, f.productRepo.Create(context.Background(), p))
	f.buybackRepo.details.products[p.ID] = *p
	return p
}

func TestFinalize_EmptyCartRejected(t *testing.T) {
	f := newBuybackFixture(t)

	_, err := f.svc.Finalize(context.Background(), f.userID, entity.NewTransaction())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestFinalize_PersistsTransactionAndMovesStock(t *testing.T) {
	f := newBuybackFixture(t)
	product := f.addProduct(t, "gameboy", 3000)

	tx, err := f.cart.AddProducts(context.Background(), entity.NewTransaction(), &AddProductsInput{
		ProductID:   product.ID,
		ProductName: product.Name,
		ItemCount:   4,
		UnitPrice:   3000,
	})
	require.NoError(t, err)
	tx = f.cart.SetPayment(tx, enum.PaymentMethodCash, 15000)

	buyback, err := f.svc.Finalize(context.Background(), f.userID, tx)
	require.NoError(t, err)

	assert.Equal(t, enum.BuybackStatusCompleted, buyback.Status)
	assert.True(t, strings.HasPrefix(buyback.BuybackNo, "BUY-"))
	assert.Equal(t, f.userID, buyback.UserID)
	assert.Equal(t, int64(12000), buyback.SubtotalAmount)
	assert.Equal(t, int64(12000), buyback.TotalAmount)
	assert.Equal(t, int64(3000), buyback.ChangeAmount)
	require.Len(t, buyback.Details, 1)
	assert.Equal(t, 4, buyback.Details[0].Quantity)
	assert.Equal(t, int64(12000), buyback.Details[0].LineTotal)

	// Bought-in units were added to stock.
	assert.Equal(t, 4, f.productRepo.increments[product.ID])
}

func TestSaveDraft_ResumeRoundTrip(t *testing.T) {
	sale := makeSale("bonus", 3, 0)
	f := newBuybackFixture(t, sale)
	product := f.addProduct(t, "switch", 1000)

	tx, err := f.cart.AddProducts(context.Background(), entity.NewTransaction(), &AddProductsInput{
		ProductID:   product.ID,
		ProductName: product.Name,
		ItemCount:   5,
		UnitPrice:   1000,
	})
	require.NoError(t, err)
	tx = f.cart.ApplyGlobalDiscount(tx, 500, enum.DiscountModeFixed)

	draft, err := f.svc.SaveDraft(context.Background(), f.userID, tx)
	require.NoError(t, err)
	assert.Equal(t, enum.BuybackStatusDraft, draft.Status)

	resumed, err := f.svc.ResumeDraft(context.Background(), draft.ID)
	require.NoError(t, err)

	require.NotNil(t, resumed.ID)
	assert.Equal(t, draft.ID, *resumed.ID)
	require.Len(t, resumed.Carts, 1)
	require.Len(t, resumed.Carts[0].Variants, 2)

	// Variant ids and frozen sale terms survive the round trip, so quota
	// accounting on the resumed cart matches the original.
	assert.Equal(t, tx.Carts[0].Variants[0].ID, resumed.Carts[0].Variants[0].ID)
	require.NotNil(t, resumed.Carts[0].Variants[0].Sale)
	assert.Equal(t, sale.ID, resumed.Carts[0].Variants[0].Sale.SaleID)
	assert.Equal(t, 3, resumed.Carts[0].Variants[0].Sale.AllowedItemCount)
	assert.Equal(t, 3, resumed.AllocatedToSale(sale.ID))

	require.NotNil(t, resumed.GlobalDiscount)
	assert.Equal(t, enum.DiscountModeFixed, resumed.GlobalDiscount.Mode)
	assert.Equal(t, tx.TotalAmount, resumed.TotalAmount)
}

func TestSaveDraft_SecondSaveOverwritesDetails(t *testing.T) {
	f := newBuybackFixture(t)
	product := f.addProduct(t, "vita", 2000)

	tx, err := f.cart.AddProducts(context.Background(), entity.NewTransaction(), &AddProductsInput{
		ProductID: product.ID,
		ItemCount: 1,
		UnitPrice: 2000,
	})
	require.NoError(t, err)

	draft, err := f.svc.SaveDraft(context.Background(), f.userID, tx)
	require.NoError(t, err)

	tx, err = f.cart.AddProducts(context.Background(), tx, &AddProductsInput{
		ProductID: product.ID,
		ItemCount: 2,
		UnitPrice: 2000,
	})
	require.NoError(t, err)

	again, err := f.svc.SaveDraft(context.Background(), f.userID, tx)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, again.ID)
	assert.Equal(t, draft.BuybackNo, again.BuybackNo)

	stored, err := f.svc.GetBuyback(context.Background(), draft.ID)
	require.NoError(t, err)
	require.Len(t, stored.Details, 1)
	assert.Equal(t, 3, stored.Details[0].Quantity)
}

func TestFinalize_DraftCompletesInPlace(t *testing.T) {
	f := newBuybackFixture(t)
	product := f.addProduct(t, "famicom", 5000)

	tx, err := f.cart.AddProducts(context.Background(), entity.NewTransaction(), &AddProductsInput{
		ProductID: product.ID,
		ItemCount: 1,
		UnitPrice: 5000,
	})
	require.NoError(t, err)

	draft, err := f.svc.SaveDraft(context.Background(), f.userID, tx)
	require.NoError(t, err)

	done, err := f.svc.Finalize(context.Background(), f.userID, tx)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, done.ID)
	assert.Equal(t, draft.BuybackNo, done.BuybackNo)
	assert.Equal(t, enum.BuybackStatusCompleted, done.Status)

	// Finalizing again is rejected.
	_, err = f.svc.Finalize(context.Background(), f.userID, tx)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestResumeDraft_CompletedRejected(t *testing.T) {
	f := newBuybackFixture(t)
	product := f.addProduct(t, "psp", 4000)

	tx, err := f.cart.AddProducts(context.Background(), entity.NewTransaction(), &AddProductsInput{
		ProductID: product.ID,
		ItemCount: 1,
		UnitPrice: 4000,
	})
	require.NoError(t, err)

	done, err := f.svc.Finalize(context.Background(), f.userID, tx)
	require.NoError(t, err)

	_, err = f.svc.ResumeDraft(context.Background(), done.ID)
	require.Error(t, err)
}

func TestDeleteBuyback_Rules(t *testing.T) {
	f := newBuybackFixture(t)
	product := f.addProduct(t, "dreamcast", 8000)

	tx, err := f.cart.AddProducts(context.Background(), entity.NewTransaction(), &AddProductsInput{
		ProductID: product.ID,
		ItemCount: 1,
		UnitPrice: 8000,
	})
	require.NoError(t, err)

	draft, err := f.svc.SaveDraft(context.Background(), f.userID, tx)
	require.NoError(t, err)

	// Another cashier cannot delete someone else's draft.
	err = f.svc.DeleteBuyback(context.Background(), uuid.New(), draft.ID, false)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// An admin can.
	require.NoError(t, f.svc.DeleteBuyback(context.Background(), uuid.New(), draft.ID, true))

	_, err = f.svc.GetBuyback(context.Background(), draft.ID)
	require.Error(t, err)
}
