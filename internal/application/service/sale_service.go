package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
	"github.com/okanodev/kaitori-pos/pkg/pagination"
)

// SaleService manages the promotional rule catalog
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	DisplayName        string
	DiscountExpression string
	AllowedItemCount   int
	Priority           int
	StartsAt           *time.Time
	EndsAt             *time.Time
	ProductIDs         []uuid.UUID
}

// CreateSale creates a new promotional rule and links it to its products
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if input.AllowedItemCount < -1 {
		return nil, apperror.NewBadRequestError("Allowed item count must be -1 (unlimited) or non-negative")
	}

	products, err := s.resolveProducts(ctx, input.ProductIDs)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		DisplayName:        input.DisplayName,
		DiscountExpression: input.DiscountExpression,
		AllowedItemCount:   input.AllowedItemCount,
		Priority:           input.Priority,
		StartsAt:           input.StartsAt,
		EndsAt:             input.EndsAt,
		Products:           products,
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	return s.saleRepo.GetByID(ctx, sale.ID)
}

// GetSale retrieves a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// UpdateSaleInput represents the update sale input
type UpdateSaleInput struct {
	SaleID             uuid.UUID
	DisplayName        *string
	DiscountExpression *string
	AllowedItemCount   *int
	Priority           *int
	StartsAt           *time.Time
	EndsAt             *time.Time
	ProductIDs         []uuid.UUID
}

// UpdateSale updates a promotional rule. Carts already holding attributions to
// this sale keep their frozen terms; only future allocations see the change.
func (s *SaleService) UpdateSale(ctx context.Context, input *UpdateSaleInput) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	if input.DisplayName != nil {
		sale.DisplayName = *input.DisplayName
	}
	if input.DiscountExpression != nil {
		sale.DiscountExpression = *input.DiscountExpression
	}
	if input.AllowedItemCount != nil {
		if *input.AllowedItemCount < -1 {
			return nil, apperror.NewBadRequestError("Allowed item count must be -1 (unlimited) or non-negative")
		}
		sale.AllowedItemCount = *input.AllowedItemCount
	}
	if input.Priority != nil {
		sale.Priority = *input.Priority
	}
	if input.StartsAt != nil {
		sale.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		sale.EndsAt = input.EndsAt
	}
	if input.ProductIDs != nil {
		products, err := s.resolveProducts(ctx, input.ProductIDs)
		if err != nil {
			return nil, err
		}
		sale.Products = products
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	return s.saleRepo.GetByID(ctx, sale.ID)
}

// DeleteSale deletes a promotional rule
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}

	return s.saleRepo.Delete(ctx, id)
}

// resolveProducts batch-loads products and ensures every referenced ID exists
func (s *SaleService) resolveProducts(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(products))
	for i := range products {
		found[products[i].ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}
	}

	return products, nil
}
