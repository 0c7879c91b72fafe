package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/pkg/pagination"
)

// SaleRepository defines the interface for promotional rule lookups.
//
// FindApplicable is the catalog collaborator the cart engine depends on: it
// must return the sales active at the given instant for the given product in
// a stable order (priority, then creation time). The quota allocator grants
// quantity to sales in exactly the order returned here.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Sale, int64, error)
	FindApplicable(ctx context.Context, productID uuid.UUID, at time.Time) ([]entity.Sale, error)
}
