package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/pkg/pagination"
)

// BuybackRepository defines the interface for buyback data operations
type BuybackRepository interface {
	Create(ctx context.Context, buyback *entity.Buyback) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Buyback, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Buyback, error)
	Update(ctx context.Context, buyback *entity.Buyback) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BuybackFilterParams) ([]entity.Buyback, int64, error)
}

// BuybackFilterParams contains filtering parameters for buyback queries
type BuybackFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BuybackStatus
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// BuybackDetailRepository defines the interface for buyback detail data operations
type BuybackDetailRepository interface {
	CreateBatch(ctx context.Context, details []entity.BuybackDetail) error
	GetByBuybackID(ctx context.Context, buybackID uuid.UUID) ([]entity.BuybackDetail, error)
	DeleteByBuybackID(ctx context.Context, buybackID uuid.UUID) error
}
