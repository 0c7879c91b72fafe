package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	domainRepo "github.com/okanodev/kaitori-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type buybackRepository struct {
	db *gorm.DB
}

// NewBuybackRepository creates a new buyback repository
func NewBuybackRepository(db *gorm.DB) domainRepo.BuybackRepository {
	return &buybackRepository{db: db}
}

func (r *buybackRepository) Create(ctx context.Context, buyback *entity.Buyback) error {
	return r.db.WithContext(ctx).Create(buyback).Error
}

func (r *buybackRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Buyback, error) {
	var buyback entity.Buyback
	err := r.db.WithContext(ctx).First(&buyback, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &buyback, err
}

func (r *buybackRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Buyback, error) {
	var buyback entity.Buyback
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("buyback_details.created_at ASC")
		}).
		Preload("Details.Product").
		Preload("User").
		First(&buyback, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &buyback, err
}

func (r *buybackRepository) Update(ctx context.Context, buyback *entity.Buyback) error {
	return r.db.WithContext(ctx).Save(buyback).Error
}

func (r *buybackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Buyback{}, "id = ?", id).Error
}

func (r *buybackRepository) List(ctx context.Context, params *domainRepo.BuybackFilterParams) ([]entity.Buyback, int64, error) {
	var buybacks []entity.Buyback
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Buyback{})

	if params.Search != "" {
		query = query.Where("buyback_no ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("User").
		Order(sortBy + " " + sortOrder).
		Find(&buybacks).Error

	return buybacks, total, err
}

type buybackDetailRepository struct {
	db *gorm.DB
}

// NewBuybackDetailRepository creates a new buyback detail repository
func NewBuybackDetailRepository(db *gorm.DB) domainRepo.BuybackDetailRepository {
	return &buybackDetailRepository{db: db}
}

func (r *buybackDetailRepository) CreateBatch(ctx context.Context, details []entity.BuybackDetail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

func (r *buybackDetailRepository) GetByBuybackID(ctx context.Context, buybackID uuid.UUID) ([]entity.BuybackDetail, error) {
	var details []entity.BuybackDetail
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("buyback_id = ?", buybackID).
		Order("created_at ASC").
		Find(&details).Error
	return details, err
}

func (r *buybackDetailRepository) DeleteByBuybackID(ctx context.Context, buybackID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("buyback_id = ?", buybackID).
		Delete(&entity.BuybackDetail{}).Error
}
