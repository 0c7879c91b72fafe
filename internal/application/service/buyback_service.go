package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
	"github.com/okanodev/kaitori-pos/pkg/pagination"
	"github.com/okanodev/kaitori-pos/pkg/utils"
)

// BuybackService persists register transactions as buyback records and
// hydrates saved drafts back into editable transactions
type BuybackService struct {
	buybackRepo repository.BuybackRepository
	detailRepo  repository.BuybackDetailRepository
	productRepo repository.ProductRepository
}

// NewBuybackService creates a new buyback service
func NewBuybackService(
	buybackRepo repository.BuybackRepository,
	detailRepo repository.BuybackDetailRepository,
	productRepo repository.ProductRepository,
) *BuybackService {
	return &BuybackService{
		buybackRepo: buybackRepo,
		detailRepo:  detailRepo,
		productRepo: productRepo,
	}
}

// Finalize completes a transaction: the snapshot is flattened into a buyback
// row with one detail per variant, and the purchased quantities are added to
// stock. A transaction previously saved as a draft completes in place;
// anything else gets a new record. The returned buyback carries its details.
func (s *BuybackService) Finalize(ctx context.Context, userID uuid.UUID, tx *entity.Transaction) (*entity.Buyback, error) {
	if tx == nil || tx.TotalItemCount() == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	buyback, err := s.upsert(ctx, userID, tx, enum.BuybackStatusCompleted)
	if err != nil {
		return nil, err
	}

	// Bought-in units go into stock. Increments are summed per product so a
	// product split across variants is counted once.
	stockIncrements := make(map[uuid.UUID]int)
	for _, line := range tx.Carts {
		for _, v := range line.Variants {
			stockIncrements[line.ProductID] += v.ItemCount
		}
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
		return nil, err
	}

	return s.buybackRepo.GetWithDetails(ctx, buyback.ID)
}

// SaveDraft persists the transaction so the session can be abandoned and
// resumed later. Saving an already-saved draft overwrites it. Stock is not
// touched until the draft is finalized.
func (s *BuybackService) SaveDraft(ctx context.Context, userID uuid.UUID, tx *entity.Transaction) (*entity.Buyback, error) {
	if tx == nil || tx.TotalItemCount() == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	return s.upsert(ctx, userID, tx, enum.BuybackStatusDraft)
}

func (s *BuybackService) upsert(ctx context.Context, userID uuid.UUID, tx *entity.Transaction, status enum.BuybackStatus) (*entity.Buyback, error) {
	var existing *entity.Buyback
	if tx.ID != nil {
		found, err := s.buybackRepo.GetByID(ctx, *tx.ID)
		if err != nil {
			return nil, err
		}
		if found != nil && found.Status == enum.BuybackStatusCompleted {
			return nil, apperror.NewConflictError("Buyback is already completed")
		}
		existing = found
	}

	buyback := &entity.Buyback{
		UserID:         userID,
		Status:         status,
		PaymentMethod:  tx.PaymentMethod,
		SubtotalAmount: tx.SubtotalAmount,
		DiscountAmount: tx.DiscountAmount,
		TotalAmount:    tx.TotalAmount,
		TaxAmount:      tx.TaxAmount,
		ReceivedAmount: tx.ReceivedAmount,
		ChangeAmount:   tx.ChangeAmount,
	}
	if tx.GlobalDiscount != nil {
		mode := tx.GlobalDiscount.Mode
		value := tx.GlobalDiscount.Value
		buyback.GlobalDiscountMode = &mode
		buyback.GlobalDiscountValue = &value
	}

	if existing != nil {
		buyback.ID = existing.ID
		buyback.BuybackNo = existing.BuybackNo
		buyback.CreatedAt = existing.CreatedAt
		if err := s.buybackRepo.Update(ctx, buyback); err != nil {
			return nil, err
		}
		// Details are replaced wholesale on every save.
		if err := s.detailRepo.DeleteByBuybackID(ctx, buyback.ID); err != nil {
			return nil, err
		}
	} else {
		buyback.BuybackNo = utils.GenerateReferenceNo("BUY")
		if err := s.buybackRepo.Create(ctx, buyback); err != nil {
			return nil, err
		}
	}

	details := detailsFromTransaction(buyback.ID, tx)
	if err := s.detailRepo.CreateBatch(ctx, details); err != nil {
		return nil, err
	}

	id := buyback.ID
	tx.ID = &id
	return buyback, nil
}

// detailsFromTransaction flattens the cart into one row per variant
func detailsFromTransaction(buybackID uuid.UUID, tx *entity.Transaction) []entity.BuybackDetail {
	var details []entity.BuybackDetail
	for _, line := range tx.Carts {
		for i := range line.Variants {
			v := &line.Variants[i]
			detail := entity.BuybackDetail{
				BuybackID:            buybackID,
				ProductID:            line.ProductID,
				VariantID:            v.ID,
				Quantity:             v.ItemCount,
				UnitPrice:            v.UnitPrice,
				IndividualDiscount:   v.IndividualDiscount,
				LineTotal:            variantContribution(v),
				SaleAllowedItemCount: -1,
			}
			if v.Sale != nil {
				saleID := v.Sale.SaleID
				detail.SaleID = &saleID
				detail.SaleDisplayName = v.Sale.DisplayName
				detail.SaleDiscountExpression = v.Sale.DiscountExpression
				detail.SaleAllowedItemCount = v.Sale.AllowedItemCount
			}
			details = append(details, detail)
		}
	}
	return details
}

// ResumeDraft hydrates a saved draft back into an editable transaction with
// the original variant ids and frozen sale attributions, so quota checks on
// the resumed cart behave exactly as before the save
func (s *BuybackService) ResumeDraft(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	buyback, err := s.buybackRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if buyback == nil {
		return nil, apperror.NewNotFoundError("Buyback")
	}
	if buyback.Status != enum.BuybackStatusDraft {
		return nil, apperror.NewBadRequestError("Only draft buybacks can be resumed")
	}

	tx := entity.NewTransaction()
	buybackID := buyback.ID
	tx.ID = &buybackID
	tx.PaymentMethod = buyback.PaymentMethod
	tx.ReceivedAmount = buyback.ReceivedAmount
	tx.ChangeAmount = buyback.ChangeAmount
	tx.SubtotalAmount = buyback.SubtotalAmount
	tx.DiscountAmount = buyback.DiscountAmount
	tx.TotalAmount = buyback.TotalAmount
	tx.TaxAmount = buyback.TaxAmount
	if buyback.GlobalDiscountMode != nil && buyback.GlobalDiscountValue != nil {
		tx.GlobalDiscount = &entity.GlobalDiscount{
			Mode:  *buyback.GlobalDiscountMode,
			Value: *buyback.GlobalDiscountValue,
		}
	}

	for _, detail := range buyback.Details {
		line := tx.FindLine(detail.ProductID)
		if line == nil {
			tx.Carts = append(tx.Carts, entity.CartLine{
				ProductID:     detail.ProductID,
				ProductName:   detail.Product.Name,
				ProductImage:  detail.Product.ImageURL(),
				Condition:     detail.Product.Condition,
				StockQuantity: detail.Product.Quantity,
			})
			line = &tx.Carts[len(tx.Carts)-1]
		}

		variant := entity.Variant{
			ID:                 detail.VariantID,
			ItemCount:          detail.Quantity,
			UnitPrice:          detail.UnitPrice,
			IndividualDiscount: detail.IndividualDiscount,
		}
		if detail.SaleID != nil {
			variant.Sale = &entity.SaleAttribution{
				SaleID:             *detail.SaleID,
				DisplayName:        detail.SaleDisplayName,
				DiscountExpression: detail.SaleDiscountExpression,
				AllowedItemCount:   detail.SaleAllowedItemCount,
			}
		}
		line.Variants = append(line.Variants, variant)
	}

	return tx, nil
}

// GetBuyback retrieves a buyback with its details
func (s *BuybackService) GetBuyback(ctx context.Context, id uuid.UUID) (*entity.Buyback, error) {
	buyback, err := s.buybackRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if buyback == nil {
		return nil, apperror.NewNotFoundError("Buyback")
	}
	return buyback, nil
}

// ListBuybacks lists buybacks with filtering
func (s *BuybackService) ListBuybacks(ctx context.Context, params *repository.BuybackFilterParams) (*pagination.PaginatedResult[entity.Buyback], error) {
	buybacks, total, err := s.buybackRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(buybacks, pag), nil
}

// DeleteBuyback deletes a draft buyback. Completed buybacks have moved stock
// and cannot be deleted.
func (s *BuybackService) DeleteBuyback(ctx context.Context, userID, buybackID uuid.UUID, isAdmin bool) error {
	buyback, err := s.buybackRepo.GetByID(ctx, buybackID)
	if err != nil {
		return err
	}
	if buyback == nil {
		return apperror.NewNotFoundError("Buyback")
	}

	if !isAdmin && buyback.UserID != userID {
		return apperror.ErrForbidden
	}

	if buyback.Status == enum.BuybackStatusCompleted {
		return apperror.NewAppError(400, "Cannot delete a completed buyback")
	}

	if err := s.detailRepo.DeleteByBuybackID(ctx, buybackID); err != nil {
		return err
	}

	return s.buybackRepo.Delete(ctx, buybackID)
}
