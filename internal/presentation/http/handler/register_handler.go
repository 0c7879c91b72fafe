package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/application/service"
	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/dto/request"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/dto/response"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
)

// RegisterHandler handles the live register session: the cart being edited
// for one in-progress buyback. Sessions are keyed by the :session path
// parameter, one per physical register.
type RegisterHandler struct {
	store          *service.TransactionStore
	cartService    *service.CartService
	buybackService *service.BuybackService
	productRepo    repository.ProductRepository
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(
	store *service.TransactionStore,
	cartService *service.CartService,
	buybackService *service.BuybackService,
	productRepo repository.ProductRepository,
) *RegisterHandler {
	return &RegisterHandler{
		store:          store,
		cartService:    cartService,
		buybackService: buybackService,
		productRepo:    productRepo,
	}
}

// GetCart returns the current transaction for a session
func (h *RegisterHandler) GetCart(c *gin.Context) {
	tx := h.store.Get(c.Param("session"))
	if tx == nil {
		tx = entity.NewTransaction()
	}
	response.OK(c, "Cart retrieved successfully", tx)
}

// AddItem adds quantity of a product to the session cart
func (h *RegisterHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productRepo.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if product == nil {
		response.Error(c, apperror.NewNotFoundError("Product"))
		return
	}

	unitPrice := product.BuyingPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}

	input := &service.AddProductsInput{
		ProductID:          product.ID,
		ProductName:        product.Name,
		ProductImage:       product.ImageURL(),
		Condition:          product.Condition,
		StockQuantity:      product.Quantity,
		ItemCount:          req.ItemCount,
		UnitPrice:          unitPrice,
		IndividualDiscount: req.IndividualDiscount,
		IsUnique:           req.IsUnique,
	}

	tx, err := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.AddProducts(c.Request.Context(), tx, input)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", tx)
}

// UpdateItemCount changes a variant's quantity. Quota violations are rejected
// and the cart stays as it was.
func (h *RegisterHandler) UpdateItemCount(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	var req request.UpdateItemCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tx, err := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.UpdateItemCount(tx, variantID, req.ItemCount)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item count updated", tx)
}

// UpdateUnitPrice changes a variant's unit price
func (h *RegisterHandler) UpdateUnitPrice(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	var req request.UpdateUnitPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tx, _ := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.UpdateUnitPrice(tx, variantID, req.UnitPrice), nil
	})

	response.OK(c, "Unit price updated", tx)
}

// DeleteItem removes a variant from the cart
func (h *RegisterHandler) DeleteItem(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	tx, _ := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.DeleteCartItem(tx, variantID), nil
	})

	response.OK(c, "Item removed from cart", tx)
}

// ApplyItemDiscount applies a per-unit discount to one variant
func (h *RegisterHandler) ApplyItemDiscount(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	var req request.IndividualDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	mode := discountModeFromString(req.Mode)
	tx, _ := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.ApplyIndividualDiscount(tx, req.ProductID, variantID, req.Value, mode), nil
	})

	response.OK(c, "Discount applied", tx)
}

// ApplyGlobalDiscount applies a whole-cart discount
func (h *RegisterHandler) ApplyGlobalDiscount(c *gin.Context) {
	var req request.GlobalDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	mode := discountModeFromString(req.Mode)
	tx, _ := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.ApplyGlobalDiscount(tx, req.Value, mode), nil
	})

	response.OK(c, "Global discount applied", tx)
}

// SetPayment records the payment method and received amount
func (h *RegisterHandler) SetPayment(c *gin.Context) {
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tx, _ := h.store.Update(c.Param("session"), func(tx *entity.Transaction) (*entity.Transaction, error) {
		return h.cartService.SetPayment(tx, enum.PaymentMethod(req.PaymentMethod), req.ReceivedAmount), nil
	})

	response.OK(c, "Payment recorded", tx)
}

// Checkout finalizes the session: the transaction is persisted as a completed
// buyback, stock is updated, and the session is cleared
func (h *RegisterHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID := c.Param("session")
	tx := h.store.Get(sessionID)

	buyback, err := h.buybackService.Finalize(c.Request.Context(), *userID, tx)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.store.Delete(sessionID)
	response.Created(c, "Buyback completed successfully", buyback)
}

// SaveDraft persists the session cart as a draft buyback without touching
// stock. The session stays live.
func (h *RegisterHandler) SaveDraft(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID := c.Param("session")
	tx := h.store.Get(sessionID)

	buyback, err := h.buybackService.SaveDraft(c.Request.Context(), *userID, tx)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The transaction now carries its persisted id so later saves update in
	// place.
	h.store.Put(sessionID, tx)
	response.Created(c, "Draft saved successfully", buyback)
}

// ResumeDraft loads a draft buyback into the session, replacing whatever cart
// was there
func (h *RegisterHandler) ResumeDraft(c *gin.Context) {
	buybackID, err := uuid.Parse(c.Param("buyback_id"))
	if err != nil {
		response.BadRequest(c, "Invalid buyback ID")
		return
	}

	tx, err := h.buybackService.ResumeDraft(c.Request.Context(), buybackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.store.Put(c.Param("session"), tx)
	response.OK(c, "Draft resumed successfully", tx)
}

// ClearCart abandons the session cart
func (h *RegisterHandler) ClearCart(c *gin.Context) {
	h.store.Delete(c.Param("session"))
	response.OK(c, "Cart cleared", nil)
}

// discountModeFromString maps the request mode to the enum, defaulting to
// percent
func discountModeFromString(mode string) enum.DiscountMode {
	if mode == "fixed" {
		return enum.DiscountModeFixed
	}
	return enum.DiscountModePercent
}
