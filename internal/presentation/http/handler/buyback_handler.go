package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/okanodev/kaitori-pos/internal/application/service"
	"github.com/okanodev/kaitori-pos/internal/domain/enum"
	"github.com/okanodev/kaitori-pos/internal/domain/repository"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/dto/request"
	"github.com/okanodev/kaitori-pos/internal/presentation/http/dto/response"
	"github.com/okanodev/kaitori-pos/pkg/pagination"
)

// BuybackHandler handles buyback history HTTP requests
type BuybackHandler struct {
	buybackService *service.BuybackService
}

// NewBuybackHandler creates a new buyback handler
func NewBuybackHandler(buybackService *service.BuybackService) *BuybackHandler {
	return &BuybackHandler{buybackService: buybackService}
}

// List handles listing buybacks with filtering
func (h *BuybackHandler) List(c *gin.Context) {
	var filter request.BuybackFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BuybackFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != nil {
		status := enum.BuybackStatus(*filter.Status)
		params.Status = &status
	}

	// Cashiers only see their own history; admins see everything.
	if !IsAdmin(c) {
		params.UserID = GetUserID(c)
	}

	if filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &end
		}
	}

	result, err := h.buybackService.ListBuybacks(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Buybacks retrieved successfully", result)
}

// Get handles retrieving a single buyback with its details
func (h *BuybackHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid buyback ID")
		return
	}

	buyback, err := h.buybackService.GetBuyback(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Buyback retrieved successfully", buyback)
}

// Delete handles deleting a draft buyback
func (h *BuybackHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid buyback ID")
		return
	}

	if err := h.buybackService.DeleteBuyback(c.Request.Context(), *userID, id, IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Buyback deleted successfully", nil)
}
