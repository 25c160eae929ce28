package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/shopcore-next/internal/http/handlers/shared"
	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/repository"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// DiscountRequest 创建/更新折扣码请求
type DiscountRequest struct {
	Code        string       `json:"code" binding:"required"`
	Type        string       `json:"type" binding:"required"`
	Value       models.Money `json:"value"`
	MinOrder    models.Money `json:"minOrder"`
	MaxDiscount models.Money `json:"maxDiscount"`
	UsageLimit  int          `json:"usageLimit"`
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	IsActive    *bool        `json:"isActive"`
}

func (r DiscountRequest) toInput() (service.DiscountInput, error) {
	startDate, err := parseTimeNullable(strings.TrimSpace(r.StartDate))
	if err != nil {
		return service.DiscountInput{}, err
	}
	endDate, err := parseTimeNullable(strings.TrimSpace(r.EndDate))
	if err != nil {
		return service.DiscountInput{}, err
	}
	return service.DiscountInput{
		Code:        r.Code,
		Type:        r.Type,
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		UsageLimit:  r.UsageLimit,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    r.IsActive,
	}, nil
}

// GetAdminDiscounts 折扣码列表
func (h *Handler) GetAdminDiscounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.DiscountListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		Type:     strings.TrimSpace(c.Query("type")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	discounts, total, err := h.DiscountService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.discount_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, discounts, response.BuildPagination(page, pageSize, total))
}

// GetAdminDiscount 折扣码详情
func (h *Handler) GetAdminDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	discount, err := h.DiscountService.Get(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "error.discount_fetch_failed")
		return
	}
	response.Success(c, discount)
}

// CreateDiscount 创建折扣码
func (h *Handler) CreateDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	discount, err := h.DiscountService.Create(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "error.discount_save_failed")
		return
	}
	response.Created(c, discount)
}

// UpdateDiscount 更新折扣码
func (h *Handler) UpdateDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	discount, err := h.DiscountService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "error.discount_save_failed")
		return
	}
	response.Success(c, discount)
}

// DeleteDiscount 删除折扣码
func (h *Handler) DeleteDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.DiscountService.Delete(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "error.discount_delete_failed")
		return
	}
	response.Success(c, gin.H{"id": id})
}
