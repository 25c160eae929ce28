package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/shopcore-next/internal/http/handlers/shared"
	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/repository"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OfflineOrderItemRequest 线下订单商品
type OfflineOrderItemRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Color     string `json:"color"`
}

// OfflineOrderRequest 管理员代客下单请求
type OfflineOrderRequest struct {
	Items         []OfflineOrderItemRequest `json:"items" binding:"required"`
	Name          string                    `json:"name"`
	Email         string                    `json:"email"`
	Phone         string                    `json:"phone"`
	Address       string                    `json:"address"`
	DiscountCode  string                    `json:"discountCode"`
	PaymentMethod string                    `json:"paymentMethod"`
	Status        string                    `json:"status"`
	PaymentStatus string                    `json:"paymentStatus"`
}

// UpdateOrderStatusRequest 后台订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// AdminCreateOfflineOrder 管理员代客线下下单
func (h *Handler) AdminCreateOfflineOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req OfflineOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
		})
	}
	result, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		Source: service.FromAdminItems{
			Items:         items,
			AdminID:       adminID,
			Status:        req.Status,
			PaymentStatus: req.PaymentStatus,
		},
		PaymentMethod: req.PaymentMethod,
		DiscountCode:  req.DiscountCode,
		Customer: service.CustomerInfo{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		},
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, handlershared.CheckoutErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	requestLog(c).Infow("admin_offline_order_created",
		"admin_id", adminID,
		"order_id", result.Order.ID,
		"order_no", result.Order.OrderNo,
	)
	response.Created(c, gin.H{"order": result.Order})
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(c.Request.Context(), repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        userID,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		PaymentMethod: strings.TrimSpace(c.Query("payment_method")),
		Source:        strings.TrimSpace(c.Query("source")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		Email:         strings.TrimSpace(c.Query("email")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(c.Request.Context(), orderID)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 更新订单状态，不校验流转方向
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), orderID, service.UpdateOrderStatusInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	adminID, _ := c.Get("admin_id")
	requestLog(c).Infow("admin_order_status_updated",
		"admin_id", adminID,
		"order_id", order.ID,
		"status", order.Status,
		"payment_status", order.PaymentStatus,
	)
	response.Success(c, order)
}
