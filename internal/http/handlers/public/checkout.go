package public

import (
	"strings"

	"github.com/shopcore-next/internal/constants"
	handlershared "github.com/shopcore-next/internal/http/handlers/shared"
	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/i18n"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutItemRequest 下单商品请求
type CheckoutItemRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Color     string `json:"color"`
}

// CustomerRequest 收货人信息
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r CustomerRequest) toService() service.CustomerInfo {
	return service.CustomerInfo{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// GuestCheckoutRequest 游客下单请求
type GuestCheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required"`
	PaymentMethod string                `json:"paymentMethod"`
	DiscountCode  string                `json:"discountCode"`
	BankCode      string                `json:"bankCode"`
	CustomerRequest
	handlershared.CaptchaPayloadRequest
}

// CartCheckoutRequest 购物车下单请求，收货信息为空时使用账户资料
type CartCheckoutRequest struct {
	DiscountCode string `json:"discountCode"`
	BankCode     string `json:"bankCode"`
	CustomerRequest
}

// CheckoutResponse 下单响应，线上支付时返回跳转地址
type CheckoutResponse struct {
	Order          *models.Order `json:"order,omitempty"`
	PaymentURL     string        `json:"paymentUrl,omitempty"`
	OrderID        uint          `json:"orderId"`
	TransactionRef string        `json:"transactionRef,omitempty"`
}

func toCheckoutItems(items []CheckoutItemRequest) []service.CheckoutItem {
	result := make([]service.CheckoutItem, 0, len(items))
	for _, item := range items {
		result = append(result, service.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
		})
	}
	return result
}

// GuestCheckout 游客下单
func (h *Handler) GuestCheckout(c *gin.Context) {
	var req GuestCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneGuestCheckout, req.ToServicePayload()); err != nil {
			respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_invalid")
			return
		}
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = constants.PaymentMethodCOD
	}
	h.runCheckout(c, service.CheckoutInput{
		Source:        service.FromGuestItems{Items: toCheckoutItems(req.Items)},
		PaymentMethod: method,
		DiscountCode:  req.DiscountCode,
		Customer:      req.CustomerRequest.toService(),
		BankCode:      req.BankCode,
	})
}

// CheckoutCOD 购物车货到付款下单
func (h *Handler) CheckoutCOD(c *gin.Context) {
	h.cartCheckout(c, constants.PaymentMethodCOD)
}

// CheckoutVNPay 购物车在线支付下单
func (h *Handler) CheckoutVNPay(c *gin.Context) {
	h.cartCheckout(c, constants.PaymentMethodVNPay)
}

func (h *Handler) cartCheckout(c *gin.Context, method string) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartCheckoutRequest
	// 请求体可为空
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	h.runCheckout(c, service.CheckoutInput{
		Source:        service.FromCart{UserID: uid},
		PaymentMethod: method,
		DiscountCode:  req.DiscountCode,
		Customer:      req.CustomerRequest.toService(),
		BankCode:      req.BankCode,
	})
}

func (h *Handler) runCheckout(c *gin.Context, input service.CheckoutInput) {
	input.ClientIP = c.ClientIP()
	input.Locale = i18n.ResolveLocale(c)

	result, err := h.CheckoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	resp := CheckoutResponse{OrderID: result.Order.ID}
	if result.PaymentURL != "" {
		resp.PaymentURL = result.PaymentURL
		resp.TransactionRef = result.TransactionRef
	} else {
		resp.Order = result.Order
	}
	response.Created(c, resp)
}

// VNPayReturn 处理网关跳转回调
func (h *Handler) VNPayReturn(c *gin.Context) {
	outcome, err := h.PaymentService.HandleReturn(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondWithMappedError(c, err, paymentReturnErrorRules, response.CodeInternal, "error.payment_callback_failed")
		return
	}

	messageKey := "message.payment_failed"
	if outcome.Success {
		messageKey = "message.payment_success"
	}
	response.Success(c, gin.H{
		"message":          i18n.T(i18n.ResolveLocale(c), messageKey),
		"orderId":          outcome.Order.ID,
		"orderNo":          outcome.Order.OrderNo,
		"status":           outcome.Order.Status,
		"paymentStatus":    outcome.Order.PaymentStatus,
		"responseCode":     outcome.ResponseCode,
		"alreadyProcessed": outcome.AlreadyProcessed,
	})
}
