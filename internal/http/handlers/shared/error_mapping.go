package shared

import (
	"errors"

	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/i18n"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按规则顺序匹配业务错误，未命中时使用兜底响应并记录原始错误。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.insufficient_stock", stockErr.ProductName)
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// CheckoutErrorRules 下单相关的通用错误映射，前台与后台下单共用。
var CheckoutErrorRules = []MappedError{
	{Target: service.ErrCheckoutItemsEmpty, Code: response.CodeBadRequest, Key: "error.checkout_items_empty"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrInvalidOrderItem, Code: response.CodeBadRequest, Key: "error.invalid_order_item"},
	{Target: service.ErrCustomerInfoRequired, Code: response.CodeBadRequest, Key: "error.customer_info_required"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.invalid_email"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrPaymentStatusInvalid, Code: response.CodeBadRequest, Key: "error.payment_status_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrDiscountInvalidCode, Code: response.CodeNotFound, Key: "error.discount_invalid_code"},
	{Target: service.ErrDiscountNotStarted, Code: response.CodeBadRequest, Key: "error.discount_not_started"},
	{Target: service.ErrDiscountExpired, Code: response.CodeBadRequest, Key: "error.discount_expired"},
	{Target: service.ErrDiscountBelowMin, Code: response.CodeBadRequest, Key: "error.discount_below_min"},
	{Target: service.ErrDiscountLimit, Code: response.CodeBadRequest, Key: "error.discount_limit"},
	{Target: service.ErrPaymentAmountInvalid, Code: response.CodeBadRequest, Key: "error.payment_amount_invalid"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrGatewayNotConfigured, Code: response.CodeInternal, Key: "error.gateway_not_configured"},
}
