package service

import (
	"errors"
	"fmt"
)

// 输入校验
var (
	ErrCheckoutItemsEmpty     = errors.New("checkout items empty")
	ErrCartEmpty              = errors.New("cart is empty")
	ErrInvalidOrderItem       = errors.New("invalid order item")
	ErrCustomerInfoRequired   = errors.New("customer name, email, phone and address are required")
	ErrInvalidEmail           = errors.New("invalid email")
	ErrPaymentMethodInvalid   = errors.New("payment method invalid")
	ErrOrderStatusInvalid     = errors.New("order status invalid")
	ErrPaymentStatusInvalid   = errors.New("payment status invalid")
	ErrDiscountPayloadInvalid = errors.New("discount payload invalid")
	ErrCartQuantityInvalid    = errors.New("cart quantity invalid")
)

// 资源不存在
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrUserNotFound     = errors.New("user not found")
)

// 身份与权限
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrForbidden          = errors.New("forbidden")
	ErrUserExists         = errors.New("user already exists")
)

// 业务规则
var (
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrProductNotAvailable   = errors.New("product not available")
	ErrDiscountInvalidCode   = errors.New("discount code invalid")
	ErrDiscountNotStarted    = errors.New("discount not started")
	ErrDiscountExpired       = errors.New("discount expired")
	ErrDiscountBelowMin      = errors.New("order below discount minimum")
	ErrDiscountLimit         = errors.New("discount usage limit reached")
	ErrDiscountCodeExists    = errors.New("discount code already exists")
	ErrPaymentAmountMismatch = errors.New("payment amount mismatch")
	ErrPaymentAmountInvalid  = errors.New("online payment requires a positive amount")
	ErrCaptchaRequired       = errors.New("captcha required")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrTransitionNotAllowed  = errors.New("order state transition not allowed")
)

// 网关与基础设施
var (
	ErrInvalidSignature     = errors.New("invalid gateway signature")
	ErrCallbackInvalid      = errors.New("gateway callback invalid")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrOrderCreateFailed    = errors.New("order create failed")
	ErrOrderUpdateFailed    = errors.New("order update failed")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// InsufficientStockError 库存不足，携带商品名称
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.Available >= 0 {
		return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
