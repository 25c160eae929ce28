package service

import (
	"strings"

	"github.com/shopcore-next/internal/constants"
)

// OrderState 订单的两个状态轴
type OrderState struct {
	Status        string
	PaymentStatus string
}

// PaymentOutcome 网关回调结果
type PaymentOutcome int

const (
	PaymentSucceeded PaymentOutcome = iota + 1
	PaymentFailed
)

var orderStatuses = map[string]struct{}{
	constants.OrderStatusPending:   {},
	constants.OrderStatusConfirmed: {},
	constants.OrderStatusShipping:  {},
	constants.OrderStatusDelivered: {},
	constants.OrderStatusCancelled: {},
}

var paymentStatuses = map[string]struct{}{
	constants.PaymentStatusPending: {},
	constants.PaymentStatusPaid:    {},
	constants.PaymentStatusFailed:  {},
}

var paymentMethods = map[string]struct{}{
	constants.PaymentMethodCOD:     {},
	constants.PaymentMethodVNPay:   {},
	constants.PaymentMethodOffline: {},
}

// IsValidOrderStatus 是否为合法履约状态
func IsValidOrderStatus(status string) bool {
	_, ok := orderStatuses[status]
	return ok
}

// IsValidPaymentStatus 是否为合法支付状态
func IsValidPaymentStatus(status string) bool {
	_, ok := paymentStatuses[status]
	return ok
}

// IsValidPaymentMethod 是否为合法支付方式
func IsValidPaymentMethod(method string) bool {
	_, ok := paymentMethods[method]
	return ok
}

func normalizeState(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsPaymentSettled 支付状态是否已终结
func IsPaymentSettled(paymentStatus string) bool {
	switch normalizeState(paymentStatus) {
	case constants.PaymentStatusPaid, constants.PaymentStatusFailed:
		return true
	}
	return false
}

// InitialOrderState 按支付方式决定初始状态
func InitialOrderState(paymentMethod string) OrderState {
	switch paymentMethod {
	case constants.PaymentMethodCOD:
		return OrderState{Status: constants.OrderStatusConfirmed, PaymentStatus: constants.PaymentStatusPending}
	case constants.PaymentMethodOffline:
		return OrderState{Status: constants.OrderStatusConfirmed, PaymentStatus: constants.PaymentStatusPaid}
	default:
		return OrderState{Status: constants.OrderStatusPending, PaymentStatus: constants.PaymentStatusPending}
	}
}

// AdminInitialOrderState 后台线下订单默认已确认已支付，与支付方式无关
func AdminInitialOrderState() OrderState {
	return OrderState{Status: constants.OrderStatusConfirmed, PaymentStatus: constants.PaymentStatusPaid}
}

// NextGatewayState 网关驱动的状态流转
// 仅允许 pending/pending 流转到 confirmed/paid 或 cancelled/failed
func NextGatewayState(current OrderState, outcome PaymentOutcome) (OrderState, error) {
	if normalizeState(current.Status) != constants.OrderStatusPending ||
		normalizeState(current.PaymentStatus) != constants.PaymentStatusPending {
		return current, ErrTransitionNotAllowed
	}
	switch outcome {
	case PaymentSucceeded:
		return OrderState{Status: constants.OrderStatusConfirmed, PaymentStatus: constants.PaymentStatusPaid}, nil
	case PaymentFailed:
		return OrderState{Status: constants.OrderStatusCancelled, PaymentStatus: constants.PaymentStatusFailed}, nil
	default:
		return current, ErrTransitionNotAllowed
	}
}
