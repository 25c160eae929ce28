package constants

// 订单履约状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 订单支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// 支付方式常量
const (
	PaymentMethodCOD     = "cod"
	PaymentMethodVNPay   = "vnpay"
	PaymentMethodOffline = "offline"
)

// 订单来源常量
const (
	OrderSourceCart  = "cart"
	OrderSourceGuest = "guest"
	OrderSourceAdmin = "admin"
)

// 折扣类型常量
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 异步队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskOrderEvent         = "order:event"
)

// 订单事件类型
const (
	OrderEventCreated   = "order.created"
	OrderEventPaid      = "order.paid"
	OrderEventCancelled = "order.cancelled"
)

// 验证码常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"

	CaptchaSceneGuestCheckout = "guest_checkout"
)
