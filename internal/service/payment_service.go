package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/metrics"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/payment/vnpay"
	"github.com/shopcore-next/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService 网关回调与超时取消
type PaymentService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	discountRepo repository.DiscountRepository
	usageRepo    repository.DiscountUsageRepository
	gateway      *vnpay.Config
	dispatcher   *OrderEventDispatcher
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, discountRepo repository.DiscountRepository, usageRepo repository.DiscountUsageRepository, gateway *vnpay.Config, dispatcher *OrderEventDispatcher, m *metrics.Metrics) *PaymentService {
	return &PaymentService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		discountRepo: discountRepo,
		usageRepo:    usageRepo,
		gateway:      gateway,
		dispatcher:   dispatcher,
		metrics:      m,
		now:          time.Now,
	}
}

// SetClock 替换时钟
func (s *PaymentService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ReturnOutcome 回调处理结果
type ReturnOutcome struct {
	Order            *models.Order
	Success          bool
	ResponseCode     string
	AlreadyProcessed bool
}

// HandleReturn 处理网关回跳：验签、金额核对、幂等的状态流转
func (s *PaymentService) HandleReturn(ctx context.Context, query url.Values) (*ReturnOutcome, error) {
	outcome, result, err := s.handleReturn(ctx, query)
	s.metrics.ObserveCallback(result)
	return outcome, err
}

func (s *PaymentService) handleReturn(ctx context.Context, query url.Values) (*ReturnOutcome, string, error) {
	if s.gateway == nil {
		return nil, "error", ErrGatewayNotConfigured
	}
	log := logger.Ctx(ctx, "txn_ref", query.Get(vnpay.FieldTxnRef))
	log.Infow("vnpay_return_received", "response_code", query.Get(vnpay.FieldResponseCode))

	result, err := vnpay.VerifyReturn(s.gateway, query)
	if err != nil {
		switch {
		case errors.Is(err, vnpay.ErrSignatureInvalid):
			log.Warnw("vnpay_return_signature_invalid")
			return nil, "invalid_signature", ErrInvalidSignature
		case errors.Is(err, vnpay.ErrCallbackInvalid):
			log.Warnw("vnpay_return_payload_invalid", "error", err)
			return nil, "invalid_payload", ErrCallbackInvalid
		default:
			log.Errorw("vnpay_return_verify_failed", "error", err)
			return nil, "error", ErrGatewayNotConfigured
		}
	}

	order, err := s.orderRepo.GetByTransactionRef(ctx, result.TxnRef)
	if err != nil {
		log.Errorw("vnpay_return_order_fetch_failed", "error", err)
		return nil, "error", ErrOrderUpdateFailed
	}
	if order == nil {
		log.Warnw("vnpay_return_order_not_found")
		return nil, "order_not_found", ErrOrderNotFound
	}
	log = log.With("order_id", order.ID, "order_no", order.OrderNo)

	if IsPaymentSettled(order.PaymentStatus) || normalizeState(order.Status) != constants.OrderStatusPending {
		log.Infow("vnpay_return_idempotent",
			"status", order.Status,
			"payment_status", order.PaymentStatus,
		)
		return &ReturnOutcome{
			Order:            order,
			Success:          order.PaymentStatus == constants.PaymentStatusPaid,
			ResponseCode:     result.ResponseCode,
			AlreadyProcessed: true,
		}, "duplicate", nil
	}

	expected := vnpay.ToMinorUnits(order.FinalTotal.Decimal)
	if result.AmountMinor != expected {
		log.Warnw("vnpay_return_amount_mismatch",
			"expected_amount", expected,
			"callback_amount", result.AmountMinor,
		)
		return nil, "amount_mismatch", ErrPaymentAmountMismatch
	}

	paymentOutcome := PaymentFailed
	if result.Success() {
		paymentOutcome = PaymentSucceeded
	}
	updated, applied, err := s.settle(ctx, order, paymentOutcome, "gateway", log)
	if err != nil {
		return nil, "error", err
	}
	label := "failed"
	if paymentOutcome == PaymentSucceeded {
		label = "paid"
	}
	if !applied {
		label = "duplicate"
	}
	return &ReturnOutcome{
		Order:            updated,
		Success:          updated.PaymentStatus == constants.PaymentStatusPaid,
		ResponseCode:     result.ResponseCode,
		AlreadyProcessed: !applied,
	}, label, nil
}

// CancelExpiredOrder 取消超时未支付的线上订单，复用网关失败流转
func (s *PaymentService) CancelExpiredOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	log := logger.Ctx(ctx, "order_id", order.ID, "order_no", order.OrderNo)
	if _, err := NextGatewayState(OrderState{Status: order.Status, PaymentStatus: order.PaymentStatus}, PaymentFailed); err != nil {
		log.Debugw("order_timeout_cancel_skipped",
			"status", order.Status,
			"payment_status", order.PaymentStatus,
		)
		return order, nil
	}
	if order.ExpiresAt != nil && s.now().Before(*order.ExpiresAt) {
		log.Debugw("order_timeout_cancel_not_due", "expires_at", order.ExpiresAt)
		return order, nil
	}
	updated, _, err := s.settle(ctx, order, PaymentFailed, "timeout", log)
	return updated, err
}

// settle 守卫式流转，SQL 条件确保已终结的支付状态不会被覆盖
// applied 为 false 表示并发请求已先行处理
func (s *PaymentService) settle(ctx context.Context, order *models.Order, outcome PaymentOutcome, trigger string, log *zap.SugaredLogger) (*models.Order, bool, error) {
	current := OrderState{Status: order.Status, PaymentStatus: order.PaymentStatus}
	next, err := NextGatewayState(current, outcome)
	if err != nil {
		return order, false, nil
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":         next.Status,
		"payment_status": next.PaymentStatus,
		"updated_at":     now,
	}
	if outcome == PaymentSucceeded {
		updates["paid_at"] = now
	} else {
		updates["cancelled_at"] = now
	}

	applied := false
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).TransitionPayment(ctx, order.ID, current.Status, current.PaymentStatus, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		applied = true
		if outcome == PaymentSucceeded {
			if order.Source == constants.OrderSourceCart && order.UserID != nil {
				return s.cartRepo.WithTx(tx).ClearByUser(ctx, *order.UserID)
			}
			return nil
		}
		return s.releaseReservations(ctx, tx, order)
	})
	if err != nil {
		log.Errorw("order_payment_transition_failed", "trigger", trigger, "error", err)
		return nil, false, ErrOrderUpdateFailed
	}

	reloaded, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil || reloaded == nil {
		log.Errorw("order_reload_failed", "error", err)
		return nil, applied, ErrOrderUpdateFailed
	}
	if !applied {
		log.Infow("order_payment_transition_lost_race",
			"trigger", trigger,
			"status", reloaded.Status,
			"payment_status", reloaded.PaymentStatus,
		)
		return reloaded, false, nil
	}

	log.Infow("order_payment_transitioned",
		"trigger", trigger,
		"status", reloaded.Status,
		"payment_status", reloaded.PaymentStatus,
	)
	s.metrics.ObserveTransition(trigger, reloaded.PaymentStatus)
	if outcome == PaymentSucceeded {
		s.dispatcher.Dispatch(ctx, events.EventTypeOrderPaid, reloaded)
	} else {
		s.dispatcher.Dispatch(ctx, events.EventTypeOrderCancelled, reloaded)
	}
	return reloaded, true, nil
}

// releaseReservations 归还下单时扣减的库存与折扣次数
func (s *PaymentService) releaseReservations(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	productRepo := s.productRepo.WithTx(tx)
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			continue
		}
		if err := productRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	removed, err := s.usageRepo.WithTx(tx).DeleteByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	if removed > 0 && order.DiscountID != nil {
		return s.discountRepo.WithTx(tx).DecrementUsedCount(ctx, *order.DiscountID)
	}
	return nil
}
