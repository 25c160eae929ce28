package service

import (
	"context"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单查询与后台状态维护
type OrderService struct {
	orderRepo  repository.OrderRepository
	payments   *PaymentService
	dispatcher *OrderEventDispatcher
	now        func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, payments *PaymentService, dispatcher *OrderEventDispatcher) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		payments:   payments,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// UpdateOrderStatusInput 后台状态更新输入，两个维度可独立更新
type UpdateOrderStatusInput struct {
	Status        string
	PaymentStatus string
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrUserNotFound
	}
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.syncExpiredOrders(ctx, orders)
	return orders, total, nil
}

// GetOrderByUser 用户订单详情，非本人订单返回 ErrForbidden
func (s *OrderService) GetOrderByUser(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrForbidden
	}
	s.syncExpiredOrder(ctx, order)
	return order, nil
}

// ListOrdersForAdmin 后台订单列表
func (s *OrderService) ListOrdersForAdmin(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.syncExpiredOrders(ctx, orders)
	return orders, total, nil
}

// GetOrderForAdmin 后台订单详情
func (s *OrderService) GetOrderForAdmin(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.syncExpiredOrder(ctx, order)
	return order, nil
}

// UpdateOrderStatus 后台状态更新，仅校验枚举值，不限制流转方向
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, input UpdateOrderStatusInput) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	state, err := applyStateOverrides(OrderState{}, input.Status, input.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if state.Status == "" && state.PaymentStatus == "" {
		return nil, ErrOrderStatusInvalid
	}

	now := s.now()
	updates := map[string]interface{}{"updated_at": now}
	becamePaid := false
	becameCancelled := false
	if state.Status != "" && state.Status != order.Status {
		updates["status"] = state.Status
		if state.Status == constants.OrderStatusCancelled && order.CancelledAt == nil {
			updates["cancelled_at"] = now
			becameCancelled = true
		}
	}
	if state.PaymentStatus != "" && state.PaymentStatus != order.PaymentStatus {
		updates["payment_status"] = state.PaymentStatus
		if state.PaymentStatus == constants.PaymentStatusPaid {
			becamePaid = true
			if order.PaidAt == nil {
				updates["paid_at"] = now
			}
		}
	}
	if len(updates) == 1 {
		return order, nil
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).UpdateStatus(ctx, order.ID, updates); err != nil {
			return err
		}
		// 首次取消时归还库存与折扣次数；cancelled_at 已存在说明已归还过
		if becameCancelled && s.payments != nil {
			return s.payments.releaseReservations(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		logger.Ctx(ctx).Errorw("admin_order_status_update_failed",
			"order_id", order.ID,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}
	updated, err := s.getOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Infow("admin_order_status_updated",
		"order_id", updated.ID,
		"order_no", updated.OrderNo,
		"previous_status", order.Status,
		"previous_payment_status", order.PaymentStatus,
		"status", updated.Status,
		"payment_status", updated.PaymentStatus,
	)
	if becamePaid {
		s.dispatcher.Dispatch(ctx, events.EventTypeOrderPaid, updated)
	}
	if becameCancelled {
		s.dispatcher.Dispatch(ctx, events.EventTypeOrderCancelled, updated)
	}
	return updated, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// syncExpiredOrder 读取时懒同步已过期的待支付订单，队列未启用时兜底
func (s *OrderService) syncExpiredOrder(ctx context.Context, order *models.Order) {
	if s.payments == nil || order == nil || order.ExpiresAt == nil {
		return
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		return
	}
	if order.ExpiresAt.After(s.now()) {
		return
	}
	updated, err := s.payments.CancelExpiredOrder(ctx, order.ID)
	if err != nil {
		logger.Ctx(ctx).Warnw("order_lazy_expire_failed", "order_id", order.ID, "error", err)
		return
	}
	*order = *updated
}

func (s *OrderService) syncExpiredOrders(ctx context.Context, orders []models.Order) {
	for i := range orders {
		s.syncExpiredOrder(ctx, &orders[i])
	}
}
