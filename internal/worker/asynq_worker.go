package worker

import (
	"context"
	"errors"

	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/provider"
	"github.com/shopcore-next/internal/queue"
	"github.com/shopcore-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskOrderEvent, c.handleOrderEvent)
}

func (c *Consumer) handleOrderTimeoutCancel(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderTimeoutCancelPayload(task)
	if err != nil {
		// 载荷无法解析时重试也无意义
		logger.Warnw("worker_order_timeout_cancel_invalid_payload", "error", err)
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_order_timeout_cancel_skip_payment_service_nil", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.PaymentService.CancelExpiredOrder(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_timeout_cancel_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	logger.Debugw("worker_order_timeout_cancel_done",
		"order_id", order.ID,
		"status", order.Status,
		"payment_status", order.PaymentStatus,
	)
	return nil
}

func (c *Consumer) handleOrderEvent(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_event_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderEventPayload(task)
	if err != nil {
		logger.Warnw("worker_order_event_invalid_payload", "error", err)
		return nil
	}
	if payload.Event.OrderID == 0 {
		logger.Debugw("worker_order_event_skip_invalid_payload", "event_type", payload.Event.Type)
		return nil
	}
	if err := c.Dispatcher.Deliver(ctx, payload.Event); err != nil {
		logger.Warnw("worker_order_event_deliver_failed",
			"order_id", payload.Event.OrderID,
			"event_type", payload.Event.Type,
			"error", err,
		)
		return err
	}
	return nil
}
