package service

import (
	"context"

	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/queue"
)

// OrderEventDispatcher 提交后投递订单事件
// 队列可用时经 asynq 异步投递，否则直接写入发布器
type OrderEventDispatcher struct {
	queueClient *queue.Client
	publisher   events.Publisher
}

// NewOrderEventDispatcher 创建订单事件分发器
func NewOrderEventDispatcher(queueClient *queue.Client, publisher events.Publisher) *OrderEventDispatcher {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderEventDispatcher{queueClient: queueClient, publisher: publisher}
}

// Dispatch 尽力投递，失败仅记录日志
func (d *OrderEventDispatcher) Dispatch(ctx context.Context, eventType events.EventType, order *models.Order) {
	if d == nil || order == nil {
		return
	}
	event := events.NewOrderEvent(eventType, order, logger.RequestIDFromContext(ctx))
	if d.queueClient != nil && d.queueClient.Enabled() {
		if err := d.queueClient.EnqueueOrderEvent(queue.OrderEventPayload{Event: event}); err != nil {
			logger.Ctx(ctx).Warnw("order_event_enqueue_failed",
				"event_type", eventType,
				"order_id", order.ID,
				"error", err,
			)
		}
		return
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Warnw("order_event_publish_failed",
			"event_type", eventType,
			"order_id", order.ID,
			"error", err,
		)
	}
}

// Deliver 将队列中的事件写入发布器，供 worker 调用
func (d *OrderEventDispatcher) Deliver(ctx context.Context, event events.OrderEvent) error {
	if d == nil {
		return nil
	}
	return d.publisher.Publish(ctx, event)
}
