package queue

import (
	"encoding/json"
	"fmt"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 待支付订单超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskOrderEvent 订单事件投递任务
	TaskOrderEvent = constants.TaskOrderEvent
)

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderEventPayload 订单事件任务载荷
type OrderEventPayload struct {
	Event events.OrderEvent `json:"event"`
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, fmt.Errorf("order id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewOrderEventTask 创建订单事件投递任务
func NewOrderEventTask(payload OrderEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderEvent, body), nil
}

// ParseOrderTimeoutCancelPayload 解析超时取消任务载荷
func ParseOrderTimeoutCancelPayload(task *asynq.Task) (OrderTimeoutCancelPayload, error) {
	var payload OrderTimeoutCancelPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	if payload.OrderID == 0 {
		return payload, fmt.Errorf("order id is required")
	}
	return payload, nil
}

// ParseOrderEventPayload 解析订单事件任务载荷
func ParseOrderEventPayload(task *asynq.Task) (OrderEventPayload, error) {
	var payload OrderEventPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
