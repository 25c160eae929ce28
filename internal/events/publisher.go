package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopcore-next/internal/config"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventType 订单事件类型
type EventType string

const (
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderPaid      EventType = "order.paid"
	EventTypeOrderCancelled EventType = "order.cancelled"
)

// OrderEvent 订单事件
type OrderEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	OrderID       uint      `json:"order_id"`
	OrderNo       string    `json:"order_no"`
	UserID        *uint     `json:"user_id,omitempty"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentMethod string    `json:"payment_method"`
	FinalTotal    string    `json:"final_total"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// NewOrderEvent 根据订单快照构建事件
func NewOrderEvent(eventType EventType, order *models.Order, correlationID string) OrderEvent {
	event := OrderEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Timestamp:     time.Now().UTC(),
		CorrelationID: strings.TrimSpace(correlationID),
	}
	if order != nil {
		event.OrderID = order.ID
		event.OrderNo = order.OrderNo
		event.UserID = order.UserID
		event.Source = order.Source
		event.Status = order.Status
		event.PaymentStatus = order.PaymentStatus
		event.PaymentMethod = order.PaymentMethod
		event.FinalTotal = order.FinalTotal.String()
	}
	return event
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// messageWriter kafka.Writer 的最小接口
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 将订单事件写入 Kafka
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher 按配置创建发布器，未启用时返回 NopPublisher
func NewPublisher(cfg *config.KafkaConfig) Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 || strings.TrimSpace(cfg.OrdersTopic) == "" {
		return NopPublisher{}
	}
	timeout := time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: timeout,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, topic: cfg.OrdersTopic}
}

// Publish 发布事件，按订单 ID 分区保证同一订单有序
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not initialized")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Errorw("kafka_publish_failed",
			"topic", p.topic,
			"event_type", event.Type,
			"order_id", event.OrderID,
			"error", err,
		)
		return err
	}
	logger.Debugw("kafka_event_published",
		"topic", p.topic,
		"event_type", event.Type,
		"order_id", event.OrderID,
	)
	return nil
}

// Close 关闭写入器
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NopPublisher 未配置 Kafka 时使用
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// Close 无操作
func (NopPublisher) Close() error { return nil }
