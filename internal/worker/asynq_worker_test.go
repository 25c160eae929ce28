package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/provider"
	"github.com/shopcore-next/internal/queue"
	"github.com/shopcore-next/internal/repository"
	"github.com/shopcore-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) snapshot() []events.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderEvent(nil), p.events...)
}

func setupWorkerTest(t *testing.T) (*gorm.DB, *Consumer, *recordingPublisher) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Product{},
		&models.CartItem{},
		&models.Discount{},
		&models.DiscountUsage{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })

	publisher := &recordingPublisher{}
	dispatcher := service.NewOrderEventDispatcher(nil, publisher)
	orderRepo := repository.NewOrderRepository(db)
	payments := service.NewPaymentService(
		orderRepo,
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		repository.NewDiscountRepository(db),
		repository.NewDiscountUsageRepository(db),
		nil, dispatcher, nil,
	)
	consumer := NewConsumer(&provider.Container{
		OrderRepo:      orderRepo,
		PaymentService: payments,
		Dispatcher:     dispatcher,
	})
	return db, consumer, publisher
}

func createExpiredOrder(t *testing.T, db *gorm.DB, expiresAt time.Time) (*models.Order, *models.Product) {
	t.Helper()
	product := &models.Product{Slug: "lamp", Name: "Lamp", Price: models.NewMoneyFromInt(100000), Stock: 3, IsActive: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	ref := "txn-worker-1"
	order := &models.Order{
		OrderNo:         "SC-WORKER-1",
		UserName:        "Tran Thi B",
		UserEmail:       "guest@example.com",
		Source:          constants.OrderSourceGuest,
		Subtotal:        models.NewMoneyFromInt(200000),
		Total:           models.NewMoneyFromInt(200000),
		FinalTotal:      models.NewMoneyFromInt(200000),
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.PaymentStatusPending,
		PaymentMethod:   constants.PaymentMethodVNPay,
		PaymentIntentID: &ref,
		ExpiresAt:       &expiresAt,
		Items: []models.OrderItem{
			{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 2},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order, product
}

func timeoutTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: orderID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderTimeoutCancelReleasesStock(t *testing.T) {
	db, consumer, publisher := setupWorkerTest(t)
	order, product := createExpiredOrder(t, db, time.Now().Add(-time.Minute))

	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, order.ID)); err != nil {
		t.Fatalf("handle timeout cancel failed: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled || reloaded.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("expected cancelled/failed, got %s/%s", reloaded.Status, reloaded.PaymentStatus)
	}
	var stock models.Product
	if err := db.First(&stock, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if stock.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", stock.Stock)
	}
	got := publisher.snapshot()
	if len(got) != 1 || got[0].Type != events.EventTypeOrderCancelled {
		t.Fatalf("expected one cancelled event, got %+v", got)
	}

	// 重复投递不再变更
	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, order.ID)); err != nil {
		t.Fatalf("repeated timeout cancel failed: %v", err)
	}
	if err := db.First(&stock, product.ID).Error; err != nil || stock.Stock != 5 {
		t.Fatalf("stock must be restored once, got %d err=%v", stock.Stock, err)
	}
}

func TestHandleOrderTimeoutCancelNotDue(t *testing.T) {
	db, consumer, publisher := setupWorkerTest(t)
	order, _ := createExpiredOrder(t, db, time.Now().Add(10*time.Minute))

	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, order.ID)); err != nil {
		t.Fatalf("handle timeout cancel failed: %v", err)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending || reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("order not yet due must stay pending, got %s/%s", reloaded.Status, reloaded.PaymentStatus)
	}
	if len(publisher.snapshot()) != 0 {
		t.Fatalf("no event expected")
	}
}

func TestHandleOrderTimeoutCancelSkipsMissingOrder(t *testing.T) {
	_, consumer, _ := setupWorkerTest(t)
	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, 404)); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
	broken := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{"))
	if err := consumer.handleOrderTimeoutCancel(context.Background(), broken); err != nil {
		t.Fatalf("invalid payload should not be retried, got %v", err)
	}
}

func TestHandleOrderEventDelivers(t *testing.T) {
	_, consumer, publisher := setupWorkerTest(t)
	event := events.OrderEvent{ID: "evt-1", Type: events.EventTypeOrderPaid, OrderID: 7, OrderNo: "SC-7"}
	body, err := json.Marshal(queue.OrderEventPayload{Event: event})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}

	if err := consumer.handleOrderEvent(context.Background(), asynq.NewTask(queue.TaskOrderEvent, body)); err != nil {
		t.Fatalf("handle order event failed: %v", err)
	}
	got := publisher.snapshot()
	if len(got) != 1 || got[0].OrderNo != "SC-7" {
		t.Fatalf("expected delivered event, got %+v", got)
	}

	publisher.err = errors.New("broker down")
	if err := consumer.handleOrderEvent(context.Background(), asynq.NewTask(queue.TaskOrderEvent, body)); err == nil {
		t.Fatalf("publish failure must be returned for retry")
	}
}
