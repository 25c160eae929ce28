package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/payment/vnpay"

	"github.com/shopspring/decimal"
)

func createPendingVNPayOrder(t *testing.T, f *serviceFixture, stock int, discountCode string) (*CheckoutResult, *models.Product) {
	t.Helper()
	product := f.createProduct(t, "pending-"+time.Now().Format("150405.000000000"), 200000, stock)
	result, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Source:        FromGuestItems{Items: []CheckoutItem{{ProductID: product.ID, Quantity: 1}}},
		PaymentMethod: constants.PaymentMethodVNPay,
		DiscountCode:  discountCode,
		Customer:      guestCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return result, product
}

func TestHandleReturnDuplicateIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	result, _ := createPendingVNPayOrder(t, f, 3, "")
	query := signedReturn(result.TransactionRef, result.Order.FinalTotal.Decimal, vnpay.ResponseCodeSuccess)

	first, err := f.payments.HandleReturn(context.Background(), query)
	if err != nil || first.AlreadyProcessed {
		t.Fatalf("unexpected first outcome %+v err=%v", first, err)
	}
	paidAt := f.reloadOrder(t, result.Order.ID).PaidAt

	f.now = f.now.Add(time.Minute)
	second, err := f.payments.HandleReturn(context.Background(), query)
	if err != nil {
		t.Fatalf("duplicate return failed: %v", err)
	}
	if !second.AlreadyProcessed || !second.Success {
		t.Fatalf("expected already processed success, got %+v", second)
	}
	order := f.reloadOrder(t, result.Order.ID)
	if order.PaidAt == nil || paidAt == nil || !order.PaidAt.Equal(*paidAt) {
		t.Fatalf("paid_at must not change on duplicate, before=%v after=%v", paidAt, order.PaidAt)
	}

	// 已支付后收到失败回调也不得覆盖
	failed := signedReturn(result.TransactionRef, result.Order.FinalTotal.Decimal, "24")
	third, err := f.payments.HandleReturn(context.Background(), failed)
	if err != nil || !third.AlreadyProcessed {
		t.Fatalf("expected idempotent outcome, got %+v err=%v", third, err)
	}
	if order := f.reloadOrder(t, result.Order.ID); order.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("paid order regressed to %s", order.PaymentStatus)
	}
}

func TestHandleReturnAmountMismatch(t *testing.T) {
	f := newServiceFixture(t)
	result, _ := createPendingVNPayOrder(t, f, 3, "")
	tampered := result.Order.FinalTotal.Decimal.Sub(decimal.NewFromInt(1000))

	_, err := f.payments.HandleReturn(context.Background(),
		signedReturn(result.TransactionRef, tampered, vnpay.ResponseCodeSuccess))
	if !errors.Is(err, ErrPaymentAmountMismatch) {
		t.Fatalf("expected amount mismatch, got %v", err)
	}
	order := f.reloadOrder(t, result.Order.ID)
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("order must be unchanged, got %s/%s", order.Status, order.PaymentStatus)
	}
}

func TestHandleReturnUnknownTxnRef(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.payments.HandleReturn(context.Background(),
		signedReturn("does-not-exist", decimal.NewFromInt(1000), vnpay.ResponseCodeSuccess))
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestHandleReturnFailureReleasesReservations(t *testing.T) {
	f := newServiceFixture(t)
	discount := f.createDiscount(t, models.Discount{
		Code:       "FAIL5",
		Type:       constants.DiscountTypeFixed,
		Value:      models.NewMoneyFromInt(5000),
		UsageLimit: 10,
		IsActive:   true,
	})
	result, product := createPendingVNPayOrder(t, f, 2, "FAIL5")
	if got := f.productStock(t, product.ID); got != 1 {
		t.Fatalf("expected reserved stock 1, got %d", got)
	}

	outcome, err := f.payments.HandleReturn(context.Background(),
		signedReturn(result.TransactionRef, result.Order.FinalTotal.Decimal, "24"))
	if err != nil {
		t.Fatalf("handle return failed: %v", err)
	}
	if outcome.Success || outcome.ResponseCode != "24" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	order := f.reloadOrder(t, result.Order.ID)
	if order.Status != constants.OrderStatusCancelled || order.PaymentStatus != constants.PaymentStatusFailed || order.CancelledAt == nil {
		t.Fatalf("unexpected failed order %+v", order)
	}
	if got := f.productStock(t, product.ID); got != 2 {
		t.Fatalf("expected stock restored to 2, got %d", got)
	}
	var stored models.Discount
	if err := f.db.First(&stored, discount.ID).Error; err != nil {
		t.Fatalf("load discount failed: %v", err)
	}
	if stored.UsedCount != 0 {
		t.Fatalf("expected discount usage released, got %d", stored.UsedCount)
	}
	if usage, _ := f.usages.GetByOrderID(context.Background(), order.ID); usage != nil {
		t.Fatalf("expected usage row removed")
	}
}

func TestCancelExpiredOrder(t *testing.T) {
	f := newServiceFixture(t)
	result, product := createPendingVNPayOrder(t, f, 1, "")

	order, err := f.payments.CancelExpiredOrder(context.Background(), result.Order.ID)
	if err != nil {
		t.Fatalf("cancel before expiry failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("order must not be cancelled before expiry, got %s", order.Status)
	}

	f.now = f.now.Add(16 * time.Minute)
	order, err = f.payments.CancelExpiredOrder(context.Background(), result.Order.ID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if order.Status != constants.OrderStatusCancelled || order.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("unexpected expired order %s/%s", order.Status, order.PaymentStatus)
	}
	if got := f.productStock(t, product.ID); got != 1 {
		t.Fatalf("expected stock restored, got %d", got)
	}

	// 超时取消后的迟到回调按幂等处理
	late, err := f.payments.HandleReturn(context.Background(),
		signedReturn(result.TransactionRef, result.Order.FinalTotal.Decimal, vnpay.ResponseCodeSuccess))
	if err != nil || !late.AlreadyProcessed || late.Success {
		t.Fatalf("unexpected late callback outcome %+v err=%v", late, err)
	}
}

func TestCancelExpiredOrderSkipsSettledOrders(t *testing.T) {
	f := newServiceFixture(t)
	product := f.createProduct(t, "settled-cod", 10000, 2)
	result, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Source:        FromGuestItems{Items: []CheckoutItem{{ProductID: product.ID, Quantity: 1}}},
		PaymentMethod: constants.PaymentMethodCOD,
		Customer:      guestCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	order, err := f.payments.CancelExpiredOrder(context.Background(), result.Order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != constants.OrderStatusConfirmed {
		t.Fatalf("cod order must not be touched, got %s", order.Status)
	}
	if _, err := f.payments.CancelExpiredOrder(context.Background(), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}
