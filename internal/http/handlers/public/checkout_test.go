package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/payment/vnpay"
	"github.com/shopcore-next/internal/provider"
	"github.com/shopcore-next/internal/repository"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const handlerTestSecret = "handler-test-secret"

type checkoutHandlerFixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newCheckoutHandlerFixture(t *testing.T) *checkoutHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&models.User{},
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
	t.Cleanup(func() {
		models.DB = prev
		_ = sqlDB.Close()
	})

	gateway := &vnpay.Config{
		MerchantCode: "SHOPTEST",
		Secret:       handlerTestSecret,
		BaseURL:      "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:    "http://localhost:8080/api/v1/checkout/vnpay-return",
		Version:      "2.1.0",
		Locale:       "vn",
		CurrencyCode: "VND",
		OrderType:    "other",
	}
	orders := repository.NewOrderRepository(db)
	products := repository.NewProductRepository(db)
	carts := repository.NewCartRepository(db)
	discounts := repository.NewDiscountRepository(db)
	usages := repository.NewDiscountUsageRepository(db)
	users := repository.NewUserRepository(db)
	dispatcher := service.NewOrderEventDispatcher(nil, events.NopPublisher{})
	discountService := service.NewDiscountService(discounts)

	h := New(&provider.Container{
		CheckoutService: service.NewCheckoutService(orders, products, carts, discounts, usages, users,
			discountService, gateway, nil, dispatcher, nil, 15),
		PaymentService: service.NewPaymentService(orders, products, carts, discounts, usages, gateway, dispatcher, nil),
	})

	r := gin.New()
	r.POST("/checkout/guest", h.GuestCheckout)
	r.GET("/checkout/vnpay-return", h.VNPayReturn)
	return &checkoutHandlerFixture{db: db, engine: r}
}

func (f *checkoutHandlerFixture) createProduct(t *testing.T, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:     fmt.Sprintf("p-%d", time.Now().UnixNano()),
		Name:     "Áo khoác",
		Price:    models.NewMoneyFromInt(price),
		Stock:    stock,
		IsActive: true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *checkoutHandlerFixture) do(method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	data, _ := resp["data"].(map[string]interface{})
	return w, data
}

func guestBody(productID uint, quantity int, method string) string {
	return fmt.Sprintf(`{"items":[{"productId":%d,"quantity":%d}],"paymentMethod":%q,`+
		`"name":"Le Van C","email":"c@example.com","phone":"0922222222","address":"3 Hai Ba Trung, Hue"}`,
		productID, quantity, method)
}

func TestGuestCheckoutCOD(t *testing.T) {
	f := newCheckoutHandlerFixture(t)
	product := f.createProduct(t, 120000, 5)

	w, data := f.do(http.MethodPost, "/checkout/guest", guestBody(product.ID, 2, ""))
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	order, _ := data["order"].(map[string]interface{})
	if order == nil {
		t.Fatalf("cod checkout should return order, got %s", w.Body.String())
	}
	if order["status"] != constants.OrderStatusConfirmed || order["paymentStatus"] != constants.PaymentStatusPending {
		t.Fatalf("unexpected order state %v/%v", order["status"], order["paymentStatus"])
	}
	if order["paymentMethod"] != constants.PaymentMethodCOD {
		t.Fatalf("guest payment method should default to cod, got %v", order["paymentMethod"])
	}
	if _, ok := data["paymentUrl"]; ok {
		t.Fatalf("cod checkout must not return payment url")
	}
}

func TestGuestCheckoutRejectsBadRequests(t *testing.T) {
	f := newCheckoutHandlerFixture(t)
	product := f.createProduct(t, 120000, 1)

	if w, _ := f.do(http.MethodPost, "/checkout/guest", `{"items":`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body want 400 got %d", w.Code)
	}
	w, _ := f.do(http.MethodPost, "/checkout/guest", guestBody(product.ID, 3, constants.PaymentMethodCOD))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("insufficient stock want 400 got %d", w.Code)
	}
	w, _ = f.do(http.MethodPost, "/checkout/guest", guestBody(product.ID+100, 1, constants.PaymentMethodCOD))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown product want 404 got %d", w.Code)
	}
}

func TestGuestVNPayCheckoutAndReturn(t *testing.T) {
	f := newCheckoutHandlerFixture(t)
	product := f.createProduct(t, 250000, 4)

	w, data := f.do(http.MethodPost, "/checkout/guest", guestBody(product.ID, 2, constants.PaymentMethodVNPay))
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	paymentURL, _ := data["paymentUrl"].(string)
	txnRef, _ := data["transactionRef"].(string)
	orderID, _ := data["orderId"].(float64)
	if paymentURL == "" || txnRef == "" || orderID == 0 {
		t.Fatalf("online checkout should return redirect data, got %s", w.Body.String())
	}
	parsed, err := url.Parse(paymentURL)
	if err != nil {
		t.Fatalf("parse payment url failed: %v", err)
	}
	if parsed.Query().Get(vnpay.FieldTxnRef) != txnRef {
		t.Fatalf("payment url should carry txn ref %s", txnRef)
	}

	params := map[string]string{
		vnpay.FieldTxnRef:            txnRef,
		vnpay.FieldAmount:            strconv.FormatInt(50000000, 10),
		vnpay.FieldResponseCode:      "00",
		vnpay.FieldTransactionStatus: "00",
		vnpay.FieldTransactionNo:     "14000001",
		vnpay.FieldBankCode:          "NCB",
	}
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	signature := vnpay.Sign(handlerTestSecret, vnpay.CanonicalQuery(params))

	tampered := url.Values{}
	for key, values := range query {
		tampered[key] = values
	}
	tampered.Set(vnpay.FieldSecureHash, strings.Repeat("0", len(signature)))
	if w, _ := f.do(http.MethodGet, "/checkout/vnpay-return?"+tampered.Encode(), ""); w.Code != http.StatusBadRequest {
		t.Fatalf("forged signature want 400 got %d", w.Code)
	}
	var pending models.Order
	if err := f.db.First(&pending, uint(orderID)).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if pending.Status != constants.OrderStatusPending || pending.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("forged callback must not change order, got %s/%s", pending.Status, pending.PaymentStatus)
	}

	query.Set(vnpay.FieldSecureHash, signature)
	w, data = f.do(http.MethodGet, "/checkout/vnpay-return?"+query.Encode(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("valid callback want 200 got %d body=%s", w.Code, w.Body.String())
	}
	if data["status"] != constants.OrderStatusConfirmed || data["paymentStatus"] != constants.PaymentStatusPaid {
		t.Fatalf("unexpected state after callback: %v", data)
	}
	if processed, _ := data["alreadyProcessed"].(bool); processed {
		t.Fatalf("first callback should not be marked as processed")
	}

	w, data = f.do(http.MethodGet, "/checkout/vnpay-return?"+query.Encode(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("replayed callback want 200 got %d", w.Code)
	}
	if processed, _ := data["alreadyProcessed"].(bool); !processed {
		t.Fatalf("replayed callback should be idempotent, got %v", data)
	}
}
