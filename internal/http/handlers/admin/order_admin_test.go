package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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

type adminOrderFixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newAdminOrderFixture(t *testing.T) *adminOrderFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		Secret:       "admin-handler-secret",
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
	dispatcher := service.NewOrderEventDispatcher(nil, events.NopPublisher{})
	payments := service.NewPaymentService(orders, products, carts, discounts, usages, gateway, dispatcher, nil)

	h := New(&provider.Container{
		CheckoutService: service.NewCheckoutService(orders, products, carts, discounts, usages,
			repository.NewUserRepository(db), service.NewDiscountService(discounts), gateway, nil, dispatcher, nil, 15),
		PaymentService: payments,
		OrderService:   service.NewOrderService(orders, payments, dispatcher),
	})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("admin_id", uint(1))
		c.Next()
	})
	r.POST("/orders/admin/offline", h.AdminCreateOfflineOrder)
	r.PATCH("/admin/orders/:id/status", h.AdminUpdateOrderStatus)
	return &adminOrderFixture{db: db, engine: r}
}

func (f *adminOrderFixture) createProduct(t *testing.T, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:     fmt.Sprintf("admin-%d", time.Now().UnixNano()),
		Name:     "Bàn gỗ",
		Price:    models.NewMoneyFromInt(300000),
		Stock:    stock,
		IsActive: true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *adminOrderFixture) stock(t *testing.T, id uint) int {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func (f *adminOrderFixture) do(method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	data, _ := resp["data"].(map[string]interface{})
	return w, data
}

func offlineBody(productID uint, extra string) string {
	return fmt.Sprintf(`{"items":[{"productId":%d,"quantity":1}],"name":"Khách tại quầy"%s}`, productID, extra)
}

func TestAdminCreateOfflineOrderDefaults(t *testing.T) {
	f := newAdminOrderFixture(t)
	product := f.createProduct(t, 2)

	w, data := f.do(http.MethodPost, "/orders/admin/offline", offlineBody(product.ID, `,"paymentMethod":"cod"`))
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	order, _ := data["order"].(map[string]interface{})
	if order == nil {
		t.Fatalf("response should carry order, got %s", w.Body.String())
	}
	if order["status"] != constants.OrderStatusConfirmed || order["paymentStatus"] != constants.PaymentStatusPaid {
		t.Fatalf("admin order should default to confirmed/paid, got %v/%v", order["status"], order["paymentStatus"])
	}
	if f.stock(t, product.ID) != 1 {
		t.Fatalf("admin order should reserve stock")
	}
}

func TestAdminCreateOfflineOrderRejectsOnlinePayment(t *testing.T) {
	f := newAdminOrderFixture(t)
	product := f.createProduct(t, 2)

	w, _ := f.do(http.MethodPost, "/orders/admin/offline", offlineBody(product.ID, `,"paymentMethod":"vnpay"`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d body=%s", w.Code, w.Body.String())
	}
	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 || f.stock(t, product.ID) != 2 {
		t.Fatalf("rejected request must not create order or reserve stock, orders=%d", count)
	}
}

func TestAdminCancelOrderRestoresStock(t *testing.T) {
	f := newAdminOrderFixture(t)
	product := f.createProduct(t, 3)

	w, data := f.do(http.MethodPost, "/orders/admin/offline", offlineBody(product.ID, `,"paymentStatus":"pending"`))
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	order, _ := data["order"].(map[string]interface{})
	orderID, _ := order["_id"].(float64)
	if orderID == 0 {
		t.Fatalf("missing order id in %s", w.Body.String())
	}
	if f.stock(t, product.ID) != 2 {
		t.Fatalf("order should reserve one unit")
	}

	w, data = f.do(http.MethodPatch, fmt.Sprintf("/admin/orders/%d/status", uint(orderID)), `{"status":"cancelled"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	if data["status"] != constants.OrderStatusCancelled {
		t.Fatalf("unexpected status %v", data["status"])
	}
	if got := f.stock(t, product.ID); got != 3 {
		t.Fatalf("cancel should restore stock to 3, got %d", got)
	}

	w, _ = f.do(http.MethodPost, "/orders/admin/offline", offlineBody(product.ID, `,"status":"cancelled"`))
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	if got := f.stock(t, product.ID); got != 3 {
		t.Fatalf("order created as cancelled must not reserve stock, got %d", got)
	}
}
