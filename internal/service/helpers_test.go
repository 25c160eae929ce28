package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/payment/vnpay"
	"github.com/shopcore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testGatewaySecret = "test-hash-secret"

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 单连接：事务串行执行，避免共享缓存模式下的表锁错误
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
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
	return db
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

type serviceFixture struct {
	db        *gorm.DB
	now       time.Time
	gateway   *vnpay.Config
	publisher *recordingPublisher
	products  *repository.GormProductRepository
	orders    *repository.GormOrderRepository
	carts     *repository.GormCartRepository
	discounts *repository.GormDiscountRepository
	usages    *repository.GormDiscountUsageRepository
	users     *repository.GormUserRepository

	discountService *DiscountService
	checkout        *CheckoutService
	payments        *PaymentService
	orderService    *OrderService
	cartService     *CartService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	f := &serviceFixture{
		db:  db,
		now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		gateway: &vnpay.Config{
			MerchantCode: "SHOPTEST",
			Secret:       testGatewaySecret,
			BaseURL:      "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:    "http://localhost:8080/api/v1/payments/vnpay-return",
			Version:      "2.1.0",
			Locale:       "vn",
			CurrencyCode: "VND",
			OrderType:    "other",
		},
		publisher: &recordingPublisher{},
		products:  repository.NewProductRepository(db),
		orders:    repository.NewOrderRepository(db),
		carts:     repository.NewCartRepository(db),
		discounts: repository.NewDiscountRepository(db),
		usages:    repository.NewDiscountUsageRepository(db),
		users:     repository.NewUserRepository(db),
	}
	clock := func() time.Time { return f.now }
	dispatcher := NewOrderEventDispatcher(nil, f.publisher)

	f.discountService = NewDiscountService(f.discounts)
	f.discountService.SetClock(clock)
	f.checkout = NewCheckoutService(f.orders, f.products, f.carts, f.discounts, f.usages, f.users,
		f.discountService, f.gateway, nil, dispatcher, nil, 15)
	f.checkout.SetClock(clock)
	f.payments = NewPaymentService(f.orders, f.products, f.carts, f.discounts, f.usages, f.gateway, dispatcher, nil)
	f.payments.SetClock(clock)
	f.orderService = NewOrderService(f.orders, f.payments, dispatcher)
	f.orderService.now = clock
	f.cartService = NewCartService(f.carts, f.products)
	return f
}

func (f *serviceFixture) createProduct(t *testing.T, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:     slug,
		Name:     "Product " + slug,
		Price:    models.NewMoneyFromInt(price),
		Image:    "/img/" + slug + ".png",
		Stock:    stock,
		IsActive: true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *serviceFixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Nguyen Van A",
		Phone:        "0900000000",
		Address:      "1 Le Loi, Ha Noi",
		Status:       constants.UserStatusActive,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (f *serviceFixture) createDiscount(t *testing.T, discount models.Discount) *models.Discount {
	t.Helper()
	if err := f.db.Create(&discount).Error; err != nil {
		t.Fatalf("create discount failed: %v", err)
	}
	return &discount
}

func (f *serviceFixture) productStock(t *testing.T, id uint) int {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func (f *serviceFixture) reloadOrder(t *testing.T, id uint) *models.Order {
	t.Helper()
	order, err := f.orders.GetByID(context.Background(), id)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order
}

func (f *serviceFixture) countCartItems(t *testing.T, userID uint) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	return count
}

// signedReturn 构造带合法签名的回跳参数
func signedReturn(txnRef string, amount decimal.Decimal, responseCode string) url.Values {
	params := map[string]string{
		vnpay.FieldTxnRef:            txnRef,
		vnpay.FieldAmount:            strconv.FormatInt(vnpay.ToMinorUnits(amount), 10),
		vnpay.FieldResponseCode:      responseCode,
		vnpay.FieldTransactionStatus: responseCode,
		vnpay.FieldTransactionNo:     "14123456",
		vnpay.FieldBankCode:          "NCB",
		vnpay.FieldPayDate:           "20260301101500",
	}
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	query.Set(vnpay.FieldSecureHash, vnpay.Sign(testGatewaySecret, vnpay.CanonicalQuery(params)))
	return query
}

func guestCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "Tran Thi B",
		Email:   "guest@example.com",
		Phone:   "0911111111",
		Address: "2 Tran Hung Dao, Da Nang",
	}
}
