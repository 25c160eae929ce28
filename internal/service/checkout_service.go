package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/metrics"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/payment/vnpay"
	"github.com/shopcore-next/internal/queue"
	"github.com/shopcore-next/internal/repository"

	"gorm.io/gorm"
)

// OrderSource 下单来源，取值为 FromCart / FromGuestItems / FromAdminItems
type OrderSource interface {
	sourceName() string
}

// FromCart 登录用户购物车下单
type FromCart struct {
	UserID uint
}

// FromGuestItems 游客直接提交商品下单
type FromGuestItems struct {
	Items []CheckoutItem
}

// FromAdminItems 管理员代客线下下单，可显式指定初始状态
type FromAdminItems struct {
	Items         []CheckoutItem
	AdminID       uint
	Status        string
	PaymentStatus string
}

func (FromCart) sourceName() string       { return constants.OrderSourceCart }
func (FromGuestItems) sourceName() string { return constants.OrderSourceGuest }
func (FromAdminItems) sourceName() string { return constants.OrderSourceAdmin }

// CheckoutItem 下单商品
type CheckoutItem struct {
	ProductID uint
	Quantity  int
	Color     string
}

// CustomerInfo 收货人信息
type CustomerInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CheckoutInput 下单输入
type CheckoutInput struct {
	Source        OrderSource
	PaymentMethod string
	DiscountCode  string
	Customer      CustomerInfo
	ClientIP      string
	Locale        string
	BankCode      string
}

// CheckoutResult 下单结果，线上支付时带跳转地址
type CheckoutResult struct {
	Order          *models.Order
	PaymentURL     string
	TransactionRef string
}

// checkoutLine 已解析的下单行
type checkoutLine struct {
	ProductID uint
	Name      string
	Image     string
	Color     string
	Price     models.Money
	Quantity  int
}

// CheckoutService 下单编排服务
type CheckoutService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cartRepo      repository.CartRepository
	discountRepo  repository.DiscountRepository
	usageRepo     repository.DiscountUsageRepository
	userRepo      repository.UserRepository
	discounts     *DiscountService
	gateway       *vnpay.Config
	queueClient   *queue.Client
	dispatcher    *OrderEventDispatcher
	metrics       *metrics.Metrics
	expireMinutes int
	now           func() time.Time
}

// NewCheckoutService 创建下单编排服务
func NewCheckoutService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, discountRepo repository.DiscountRepository, usageRepo repository.DiscountUsageRepository, userRepo repository.UserRepository, discounts *DiscountService, gateway *vnpay.Config, queueClient *queue.Client, dispatcher *OrderEventDispatcher, m *metrics.Metrics, expireMinutes int) *CheckoutService {
	if expireMinutes <= 0 {
		expireMinutes = 15
	}
	return &CheckoutService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		discountRepo:  discountRepo,
		usageRepo:     usageRepo,
		userRepo:      userRepo,
		discounts:     discounts,
		gateway:       gateway,
		queueClient:   queueClient,
		dispatcher:    dispatcher,
		metrics:       m,
		expireMinutes: expireMinutes,
		now:           time.Now,
	}
}

// SetClock 替换时钟
func (s *CheckoutService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Checkout 执行下单：解析商品、校验库存与折扣、计算金额、单事务落库
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if input.Source == nil {
		return nil, ErrCheckoutItemsEmpty
	}
	source := input.Source.sourceName()
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	result, err := s.checkout(ctx, input, method)
	s.metrics.ObserveCheckout(source, method, checkoutResultLabel(err))
	if err != nil {
		logger.Ctx(ctx).Infow("checkout_rejected",
			"source", source,
			"payment_method", method,
			"error", err,
		)
		return nil, err
	}
	return result, nil
}

func (s *CheckoutService) checkout(ctx context.Context, input CheckoutInput, method string) (*CheckoutResult, error) {
	var (
		userID    *uint
		createdBy *uint
		cartOwner uint
		lines     []checkoutLine
		customer  CustomerInfo
		err       error
	)

	switch src := input.Source.(type) {
	case FromCart:
		if method != constants.PaymentMethodCOD && method != constants.PaymentMethodVNPay {
			return nil, ErrPaymentMethodInvalid
		}
		customer, err = s.resolveCartCustomer(ctx, src.UserID, input.Customer)
		if err != nil {
			return nil, err
		}
		lines, err = s.resolveCartLines(ctx, src.UserID)
		if err != nil {
			return nil, err
		}
		uid := src.UserID
		userID = &uid
		cartOwner = src.UserID
	case FromGuestItems:
		if method != constants.PaymentMethodCOD && method != constants.PaymentMethodVNPay {
			return nil, ErrPaymentMethodInvalid
		}
		customer, err = normalizeCustomer(input.Customer, true)
		if err != nil {
			return nil, err
		}
		lines, err = s.resolveCatalogLines(ctx, src.Items)
		if err != nil {
			return nil, err
		}
	case FromAdminItems:
		if method == "" {
			method = constants.PaymentMethodOffline
		}
		// 后台下单不产生支付跳转，在线支付方式无人可付
		if !IsValidPaymentMethod(method) || method == constants.PaymentMethodVNPay {
			return nil, ErrPaymentMethodInvalid
		}
		customer, err = normalizeCustomer(input.Customer, false)
		if err != nil {
			return nil, err
		}
		lines, err = s.resolveCatalogLines(ctx, src.Items)
		if err != nil {
			return nil, err
		}
		if src.AdminID != 0 {
			aid := src.AdminID
			createdBy = &aid
		}
	default:
		return nil, ErrCheckoutItemsEmpty
	}

	totalsInput := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		totalsInput = append(totalsInput, LineItem{Price: line.Price.Decimal, Quantity: line.Quantity})
	}
	subtotal := CalculateTotals(totalsInput, nil).Subtotal

	var discount *models.Discount
	if code := NormalizeDiscountCode(input.DiscountCode); code != "" {
		discount, err = s.discounts.Validate(ctx, code, subtotal)
		if err != nil {
			return nil, err
		}
	}
	totals := CalculateTotals(totalsInput, discount)

	state := InitialOrderState(method)
	if admin, ok := input.Source.(FromAdminItems); ok {
		state, err = applyStateOverrides(AdminInitialOrderState(), admin.Status, admin.PaymentStatus)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	order := &models.Order{
		OrderNo:         generateOrderNo(now),
		UserID:          userID,
		UserName:        customer.Name,
		UserEmail:       customer.Email,
		UserPhone:       customer.Phone,
		ShippingAddress: customer.Address,
		Source:          input.Source.sourceName(),
		Subtotal:        models.NewMoneyFromDecimal(totals.Subtotal),
		Discount:        models.NewMoneyFromDecimal(totals.Discount),
		ShippingFee:     models.NewMoneyFromDecimal(totals.ShippingFee),
		Tax:             models.NewMoneyFromDecimal(totals.Tax),
		Total:           models.NewMoneyFromDecimal(totals.Total),
		FinalTotal:      models.NewMoneyFromDecimal(totals.FinalTotal),
		Status:          state.Status,
		PaymentStatus:   state.PaymentStatus,
		PaymentMethod:   method,
		CreatedBy:       createdBy,
	}
	if discount != nil {
		order.DiscountCode = discount.Code
		discountID := discount.ID
		order.DiscountID = &discountID
	}
	if state.PaymentStatus == constants.PaymentStatusPaid {
		paidAt := now
		order.PaidAt = &paidAt
	}
	if state.Status == constants.OrderStatusCancelled {
		cancelledAt := now
		order.CancelledAt = &cancelledAt
	}

	online := method == constants.PaymentMethodVNPay && state.PaymentStatus == constants.PaymentStatusPending
	var paymentURL, txnRef string
	if online {
		paymentURL, txnRef, err = s.buildPaymentRedirect(order, input, now)
		if err != nil {
			return nil, err
		}
		order.PaymentIntentID = &txnRef
		expiresAt := now.Add(time.Duration(s.expireMinutes) * time.Minute)
		order.ExpiresAt = &expiresAt
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Color:     line.Color,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	clearCart := cartOwner != 0 && method == constants.PaymentMethodCOD
	// 创建即取消的订单不占用库存与折扣次数
	reserve := state.Status != constants.OrderStatusCancelled

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(ctx, order, items); err != nil {
			return err
		}
		if !reserve {
			return nil
		}
		if err := reserveStock(ctx, s.productRepo.WithTx(tx), lines); err != nil {
			return err
		}
		if discount != nil {
			affected, err := s.discountRepo.WithTx(tx).IncrementUsedCount(ctx, discount.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrDiscountLimit
			}
			usage := &models.DiscountUsage{
				DiscountID: discount.ID,
				OrderID:    order.ID,
				UserID:     userID,
				Amount:     order.Discount,
			}
			if err := s.usageRepo.WithTx(tx).Create(ctx, usage); err != nil {
				return err
			}
		}
		if clearCart {
			if err := s.cartRepo.WithTx(tx).ClearByUser(ctx, cartOwner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrDiscountLimit) {
			return nil, err
		}
		logger.Ctx(ctx).Errorw("checkout_transaction_failed",
			"order_no", order.OrderNo,
			"source", order.Source,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	logger.Ctx(ctx).Infow("checkout_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"source", order.Source,
		"payment_method", order.PaymentMethod,
		"final_total", order.FinalTotal.String(),
	)

	if online && s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
			OrderID: order.ID,
		}, time.Duration(s.expireMinutes)*time.Minute); err != nil {
			logger.Ctx(ctx).Errorw("order_enqueue_timeout_cancel_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}
	s.dispatcher.Dispatch(ctx, events.EventTypeOrderCreated, order)
	if order.PaymentStatus == constants.PaymentStatusPaid {
		s.dispatcher.Dispatch(ctx, events.EventTypeOrderPaid, order)
	}

	return &CheckoutResult{Order: order, PaymentURL: paymentURL, TransactionRef: txnRef}, nil
}

func (s *CheckoutService) buildPaymentRedirect(order *models.Order, input CheckoutInput, now time.Time) (string, string, error) {
	if s.gateway == nil {
		return "", "", ErrGatewayNotConfigured
	}
	if !order.FinalTotal.Decimal.IsPositive() {
		return "", "", ErrPaymentAmountInvalid
	}
	txnRef := vnpay.NewTxnRef()
	paymentURL, err := vnpay.BuildPaymentURL(s.gateway, vnpay.PaymentRequest{
		TxnRef:    txnRef,
		Amount:    order.FinalTotal.Decimal,
		OrderInfo: fmt.Sprintf("Thanh toan don hang %s", order.OrderNo),
		ClientIP:  input.ClientIP,
		Locale:    gatewayLocale(input.Locale),
		BankCode:  input.BankCode,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, vnpay.ErrConfigInvalid) {
			return "", "", fmt.Errorf("%w: %v", ErrGatewayNotConfigured, err)
		}
		return "", "", err
	}
	return paymentURL, txnRef, nil
}

func (s *CheckoutService) resolveCartCustomer(ctx context.Context, userID uint, override CustomerInfo) (CustomerInfo, error) {
	if userID == 0 {
		return CustomerInfo{}, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return CustomerInfo{}, err
	}
	if user == nil {
		return CustomerInfo{}, ErrUserNotFound
	}
	if !strings.EqualFold(strings.TrimSpace(user.Status), constants.UserStatusActive) {
		return CustomerInfo{}, ErrUserDisabled
	}
	customer := CustomerInfo{
		Name:    firstNonEmpty(override.Name, user.Name),
		Email:   user.Email,
		Phone:   firstNonEmpty(override.Phone, user.Phone),
		Address: firstNonEmpty(override.Address, user.Address),
	}
	if customer.Name == "" {
		customer.Name = user.Email
	}
	return customer, nil
}

func (s *CheckoutService) resolveCartLines(ctx context.Context, userID uint) ([]checkoutLine, error) {
	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}
	requests := make([]StockRequest, 0, len(cartItems))
	lines := make([]checkoutLine, 0, len(cartItems))
	for _, item := range cartItems {
		requests = append(requests, StockRequest{ProductID: item.ProductID, Quantity: item.Quantity})
		lines = append(lines, checkoutLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Color:     item.Color,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	if _, err := ValidateStock(ctx, s.productRepo, requests); err != nil {
		return nil, err
	}
	return lines, nil
}

// resolveCatalogLines 按实时商品目录解析单价（颜色规格价优先）
func (s *CheckoutService) resolveCatalogLines(ctx context.Context, items []CheckoutItem) ([]checkoutLine, error) {
	if len(items) == 0 {
		return nil, ErrCheckoutItemsEmpty
	}
	requests := make([]StockRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, StockRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	products, err := ValidateStock(ctx, s.productRepo, requests)
	if err != nil {
		return nil, err
	}
	lines := make([]checkoutLine, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]
		price, image := product.ResolvePrice(item.Color)
		lines = append(lines, checkoutLine{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     image,
			Color:     strings.TrimSpace(item.Color),
			Price:     price,
			Quantity:  item.Quantity,
		})
	}
	return lines, nil
}

// reserveStock 条件扣减库存，扣减失败视为库存不足
func reserveStock(ctx context.Context, repo repository.ProductRepository, lines []checkoutLine) error {
	demand := make(map[uint]int, len(lines))
	order := make([]uint, 0, len(lines))
	names := make(map[uint]string, len(lines))
	for _, line := range lines {
		if _, ok := demand[line.ProductID]; !ok {
			order = append(order, line.ProductID)
			names[line.ProductID] = line.Name
		}
		demand[line.ProductID] += line.Quantity
	}
	for _, productID := range order {
		affected, err := repo.DecrementStock(ctx, productID, demand[productID])
		if err != nil {
			return err
		}
		if affected > 0 {
			continue
		}
		available := -1
		if product, err := repo.GetByID(ctx, productID); err == nil && product != nil {
			available = product.Stock
			names[productID] = product.Name
		}
		return &InsufficientStockError{
			ProductID:   productID,
			ProductName: names[productID],
			Requested:   demand[productID],
			Available:   available,
		}
	}
	return nil
}

func applyStateOverrides(state OrderState, status, paymentStatus string) (OrderState, error) {
	if normalized := normalizeState(status); normalized != "" {
		if !IsValidOrderStatus(normalized) {
			return state, ErrOrderStatusInvalid
		}
		state.Status = normalized
	}
	if normalized := normalizeState(paymentStatus); normalized != "" {
		if !IsValidPaymentStatus(normalized) {
			return state, ErrPaymentStatusInvalid
		}
		state.PaymentStatus = normalized
	}
	return state, nil
}

// normalizeCustomer 游客下单四项信息必填，后台下单仅要求姓名
func normalizeCustomer(raw CustomerInfo, requireAll bool) (CustomerInfo, error) {
	customer := CustomerInfo{
		Name:    strings.TrimSpace(raw.Name),
		Email:   strings.ToLower(strings.TrimSpace(raw.Email)),
		Phone:   strings.TrimSpace(raw.Phone),
		Address: strings.TrimSpace(raw.Address),
	}
	if customer.Name == "" {
		return customer, ErrCustomerInfoRequired
	}
	if requireAll && (customer.Email == "" || customer.Phone == "" || customer.Address == "") {
		return customer, ErrCustomerInfoRequired
	}
	if customer.Email != "" {
		if _, err := mail.ParseAddress(customer.Email); err != nil {
			return customer, ErrInvalidEmail
		}
	}
	return customer, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// gatewayLocale 网关仅支持 vn / en
func gatewayLocale(locale string) string {
	normalized := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case normalized == "":
		return ""
	case strings.HasPrefix(normalized, "en"):
		return "en"
	default:
		return "vn"
	}
}

func checkoutResultLabel(err error) string {
	var stockErr *InsufficientStockError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.Is(err, ErrDiscountLimit),
		errors.Is(err, ErrDiscountInvalidCode),
		errors.Is(err, ErrDiscountNotStarted),
		errors.Is(err, ErrDiscountExpired),
		errors.Is(err, ErrDiscountBelowMin):
		return "discount_rejected"
	case errors.Is(err, ErrOrderCreateFailed):
		return "error"
	default:
		return "invalid"
	}
}

func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("SC%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
