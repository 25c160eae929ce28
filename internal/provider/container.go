package provider

import (
	"github.com/shopcore-next/internal/authz"
	"github.com/shopcore-next/internal/cache"
	"github.com/shopcore-next/internal/config"
	"github.com/shopcore-next/internal/events"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/metrics"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/payment/vnpay"
	"github.com/shopcore-next/internal/queue"
	"github.com/shopcore-next/internal/repository"
	"github.com/shopcore-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	EventPublisher events.Publisher
	Metrics        *metrics.Metrics
	Gateway        *vnpay.Config

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	OrderRepo         repository.OrderRepository
	ProductRepo       repository.ProductRepository
	CartRepo          repository.CartRepository
	DiscountRepo      repository.DiscountRepository
	DiscountUsageRepo repository.DiscountUsageRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserAuthService *service.UserAuthService
	CaptchaService  *service.CaptchaService
	DiscountService *service.DiscountService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	PaymentService  *service.PaymentService
	OrderService    *service.OrderService
	Dispatcher      *service.OrderEventDispatcher
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		EventPublisher: events.NewPublisher(&cfg.Kafka),
		Metrics:        metrics.New(cfg.Metrics.Namespace),
		Gateway:        BuildGatewayConfig(cfg.Gateway),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// BuildGatewayConfig 转换网关配置，配置不完整时返回 nil（在线支付不可用）
func BuildGatewayConfig(cfg config.GatewayConfig) *vnpay.Config {
	gateway := &vnpay.Config{
		MerchantCode:  cfg.MerchantCode,
		Secret:        cfg.Secret,
		BaseURL:       cfg.BaseURL,
		ReturnURL:     cfg.ReturnURL,
		Version:       cfg.Version,
		Locale:        cfg.Locale,
		CurrencyCode:  cfg.CurrencyCode,
		OrderType:     cfg.OrderType,
		ExpireMinutes: cfg.ExpireMinutes,
	}
	if err := vnpay.ValidateConfig(gateway); err != nil {
		logger.Warnw("provider_gateway_disabled", "error", err)
		return nil
	}
	return gateway
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.DiscountRepo = repository.NewDiscountRepository(db)
	c.DiscountUsageRepo = repository.NewDiscountUsageRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.Dispatcher = service.NewOrderEventDispatcher(c.QueueClient, c.EventPublisher)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config.JWT, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config.UserJWT, c.UserRepo)
	c.DiscountService = service.NewDiscountService(c.DiscountRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.OrderRepo, c.ProductRepo, c.CartRepo, c.DiscountRepo, c.DiscountUsageRepo, c.UserRepo,
		c.DiscountService, c.Gateway, c.QueueClient, c.Dispatcher, c.Metrics,
		c.Config.Order.PaymentExpireMinutes,
	)
	c.PaymentService = service.NewPaymentService(
		c.OrderRepo, c.ProductRepo, c.CartRepo, c.DiscountRepo, c.DiscountUsageRepo,
		c.Gateway, c.Dispatcher, c.Metrics,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.PaymentService, c.Dispatcher)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
