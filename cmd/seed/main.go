package main

import (
	"time"

	"github.com/shopcore-next/internal/config"
	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/logger"
	"github.com/shopcore-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		LogSQL:                 cfg.Database.LogSQL,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品（价格单位：VND）
	products := []models.Product{
		{
			Slug:        "ao-thun-basic",
			Name:        "Áo thun basic",
			Description: "Áo thun cotton 100%, form rộng",
			Price:       models.NewMoneyFromInt(199000),
			Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			},
			Colors: models.ColorVariants{
				{Color: "Trắng", Price: models.NewMoneyFromInt(199000)},
				{Color: "Đen", Price: models.NewMoneyFromInt(219000)},
			},
			Stock:    120,
			IsActive: true,
		},
		{
			Slug:        "binh-giu-nhiet",
			Name:        "Bình giữ nhiệt 500ml",
			Description: "Giữ nóng 12 giờ, giữ lạnh 24 giờ",
			Price:       models.NewMoneyFromInt(350000),
			Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=800",
			Stock:       40,
			IsActive:    true,
		},
		{
			Slug:        "tai-nghe-khong-day",
			Name:        "Tai nghe không dây",
			Description: "Bluetooth 5.3, chống ồn chủ động",
			Price:       models.NewMoneyFromInt(1290000),
			Image:       "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			Colors: models.ColorVariants{
				{Color: "Xanh", Price: models.NewMoneyFromInt(1350000), Image: "https://images.unsplash.com/photo-1606220588913-b3aacb4d2f46?w=800"},
			},
			Stock:    15,
			IsActive: true,
		},
		{
			Slug:        "so-tay-da",
			Name:        "Sổ tay bìa da",
			Description: "Ngừng kinh doanh",
			Price:       models.NewMoneyFromInt(89000),
			Stock:       0,
			IsActive:    false,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.Slug)
			continue
		}
		isActive := product.IsActive
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			continue
		}
		// is_active 默认值为 true，下架商品需显式更新
		if !isActive {
			models.DB.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false)
		}
		stdLog.Printf("Created product: %s", product.Slug)
	}

	// 添加折扣码
	now := time.Now()
	end := now.AddDate(0, 3, 0)
	discounts := []models.Discount{
		{
			Code:        "WELCOME10",
			Type:        constants.DiscountTypePercent,
			Value:       models.NewMoneyFromInt(10),
			MaxDiscount: models.NewMoneyFromInt(100000),
			IsActive:    true,
		},
		{
			Code:       "FREESHIP50K",
			Type:       constants.DiscountTypeFixed,
			Value:      models.NewMoneyFromInt(50000),
			MinOrder:   models.NewMoneyFromInt(500000),
			UsageLimit: 100,
			StartDate:  &now,
			EndDate:    &end,
			IsActive:   true,
		},
	}
	for _, discount := range discounts {
		var existing models.Discount
		if err := models.DB.Where("code = ?", discount.Code).First(&existing).Error; err == nil {
			stdLog.Printf("Discount already exists: %s", discount.Code)
			continue
		}
		if err := models.DB.Create(&discount).Error; err != nil {
			stdLog.Printf("Failed to create discount %s: %v", discount.Code, err)
			continue
		}
		stdLog.Printf("Created discount: %s", discount.Code)
	}

	// 添加演示用户
	var userCount int64
	models.DB.Model(&models.User{}).Where("email = ?", "demo@shopcore.local").Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", err)
		}
		user := models.User{
			Email:        "demo@shopcore.local",
			PasswordHash: string(hash),
			Name:         "Nguyễn Văn Demo",
			Phone:        "0901234567",
			Address:      "12 Lê Lợi, Quận 1, TP.HCM",
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create demo user: %v", err)
		} else {
			stdLog.Printf("Created demo user: %s", user.Email)
		}
	}

	stdLog.Println("Seed completed")
}
