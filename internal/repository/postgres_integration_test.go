//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.DiscountUsage{},
		&models.Order{},
		&models.Discount{},
		&models.Product{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Discount{},
		&models.DiscountUsage{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresConcurrentStockDecrement(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &models.Product{Slug: "pg-last-unit", Name: "Last unit", Price: models.NewMoneyFromInt(100000), Stock: 1, IsActive: true}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.DecrementStock(ctx, product.ID, 1)
			if err != nil {
				t.Errorf("decrement failed: %v", err)
				return
			}
			if affected == 1 {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if succeeded != 1 {
		t.Fatalf("exactly one decrement should win, got %d", succeeded)
	}
}

func TestPostgresConcurrentDiscountIncrement(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewDiscountRepository(db)
	ctx := context.Background()

	discount := &models.Discount{Code: "PGLIMIT", Type: constants.DiscountTypeFixed, Value: models.NewMoneyFromInt(1000), UsageLimit: 3, IsActive: true}
	if err := repo.Create(ctx, discount); err != nil {
		t.Fatalf("create discount failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementUsedCount(ctx, discount.ID); err != nil {
				t.Errorf("increment failed: %v", err)
			}
		}()
	}
	wg.Wait()

	reloaded, err := repo.GetByID(ctx, discount.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if reloaded.UsedCount != 3 {
		t.Fatalf("used count must stop at usage limit, got %d", reloaded.UsedCount)
	}
}
