package repository

import (
	"context"
	"errors"

	"github.com/shopcore-next/internal/models"

	"gorm.io/gorm"
)

// DiscountUsageRepository 折扣使用记录数据访问接口
type DiscountUsageRepository interface {
	Create(ctx context.Context, usage *models.DiscountUsage) error
	GetByOrderID(ctx context.Context, orderID uint) (*models.DiscountUsage, error)
	DeleteByOrderID(ctx context.Context, orderID uint) (int64, error)
	WithTx(tx *gorm.DB) DiscountUsageRepository
}

// GormDiscountUsageRepository GORM 实现
type GormDiscountUsageRepository struct {
	db *gorm.DB
}

// NewDiscountUsageRepository 创建折扣使用记录仓库
func NewDiscountUsageRepository(db *gorm.DB) *GormDiscountUsageRepository {
	return &GormDiscountUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountUsageRepository) WithTx(tx *gorm.DB) DiscountUsageRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormDiscountUsageRepository) Create(ctx context.Context, usage *models.DiscountUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

// GetByOrderID 获取订单的折扣使用记录
func (r *GormDiscountUsageRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.DiscountUsage, error) {
	var usage models.DiscountUsage
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&usage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usage, nil
}

// DeleteByOrderID 删除订单的折扣使用记录，返回删除行数
func (r *GormDiscountUsageRepository) DeleteByOrderID(ctx context.Context, orderID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.DiscountUsage{})
	return result.RowsAffected, result.Error
}
