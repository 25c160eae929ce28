package repository

import (
	"context"
	"errors"

	"github.com/shopcore-next/internal/models"

	"gorm.io/gorm"
)

// DiscountRepository 折扣码数据访问接口
type DiscountRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Discount, error)
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
	Create(ctx context.Context, discount *models.Discount) error
	Update(ctx context.Context, discount *models.Discount) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter DiscountListFilter) ([]models.Discount, int64, error)
	IncrementUsedCount(ctx context.Context, id uint) (int64, error)
	DecrementUsedCount(ctx context.Context, id uint) error
	WithTx(tx *gorm.DB) DiscountRepository
}

// GormDiscountRepository GORM 实现
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository 创建折扣码仓库
func NewDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountRepository) WithTx(tx *gorm.DB) DiscountRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountRepository{db: tx}
}

// GetByID 根据 ID 获取折扣码
func (r *GormDiscountRepository) GetByID(ctx context.Context, id uint) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// GetByCode 根据折扣码精确查找（调用方负责归一化）
func (r *GormDiscountRepository) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// Create 创建折扣码
func (r *GormDiscountRepository) Create(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

// Update 更新折扣码配置，不覆盖已使用次数
func (r *GormDiscountRepository) Update(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).Model(discount).
		Select("code", "type", "value", "min_order", "max_discount", "usage_limit", "start_date", "end_date", "is_active", "updated_at").
		Updates(discount).Error
}

// Delete 删除折扣码
func (r *GormDiscountRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Discount{}, id).Error
}

// List 获取折扣码列表
func (r *GormDiscountRepository) List(ctx context.Context, filter DiscountListFilter) ([]models.Discount, int64, error) {
	var discounts []models.Discount
	query := r.db.WithContext(ctx).Model(&models.Discount{})

	if filter.Code != "" {
		cond, arg := containsCondition(r.db, "code", filter.Code)
		query = query.Where(cond, arg)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&discounts).Error; err != nil {
		return nil, 0, err
	}
	return discounts, total, nil
}

// IncrementUsedCount 条件增加使用次数，达到上限时影响行数为 0
func (r *GormDiscountRepository) IncrementUsedCount(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Discount{}).
		Where("id = ?", id).
		Where("usage_limit = 0 OR used_count < usage_limit").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementUsedCount 释放一次使用次数
func (r *GormDiscountRepository) DecrementUsedCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Discount{}).
		Where("id = ?", id).
		Where("used_count >= 1").
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
