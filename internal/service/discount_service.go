package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// DiscountService 折扣码服务
type DiscountService struct {
	repo repository.DiscountRepository
	now  func() time.Time
}

// NewDiscountService 创建折扣码服务
func NewDiscountService(repo repository.DiscountRepository) *DiscountService {
	return &DiscountService{repo: repo, now: time.Now}
}

// SetClock 替换时钟
func (s *DiscountService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// NormalizeDiscountCode 去除首尾空白并转为大写
func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate 校验折扣码是否可用于给定小计，不修改使用次数
func (s *DiscountService) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Discount, error) {
	normalized := NormalizeDiscountCode(code)
	if normalized == "" {
		return nil, ErrDiscountInvalidCode
	}
	discount, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if discount == nil || !discount.IsActive {
		return nil, ErrDiscountInvalidCode
	}
	if err := checkDiscountRules(discount, subtotal, s.now()); err != nil {
		return nil, err
	}
	return discount, nil
}

func checkDiscountRules(discount *models.Discount, subtotal decimal.Decimal, now time.Time) error {
	if discount.StartDate != nil && discount.StartDate.After(now) {
		return ErrDiscountNotStarted
	}
	if discount.EndDate != nil && discount.EndDate.Before(now) {
		return ErrDiscountExpired
	}
	if subtotal.LessThan(discount.MinOrder.Decimal) {
		return ErrDiscountBelowMin
	}
	if discount.UsageLimit > 0 && discount.UsedCount >= discount.UsageLimit {
		return ErrDiscountLimit
	}
	return nil
}

// DiscountInput 创建/更新折扣码输入
type DiscountInput struct {
	Code        string
	Type        string
	Value       models.Money
	MinOrder    models.Money
	MaxDiscount models.Money
	UsageLimit  int
	StartDate   *time.Time
	EndDate     *time.Time
	IsActive    *bool
}

func (in DiscountInput) normalize() (string, string, error) {
	code := NormalizeDiscountCode(in.Code)
	if code == "" {
		return "", "", ErrDiscountPayloadInvalid
	}
	discountType := strings.ToLower(strings.TrimSpace(in.Type))
	if discountType != constants.DiscountTypePercent && discountType != constants.DiscountTypeFixed {
		return "", "", ErrDiscountPayloadInvalid
	}
	if !in.Value.Decimal.IsPositive() {
		return "", "", ErrDiscountPayloadInvalid
	}
	if discountType == constants.DiscountTypePercent && in.Value.Decimal.GreaterThan(hundred) {
		return "", "", ErrDiscountPayloadInvalid
	}
	if in.MinOrder.Decimal.IsNegative() || in.MaxDiscount.Decimal.IsNegative() || in.UsageLimit < 0 {
		return "", "", ErrDiscountPayloadInvalid
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return "", "", ErrDiscountPayloadInvalid
	}
	return code, discountType, nil
}

// Create 创建折扣码
func (s *DiscountService) Create(ctx context.Context, input DiscountInput) (*models.Discount, error) {
	code, discountType, err := input.normalize()
	if err != nil {
		return nil, err
	}
	exist, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrDiscountCodeExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	discount := &models.Discount{
		Code:        code,
		Type:        discountType,
		Value:       input.Value,
		MinOrder:    input.MinOrder,
		MaxDiscount: input.MaxDiscount,
		UsageLimit:  input.UsageLimit,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    isActive,
	}
	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// Update 更新折扣码
func (s *DiscountService) Update(ctx context.Context, id uint, input DiscountInput) (*models.Discount, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code, discountType, err := input.normalize()
	if err != nil {
		return nil, err
	}
	if code != existing.Code {
		dup, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrDiscountCodeExists
		}
	}

	existing.Code = code
	existing.Type = discountType
	existing.Value = input.Value
	existing.MinOrder = input.MinOrder
	existing.MaxDiscount = input.MaxDiscount
	existing.UsageLimit = input.UsageLimit
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get 获取折扣码
func (s *DiscountService) Get(ctx context.Context, id uint) (*models.Discount, error) {
	if id == 0 {
		return nil, ErrDiscountNotFound
	}
	discount, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}
	return discount, nil
}

// Delete 删除折扣码
func (s *DiscountService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List 折扣码列表
func (s *DiscountService) List(ctx context.Context, filter repository.DiscountListFilter) ([]models.Discount, int64, error) {
	filter.Code = NormalizeDiscountCode(filter.Code)
	return s.repo.List(ctx, filter)
}
