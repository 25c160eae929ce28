package service

import (
	"context"
	"strings"

	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/repository"

	"github.com/shopspring/decimal"
)

const maxCartLineQuantity = 999

// CartView 购物车视图
type CartView struct {
	Items    []models.CartItem `json:"items"`
	Subtotal models.Money      `json:"subtotal"`
	Count    int               `json:"count"`
}

// AddCartItemInput 加入购物车输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
	Color     string
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get 获取用户购物车，首次访问时为空购物车
func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartView{Items: items, Subtotal: models.NewMoneyFromDecimal(subtotal), Count: count}, nil
}

// AddItem 加入商品，同商品同颜色合并数量；价格在此刻快照
func (s *CartService) AddItem(ctx context.Context, input AddCartItemInput) (*CartView, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	if input.ProductID == 0 || input.Quantity <= 0 || input.Quantity > maxCartLineQuantity {
		return nil, ErrCartQuantityInvalid
	}
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}
	color := strings.TrimSpace(input.Color)

	existing, err := s.cartRepo.FindLine(ctx, input.UserID, input.ProductID, color)
	if err != nil {
		return nil, err
	}
	quantity := input.Quantity
	if existing != nil {
		quantity += existing.Quantity
	}
	if quantity > maxCartLineQuantity {
		return nil, ErrCartQuantityInvalid
	}
	if product.Stock < quantity {
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}
	}

	if existing != nil {
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, quantity); err != nil {
			return nil, err
		}
		return s.Get(ctx, input.UserID)
	}
	price, image := product.ResolvePrice(color)
	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: product.ID,
		Color:     color,
		Name:      product.Name,
		Image:     image,
		Price:     price,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, input.UserID)
}

// UpdateItemQuantity 修改数量，数量为 0 时移除
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*CartView, error) {
	if quantity < 0 || quantity > maxCartLineQuantity {
		return nil, ErrCartQuantityInvalid
	}
	item, err := s.cartRepo.GetByIDAndUser(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}
	if err := s.cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*CartView, error) {
	affected, err := s.cartRepo.Delete(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCartItemNotFound
	}
	return s.Get(ctx, userID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	return s.cartRepo.ClearByUser(ctx, userID)
}
