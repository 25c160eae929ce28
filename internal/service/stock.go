package service

import (
	"context"

	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/repository"
)

// StockRequest 库存校验请求
type StockRequest struct {
	ProductID uint
	Quantity  int
}

// ValidateStock 按当前库存快照校验请求数量，返回按 ID 索引的商品
// 仅做前置提示，最终以事务内的条件扣减为准
func ValidateStock(ctx context.Context, repo repository.ProductRepository, requests []StockRequest) (map[uint]*models.Product, error) {
	if len(requests) == 0 {
		return nil, ErrCheckoutItemsEmpty
	}
	demand := make(map[uint]int, len(requests))
	ids := make([]uint, 0, len(requests))
	for _, req := range requests {
		if req.ProductID == 0 || req.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		if _, ok := demand[req.ProductID]; !ok {
			ids = append(ids, req.ProductID)
		}
		demand[req.ProductID] += req.Quantity
	}

	rows, err := repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uint]*models.Product, len(rows))
	for i := range rows {
		products[rows[i].ID] = &rows[i]
	}

	for _, id := range ids {
		product, ok := products[id]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		if product.Stock < demand[id] {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   demand[id],
				Available:   product.Stock,
			}
		}
	}
	return products, nil
}
