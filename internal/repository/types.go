package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	PaymentStatus string
	PaymentMethod string
	Source        string
	OrderNo       string
	Email         string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// DiscountListFilter 查询折扣码列表的过滤条件
type DiscountListFilter struct {
	Page     int
	PageSize int
	Code     string
	Type     string
	IsActive *bool
}
