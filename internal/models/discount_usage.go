package models

import (
	"time"
)

// DiscountUsage 折扣使用记录，每个订单至多一条
type DiscountUsage struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                // 主键
	DiscountID uint      `gorm:"index;not null" json:"discount_id"`                   // 折扣ID
	OrderID    uint      `gorm:"uniqueIndex;not null" json:"order_id"`                // 订单ID
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`                      // 用户ID（游客为空）
	Amount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 优惠金额
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (DiscountUsage) TableName() string {
	return "discount_usages"
}
