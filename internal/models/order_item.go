package models

import (
	"time"
)

// OrderItem 订单项表（下单时的商品快照）
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"_id"`                              // 主键
	OrderID   uint      `gorm:"index;not null" json:"-"`                            // 订单ID
	ProductID uint      `gorm:"index;not null" json:"product"`                      // 商品ID
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称快照
	Image     string    `gorm:"type:varchar(500)" json:"image"`                     // 图片快照
	Color     string    `gorm:"type:varchar(64)" json:"color"`                      // 颜色规格
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Quantity  int       `gorm:"not null" json:"quantity"`                           // 数量
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                             // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
