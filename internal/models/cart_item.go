package models

import (
	"time"
)

// CartItem 购物车项
// 价格、名称与图片在加入购物车时快照，之后不随商品变化
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"_id"`                                                                     // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_color" json:"-"`                                 // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_color" json:"product"`                           // 商品ID
	Color     string    `gorm:"type:varchar(64);not null;default:'';uniqueIndex:idx_cart_user_product_color" json:"color"` // 颜色规格
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`                                                    // 商品名称快照
	Image     string    `gorm:"type:varchar(500)" json:"image"`                                                            // 图片快照
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                                        // 单价快照
	Quantity  int       `gorm:"not null" json:"quantity"`                                                                  // 数量
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                                                    // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`                                                                    // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
