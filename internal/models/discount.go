package models

import (
	"time"
)

// Discount 折扣码
type Discount struct {
	ID          uint       `gorm:"primarykey" json:"_id"`                                    // 主键
	Code        string     `gorm:"uniqueIndex;not null" json:"code"`                         // 折扣码（大写存储）
	Type        string     `gorm:"not null" json:"type"`                                     // 类型（percent/fixed）
	Value       Money      `gorm:"type:decimal(20,2);not null" json:"value"`                 // 数值（百分比或固定金额）
	MinOrder    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"minOrder"`    // 最低订单金额
	MaxDiscount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"maxDiscount"` // 百分比折扣上限（0 表示不限制）
	UsageLimit  int        `gorm:"not null;default:0" json:"usageLimit"`                     // 总使用上限（0 表示不限制）
	UsedCount   int        `gorm:"not null;default:0" json:"usedCount"`                      // 已使用次数
	StartDate   *time.Time `gorm:"index" json:"startDate"`                                   // 生效时间
	EndDate     *time.Time `gorm:"index" json:"endDate"`                                     // 失效时间
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`                    // 是否启用
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`                                   // 创建时间
	UpdatedAt   time.Time  `gorm:"index" json:"updatedAt"`                                   // 更新时间
}

// TableName 指定表名
func (Discount) TableName() string {
	return "discounts"
}
