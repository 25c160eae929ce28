package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"_id"`                              // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                   // 唯一标识
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称
	Description string         `gorm:"type:text" json:"description"`                       // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 基础价格
	Image       string         `gorm:"type:varchar(500)" json:"image"`                     // 主图
	Images      StringArray    `gorm:"type:json" json:"images"`                            // 图片数组
	Colors      ColorVariants  `gorm:"type:json" json:"colors"`                            // 颜色规格（可覆盖价格与图片）
	Stock       int            `gorm:"not null;default:0" json:"stock"`                    // 库存
	IsActive    bool           `gorm:"default:true;index" json:"isActive"`                 // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`                             // 创建时间
	UpdatedAt   time.Time      `json:"updatedAt"`                                          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ResolvePrice 按颜色规格解析单价与图片，未命中规格时回退基础价格
func (p *Product) ResolvePrice(color string) (Money, string) {
	image := p.Image
	normalized := strings.TrimSpace(color)
	if normalized == "" {
		return p.Price, image
	}
	for _, variant := range p.Colors {
		if !strings.EqualFold(variant.Color, normalized) {
			continue
		}
		if strings.TrimSpace(variant.Image) != "" {
			image = variant.Image
		}
		if variant.Price.IsPositive() {
			return variant.Price, image
		}
		return p.Price, image
	}
	return p.Price, image
}
