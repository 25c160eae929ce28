package models

import (
	"time"
)

// Order 订单表
// 金额字段在创建时一次性计算，之后仅允许状态流转
type Order struct {
	ID              uint       `gorm:"primarykey" json:"_id"`                                    // 主键
	OrderNo         string     `gorm:"uniqueIndex;not null" json:"orderNo"`                      // 订单编号
	UserID          *uint      `gorm:"index" json:"user"`                                        // 用户ID（游客订单为空）
	UserName        string     `gorm:"type:varchar(120);not null" json:"userName"`               // 收货人姓名
	UserEmail       string     `gorm:"type:varchar(255);index" json:"userEmail"`                 // 联系邮箱
	UserPhone       string     `gorm:"type:varchar(32)" json:"userPhone"`                        // 联系电话
	ShippingAddress string     `gorm:"type:varchar(500)" json:"shippingAddress"`                 // 收货地址
	Source          string     `gorm:"type:varchar(20);not null;index" json:"source"`            // 订单来源（cart/guest/admin）
	Subtotal        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`    // 商品小计
	Discount        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`    // 折扣金额
	DiscountCode    string     `gorm:"type:varchar(64)" json:"discountCode"`                     // 折扣码
	DiscountID      *uint      `gorm:"index" json:"-"`                                           // 折扣ID
	ShippingFee     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shippingFee"` // 运费
	Tax             Money      `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`         // 税费
	Total           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`       // 合计
	FinalTotal      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"finalTotal"`  // 应付金额
	Status          string     `gorm:"type:varchar(20);index;not null" json:"status"`            // 履约状态
	PaymentStatus   string     `gorm:"type:varchar(20);index;not null" json:"paymentStatus"`     // 支付状态
	PaymentMethod   string     `gorm:"type:varchar(20);not null" json:"paymentMethod"`           // 支付方式
	PaymentIntentID *string    `gorm:"type:varchar(64);uniqueIndex" json:"paymentIntentID"`      // 网关交易流水号
	CreatedBy       *uint      `gorm:"index" json:"createdBy,omitempty"`                         // 后台创建人
	ExpiresAt       *time.Time `gorm:"index" json:"expiresAt,omitempty"`                         // 待支付过期时间
	PaidAt          *time.Time `gorm:"index" json:"paidAt,omitempty"`                            // 支付时间
	CancelledAt     *time.Time `gorm:"index" json:"cancelledAt,omitempty"`                       // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"createdAt"`                                   // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updatedAt"`                                   // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"` // 订单项快照
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// TransactionRef 返回网关交易流水号
func (o *Order) TransactionRef() string {
	if o == nil || o.PaymentIntentID == nil {
		return ""
	}
	return *o.PaymentIntentID
}
