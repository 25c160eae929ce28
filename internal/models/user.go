package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"_id"`                       // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                           // 密码哈希（不返回给前端）
	Name         string         `gorm:"type:varchar(120);default:''" json:"name"`    // 姓名
	Phone        string         `gorm:"type:varchar(32);default:''" json:"phone"`    // 电话
	Address      string         `gorm:"type:varchar(500);default:''" json:"address"` // 默认收货地址
	Locale       string         `gorm:"default:'vi-VN'" json:"locale"`               // 语言偏好
	Status       string         `gorm:"default:'active'" json:"status"`              // 账号状态
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                 // Token 版本（用于全量失效）
	LastLoginAt  *time.Time     `json:"lastLoginAt"`                                 // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`                      // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updatedAt"`                      // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
