package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray 字符串数组类型，用于存储图片等列表
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}

// ColorVariant 商品颜色规格
type ColorVariant struct {
	Color string `json:"color"`
	Price Money  `json:"price"`
	Image string `json:"image,omitempty"`
}

// ColorVariants 颜色规格列表（JSON 存储）
type ColorVariants []ColorVariant

// Value 实现 driver.Valuer 接口
func (v ColorVariants) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan 实现 sql.Scanner 接口
func (v *ColorVariants) Scan(value interface{}) error {
	if value == nil {
		*v = ColorVariants{}
		return nil
	}
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// sqlite 与 postgres 对 json 列返回的类型不同
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", value)
	}
}
