package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalString 可区分“未提供”与“显式 null”的可空字段
//
// 字段缺省时 Set 为 false；提供 null 时 Set 为 true 且 Value 为 nil。
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON 只有字段出现在 JSON 中才会被调用
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON 未设置或为空时输出 null
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Some 构造已设置的值
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null 构造显式清空
func Null() OptionalString {
	return OptionalString{Set: true}
}

// Pagination 分页参数
type Pagination struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize 填充默认值并限制范围
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset 查询偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page 分页结果
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
