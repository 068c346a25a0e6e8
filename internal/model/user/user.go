// Package user 用户模型
package user

import (
	"time"

	"terminal-terrace/engtheory/internal/model/article"
)

// 字段长度上限
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	EmailMaxLen    = 100
)

// User 用户表
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	// 密码哈希，不参与序列化
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool      `gorm:"not null" json:"is_admin"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联（仅用于建立外键约束）：删除用户时文章作者置空
	Articles []article.Article `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}

func (User) TableName() string {
	return "users"
}
