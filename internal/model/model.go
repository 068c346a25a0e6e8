// Package model 数据表注册
package model

import (
	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/internal/model/topic"
	"terminal-terrace/engtheory/internal/model/user"
)

// Models 按依赖顺序排列的全部模型
func Models() []any {
	return []any{
		// 用户、主题（被文章引用）
		&user.User{},
		&topic.Topic{},
		// 文章、标签及关联表
		&article.Article{},
		&article.Tag{},
		&article.ArticleTag{},
	}
}

// InitTable 自动迁移数据库表结构
func InitTable(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
