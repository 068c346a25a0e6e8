// Package topic 主题模型
package topic

import (
	"time"

	"terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/internal/publish"
)

// 字段长度上限
const (
	TitleMaxLen       = 100
	SlugMaxLen        = 100
	DescriptionMaxLen = 2000
)

// Topic 主题表
type Topic struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"type:varchar(100);not null" json:"title"`
	Slug        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description *string `gorm:"type:text" json:"description"`
	// 展示顺序，可重复
	Order int `gorm:"column:display_order;not null;default:0;index" json:"order"`

	publish.Publication

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联（仅用于建立外键约束）：删除主题时级联删除所有文章
	Articles []article.Article `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Topic) TableName() string {
	return "topics"
}
