// Package article 文章与标签模型
package article

import (
	"time"

	"terminal-terrace/engtheory/internal/publish"
)

// 字段长度上限
const (
	TitleMaxLen    = 200
	SlugMaxLen     = 200
	ExcerptMaxLen  = 500
	MinReadingTime = 1
	MaxReadingTime = 120
	// DefaultReadingTime 未指定阅读时长时的默认值（分钟）
	DefaultReadingTime = 5
)

// Article 文章表
type Article struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Title   string  `gorm:"type:varchar(200);not null" json:"title"`
	Slug    string  `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Content string  `gorm:"type:text;not null" json:"content"`
	Excerpt *string `gorm:"type:varchar(500)" json:"excerpt"`
	// 阅读时长（分钟），取值 1-120
	ReadingTimeMinutes int `gorm:"not null;check:chk_articles_reading_time,reading_time_minutes BETWEEN 1 AND 120" json:"reading_time_minutes"`
	// 阅读量，只增不减
	ViewsCounter int64 `gorm:"not null;default:0" json:"views_counter"`
	// 所属主题，删除主题时级联删除
	TopicID uint `gorm:"not null;index" json:"topic_id"`
	// 作者，可为空；删除用户时置空
	AuthorID *uint `gorm:"index" json:"author_id"`

	publish.Publication

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联（仅用于建立外键约束）
	ArticleTags []ArticleTag `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Article) TableName() string {
	return "articles"
}
