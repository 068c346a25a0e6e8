package article

import "time"

// 标签字段长度上限
const (
	TagNameMaxLen = 50
	TagSlugMaxLen = 50
)

// Tag 标签表
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`

	ArticleTags []ArticleTag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

// ArticleTag 文章-标签关联表，(article_id, tag_id) 为联合主键
type ArticleTag struct {
	ArticleID uint      `gorm:"primaryKey;autoIncrement:false" json:"article_id"`
	TagID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

func (ArticleTag) TableName() string {
	return "article_tags"
}
