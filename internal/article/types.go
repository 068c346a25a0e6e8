package article

import (
	"terminal-terrace/engtheory/internal/dto"
	articleModel "terminal-terrace/engtheory/internal/model/article"
)

// CreateArticleRequest 创建文章
type CreateArticleRequest struct {
	Title   string  `json:"title" validate:"notblank,max=200"`
	Content string  `json:"content" validate:"notblank"`
	Excerpt *string `json:"excerpt" validate:"omitempty,max=500"`
	// 缺省为 5 分钟
	ReadingTimeMinutes *int  `json:"reading_time_minutes" validate:"omitempty,min=1,max=120"`
	IsPublished        *bool `json:"is_published"`
	TopicID            uint  `json:"topic_id" validate:"required"`
	// 为空时由接口填入当前用户
	AuthorID *uint  `json:"author_id"`
	TagIDs   []uint `json:"tag_ids"`
}

// UpdateArticleRequest 部分更新文章
//
// excerpt 传 null 表示清空；tag_ids 出现时整体替换标签。
type UpdateArticleRequest struct {
	Title              *string            `json:"title" validate:"omitempty,notblank,max=200"`
	Content            *string            `json:"content" validate:"omitempty,notblank"`
	Excerpt            dto.OptionalString `json:"excerpt" validate:"omitempty,max=500"`
	ReadingTimeMinutes *int               `json:"reading_time_minutes" validate:"omitempty,min=1,max=120"`
	IsPublished        *bool              `json:"is_published"`
	TopicID            *uint              `json:"topic_id"`
	TagIDs             *[]uint            `json:"tag_ids"`
}

// SetTagsRequest 替换文章标签
type SetTagsRequest struct {
	TagIDs []uint `json:"tag_ids"`
}

// ListArticlesQuery 文章列表筛选条件
type ListArticlesQuery struct {
	dto.Pagination
	TopicID  *uint  `form:"topic_id"`
	TagSlug  string `form:"tag_slug"`
	AuthorID *uint  `form:"author_id"`
	// 非管理员始终只看已发布文章
	PublishedOnly bool `form:"published_only"`
}

// TopicSummary 文章所属主题
type TopicSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// AuthorSummary 文章作者
type AuthorSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// ArticleDetail 文章详情
type ArticleDetail struct {
	articleModel.Article
	Topic  TopicSummary       `json:"topic"`
	Author *AuthorSummary     `json:"author"`
	Tags   []articleModel.Tag `json:"tags"`
}
