package topic

import (
	"terminal-terrace/engtheory/internal/dto"
	topicModel "terminal-terrace/engtheory/internal/model/topic"
)

// CreateTopicRequest 创建主题
type CreateTopicRequest struct {
	Title       string  `json:"title" validate:"notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       int     `json:"order"`
	// 缺省为发布状态
	IsPublished *bool `json:"is_published"`
}

// UpdateTopicRequest 部分更新主题，description 传 null 表示清空
type UpdateTopicRequest struct {
	Title       *string            `json:"title" validate:"omitempty,notblank,max=100"`
	Description dto.OptionalString `json:"description" validate:"omitempty,max=2000"`
	Order       *int               `json:"order"`
	IsPublished *bool              `json:"is_published"`
}

// TopicDetail 主题详情
type TopicDetail struct {
	topicModel.Topic
	// 对调用方可见的文章数量
	ArticleCount int64 `json:"article_count"`
}

// DeleteTopicResponse 删除主题的结果
type DeleteTopicResponse struct {
	DeletedArticles int64 `json:"deleted_articles"`
}
