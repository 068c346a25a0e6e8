package topic

import (
	"context"

	"gorm.io/gorm"

	articleModel "terminal-terrace/engtheory/internal/model/article"
	topicModel "terminal-terrace/engtheory/internal/model/topic"
)

type TopicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// WithTx 在事务中使用
func (r *TopicRepository) WithTx(tx *gorm.DB) *TopicRepository {
	return &TopicRepository{db: tx}
}

// GetByID 获取主题
func (r *TopicRepository) GetByID(ctx context.Context, id uint) (*topicModel.Topic, error) {
	var t topicModel.Topic
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetBySlug 根据 slug 获取主题
func (r *TopicRepository) GetBySlug(ctx context.Context, slug string) (*topicModel.Topic, error) {
	var t topicModel.Topic
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// List 按展示顺序获取主题，顺序相同时按 ID
func (r *TopicRepository) List(ctx context.Context, includeDrafts bool) ([]topicModel.Topic, error) {
	topics := []topicModel.Topic{}
	query := r.db.WithContext(ctx)
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}
	err := query.Order("display_order ASC, id ASC").Find(&topics).Error
	return topics, err
}

// Updates 更新指定字段
func (r *TopicRepository) Updates(ctx context.Context, t *topicModel.Topic, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(t).Updates(fields).Error
}

// CountArticles 统计主题下的文章
func (r *TopicRepository) CountArticles(ctx context.Context, topicID uint, publishedOnly bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&articleModel.Article{}).Where("topic_id = ?", topicID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

// DeleteArticleTags 删除主题下所有文章的标签关联
func (r *TopicRepository) DeleteArticleTags(ctx context.Context, topicID uint) error {
	sub := r.db.Model(&articleModel.Article{}).Select("id").Where("topic_id = ?", topicID)
	return r.db.WithContext(ctx).Where("article_id IN (?)", sub).Delete(&articleModel.ArticleTag{}).Error
}

// DeleteArticles 删除主题下的所有文章
func (r *TopicRepository) DeleteArticles(ctx context.Context, topicID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("topic_id = ?", topicID).Delete(&articleModel.Article{})
	return result.RowsAffected, result.Error
}

// Delete 删除主题
func (r *TopicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&topicModel.Topic{}, id).Error
}
