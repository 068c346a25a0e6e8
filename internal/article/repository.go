package article

import (
	"context"

	"gorm.io/gorm"

	articleModel "terminal-terrace/engtheory/internal/model/article"
	topicModel "terminal-terrace/engtheory/internal/model/topic"
	userModel "terminal-terrace/engtheory/internal/model/user"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// WithTx 在事务中使用
func (r *ArticleRepository) WithTx(tx *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: tx}
}

// GetByID 获取文章
func (r *ArticleRepository) GetByID(ctx context.Context, id uint) (*articleModel.Article, error) {
	var a articleModel.Article
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetBySlug 根据 slug 获取文章
func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*articleModel.Article, error) {
	var a articleModel.Article
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Updates 更新指定字段（同时刷新 updated_at）
func (r *ArticleRepository) Updates(ctx context.Context, a *articleModel.Article, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(a).Updates(fields).Error
}

// IncrementViews 已发布文章的阅读量原子加一，不修改 updated_at
func (r *ArticleRepository) IncrementViews(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&articleModel.Article{}).
		Where("id = ? AND is_published = ?", id, true).
		UpdateColumn("views_counter", gorm.Expr("views_counter + ?", 1))
	return result.RowsAffected, result.Error
}

// Exists 文章是否存在
func (r *ArticleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &articleModel.Article{}, id)
}

// TopicExists 主题是否存在
func (r *ArticleRepository) TopicExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &topicModel.Topic{}, id)
}

// UserExists 用户是否存在
func (r *ArticleRepository) UserExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &userModel.User{}, id)
}

func (r *ArticleRepository) exists(ctx context.Context, model any, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 按筛选条件分页获取文章，最新的在前
func (r *ArticleRepository) List(ctx context.Context, q ListArticlesQuery, offset, limit int) ([]articleModel.Article, int64, error) {
	articles := []articleModel.Article{}
	var total int64

	query := r.db.WithContext(ctx).Model(&articleModel.Article{})
	if q.TopicID != nil {
		query = query.Where("topic_id = ?", *q.TopicID)
	}
	if q.AuthorID != nil {
		query = query.Where("author_id = ?", *q.AuthorID)
	}
	if q.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if q.TagSlug != "" {
		tagged := r.db.Table("article_tags").
			Select("article_tags.article_id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.slug = ?", q.TagSlug)
		query = query.Where("id IN (?)", tagged)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// TopicSummaries 批量获取主题摘要
func (r *ArticleRepository) TopicSummaries(ctx context.Context, ids []uint) (map[uint]TopicSummary, error) {
	var rows []TopicSummary
	if len(ids) > 0 {
		err := r.db.WithContext(ctx).Model(&topicModel.Topic{}).
			Select("id, title, slug").
			Where("id IN ?", ids).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
	}
	result := make(map[uint]TopicSummary, len(rows))
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// AuthorSummaries 批量获取作者摘要
func (r *ArticleRepository) AuthorSummaries(ctx context.Context, ids []uint) (map[uint]AuthorSummary, error) {
	var rows []AuthorSummary
	if len(ids) > 0 {
		err := r.db.WithContext(ctx).Model(&userModel.User{}).
			Select("id, username").
			Where("id IN ?", ids).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
	}
	result := make(map[uint]AuthorSummary, len(rows))
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// DeleteEdges 删除文章的全部标签关联
func (r *ArticleRepository) DeleteEdges(ctx context.Context, articleID uint) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&articleModel.ArticleTag{}).Error
}

// Delete 删除文章
func (r *ArticleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&articleModel.Article{}, id).Error
}
