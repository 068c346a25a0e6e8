package tag

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	articleModel "terminal-terrace/engtheory/internal/model/article"
)

// TagRepository 标签及文章-标签关联的数据访问层
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// WithTx 在事务中使用
func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	return &TagRepository{db: tx}
}

// GetByID 获取标签
func (r *TagRepository) GetByID(ctx context.Context, id uint) (*articleModel.Tag, error) {
	var t articleModel.Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetBySlug 根据 slug 获取标签
func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*articleModel.Tag, error) {
	var t articleModel.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// NameTaken 名称是否已被其他标签使用
func (r *TagRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&articleModel.Tag{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// List 按名称排序获取全部标签
func (r *TagRepository) List(ctx context.Context) ([]articleModel.Tag, error) {
	var tags []articleModel.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// FindByIDs 按名称排序获取指定标签
func (r *TagRepository) FindByIDs(ctx context.Context, ids []uint) ([]articleModel.Tag, error) {
	tags := []articleModel.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&tags).Error
	return tags, err
}

// ArticleExists 文章是否存在
func (r *TagRepository) ArticleExists(ctx context.Context, articleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&articleModel.Article{}).Where("id = ?", articleID).Count(&count).Error
	return count > 0, err
}

// DeleteEdgesExcept 删除文章不在 keep 中的标签关联
func (r *TagRepository) DeleteEdgesExcept(ctx context.Context, articleID uint, keep []uint) (int64, error) {
	query := r.db.WithContext(ctx).Where("article_id = ?", articleID)
	if len(keep) > 0 {
		query = query.Where("tag_id NOT IN ?", keep)
	}
	result := query.Delete(&articleModel.ArticleTag{})
	return result.RowsAffected, result.Error
}

// InsertEdges 插入关联，已存在的跳过
func (r *TagRepository) InsertEdges(ctx context.Context, articleID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	edges := make([]articleModel.ArticleTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		edges = append(edges, articleModel.ArticleTag{ArticleID: articleID, TagID: id})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error
}

// DeleteEdgesByTag 删除标签的全部关联
func (r *TagRepository) DeleteEdgesByTag(ctx context.Context, tagID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&articleModel.ArticleTag{})
	return result.RowsAffected, result.Error
}

// Delete 删除标签
func (r *TagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&articleModel.Tag{}, id).Error
}

type articleTagRow struct {
	ArticleID uint
	ID        uint
	Name      string
	Slug      string
	CreatedAt time.Time
}

// TagsForArticles 批量获取文章的标签，每篇文章的标签按名称排序
func (r *TagRepository) TagsForArticles(ctx context.Context, articleIDs []uint) (map[uint][]articleModel.Tag, error) {
	result := make(map[uint][]articleModel.Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var rows []articleTagRow
	err := r.db.WithContext(ctx).
		Table("article_tags").
		Select("article_tags.article_id, tags.id, tags.name, tags.slug, tags.created_at").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", articleIDs).
		Order("article_tags.article_id ASC, tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ArticleID] = append(result[row.ArticleID], articleModel.Tag{
			ID:        row.ID,
			Name:      row.Name,
			Slug:      row.Slug,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}
