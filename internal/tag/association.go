package tag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	articleModel "terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/packages/database"
	"terminal-terrace/engtheory/packages/response"
)

// AssociationService 维护文章与标签之间的关联，与两侧实体的字段更新相互独立
type AssociationService struct {
	db   *gorm.DB
	repo *TagRepository
}

func NewAssociationService(db *gorm.DB) *AssociationService {
	return &AssociationService{
		db:   db,
		repo: NewTagRepository(db),
	}
}

// SetTags 用给定的标签集合替换文章的全部标签，在单个事务中完成
func (s *AssociationService) SetTags(ctx context.Context, articleID uint, tagIDs []uint) ([]articleModel.Tag, error) {
	var tags []articleModel.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tags, err = s.SetTagsTx(ctx, tx, articleID, tagIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// SetTagsTx 在调用方的事务中替换标签，返回按名称排序的标签
//
// 重复的 ID 会合并；任一 ID 不存在时返回 NotFound 且不做任何修改。
func (s *AssociationService) SetTagsTx(ctx context.Context, tx *gorm.DB, articleID uint, tagIDs []uint) ([]articleModel.Tag, error) {
	repo := s.repo.WithTx(tx)
	ids := dedupe(tagIDs)

	// 1. 检查文章是否存在
	exists, err := repo.ArticleExists(ctx, articleID)
	if err != nil {
		return nil, database.FromDBError(err, "文章", articleID)
	}
	if !exists {
		return nil, response.NewNotFoundError("文章", articleID)
	}

	// 2. 检查标签是否全部存在
	tags, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, ids)
	}
	if missing := missingIDs(ids, tags); len(missing) > 0 {
		return nil, response.NewNotFoundError(resourceName, formatIDs(missing))
	}

	// 3. 删除不在新集合中的关联
	if _, err := repo.DeleteEdgesExcept(ctx, articleID, ids); err != nil {
		return nil, database.FromDBError(err, "文章标签", articleID)
	}

	// 4. 插入缺少的关联
	if err := repo.InsertEdges(ctx, articleID, ids); err != nil {
		return nil, database.FromDBError(err, "文章标签", articleID)
	}
	return tags, nil
}

// TagsForArticle 获取文章的标签（按名称排序）
func (s *AssociationService) TagsForArticle(ctx context.Context, articleID uint) ([]articleModel.Tag, error) {
	byArticle, err := s.TagsForArticles(ctx, []uint{articleID})
	if err != nil {
		return nil, err
	}
	tags := byArticle[articleID]
	if tags == nil {
		tags = []articleModel.Tag{}
	}
	return tags, nil
}

// TagsForArticles 批量获取多篇文章的标签
func (s *AssociationService) TagsForArticles(ctx context.Context, articleIDs []uint) (map[uint][]articleModel.Tag, error) {
	result, err := s.repo.TagsForArticles(ctx, articleIDs)
	if err != nil {
		return nil, database.FromDBError(err, "文章标签", articleIDs)
	}
	return result, nil
}

// WithTx 返回使用事务句柄的副本，供文章写操作在同一事务中读取标签
func (s *AssociationService) WithTx(tx *gorm.DB) *AssociationService {
	return &AssociationService{db: tx, repo: s.repo.WithTx(tx)}
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func missingIDs(ids []uint, found []articleModel.Tag) []uint {
	present := make(map[uint]bool, len(found))
	for _, t := range found {
		present[t.ID] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
