package tag

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/logging"
	articleModel "terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/internal/slug"
	"terminal-terrace/engtheory/internal/validation"
	"terminal-terrace/engtheory/packages/database"
	"terminal-terrace/engtheory/packages/response"
)

const (
	resourceName = "标签"
	tableName    = "tags"
)

var errNameTaken = response.NewConflictError("标签名称已存在")

// TagService 标签的增删改查
type TagService struct {
	db   *gorm.DB
	repo *TagRepository
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{
		db:   db,
		repo: NewTagRepository(db),
	}
}

// Create 创建标签，slug 冲突时追加数字后缀
func (s *TagService) Create(ctx context.Context, req CreateTagRequest) (*articleModel.Tag, error) {
	// 1. 参数校验
	req.Name = strings.TrimSpace(req.Name)
	base, slugViolations := slug.Check("name", req.Name, articleModel.TagSlugMaxLen)
	if err := validation.Struct(req, slugViolations...); err != nil {
		return nil, err
	}

	tag := &articleModel.Tag{Name: req.Name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 2. 检查名称
		if taken, err := repo.NameTaken(ctx, req.Name, 0); err != nil {
			return database.FromDBError(err, resourceName, req.Name)
		} else if taken {
			return errNameTaken
		}

		// 3. 分配 slug 并插入
		start, err := slug.FirstFreeSuffix(tx, tableName, base, articleModel.TagSlugMaxLen)
		if err != nil {
			return database.FromDBError(err, resourceName, req.Name)
		}
		_, err = slug.Assign(base, articleModel.TagSlugMaxLen, start, func(candidate string) error {
			tag.Slug = candidate
			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(tag).Error
			})
			if database.IsUniqueViolation(err) {
				// 名称被并发占用时不再重试 slug
				if taken, _ := repo.NameTaken(ctx, req.Name, 0); taken {
					return errNameTaken
				}
			}
			return err
		})
		return database.FromDBError(err, resourceName, req.Name)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Get 获取标签
func (s *TagService) Get(ctx context.Context, id uint) (*articleModel.Tag, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, id)
	}
	return t, nil
}

// GetBySlug 根据 slug 获取标签
func (s *TagService) GetBySlug(ctx context.Context, slugValue string) (*articleModel.Tag, error) {
	t, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, slugValue)
	}
	return t, nil
}

// List 按名称排序获取全部标签
func (s *TagService) List(ctx context.Context) ([]articleModel.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, "list")
	}
	return tags, nil
}

// Update 重命名标签并重新生成 slug
func (s *TagService) Update(ctx context.Context, id uint, req UpdateTagRequest) (*articleModel.Tag, error) {
	var slugViolations []response.Violation
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
		_, slugViolations = slug.Check("name", name, articleModel.TagSlugMaxLen)
	}
	if err := validation.Struct(req, slugViolations...); err != nil {
		return nil, err
	}

	var tag *articleModel.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		t, err := repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		tag = t
		if req.Name == nil || *req.Name == t.Name {
			return nil
		}

		if taken, err := repo.NameTaken(ctx, *req.Name, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		} else if taken {
			return errNameTaken
		}

		_, err = slug.Rename(tx, tableName, t.Slug, t.Name, *req.Name, articleModel.TagSlugMaxLen,
			func(sp *gorm.DB, candidate string) error {
				return sp.Model(t).Updates(map[string]any{"name": *req.Name, "slug": candidate}).Error
			})
		return database.FromDBError(err, resourceName, id)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete 删除标签及其关联，文章保留
func (s *TagService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 1. 检查标签是否存在
		if _, err := repo.GetByID(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 2. 删除关联
		edges, err := repo.DeleteEdgesByTag(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 3. 删除标签
		if err := repo.Delete(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		logging.Infof("删除标签 id=%d，移除 %d 条文章关联", id, edges)
		return nil
	})
}
