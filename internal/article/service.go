package article

import (
	"context"
	"maps"
	"strings"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/logging"
	articleModel "terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/internal/publish"
	"terminal-terrace/engtheory/internal/slug"
	"terminal-terrace/engtheory/internal/tag"
	"terminal-terrace/engtheory/internal/validation"
	"terminal-terrace/engtheory/packages/database"
	"terminal-terrace/engtheory/packages/response"
)

const (
	resourceName = "文章"
	tableName    = "articles"
)

// ArticleService 文章服务层
type ArticleService struct {
	db   *gorm.DB
	repo *ArticleRepository
	tags *tag.AssociationService
	now  func() time.Time
}

// ServiceOption 文章服务配置
type ServiceOption func(*ArticleService)

// WithClock 替换发布时间使用的时钟
func WithClock(now func() time.Time) ServiceOption {
	return func(s *ArticleService) {
		s.now = now
	}
}

func NewArticleService(db *gorm.DB, opts ...ServiceOption) *ArticleService {
	s := &ArticleService{
		db:   db,
		repo: NewArticleRepository(db),
		tags: tag.NewAssociationService(db),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 创建文章，标签与文章在同一事务中写入
func (s *ArticleService) Create(ctx context.Context, req CreateArticleRequest) (*ArticleDetail, error) {
	// 1. 参数校验
	req.Title = strings.TrimSpace(req.Title)
	base, slugViolations := slug.Check("title", req.Title, articleModel.SlugMaxLen)
	if err := validation.Struct(req, slugViolations...); err != nil {
		return nil, err
	}

	readingTime := articleModel.DefaultReadingTime
	if req.ReadingTimeMinutes != nil {
		readingTime = *req.ReadingTimeMinutes
	}
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	a := &articleModel.Article{
		Title:              req.Title,
		Content:            req.Content,
		Excerpt:            req.Excerpt,
		ReadingTimeMinutes: readingTime,
		TopicID:            req.TopicID,
		AuthorID:           req.AuthorID,
		Publication:        publish.New(published, s.now()),
	}

	var detail *ArticleDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 2. 检查引用的主题和作者
		if err := s.checkRefs(ctx, repo, &req.TopicID, req.AuthorID); err != nil {
			return err
		}

		// 3. 分配 slug 并插入
		_, err := slug.Insert(tx, tableName, base, articleModel.SlugMaxLen, func(sp *gorm.DB, candidate string) error {
			a.ID = 0
			a.Slug = candidate
			return sp.Create(a).Error
		})
		if err != nil {
			return database.FromDBError(err, resourceName, req.Title)
		}

		// 4. 设置标签
		if req.TagIDs != nil {
			if _, err := s.tags.SetTagsTx(ctx, tx, a.ID, req.TagIDs); err != nil {
				return err
			}
		}

		detail, err = s.detail(ctx, tx, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Get 获取文章详情，草稿仅在 includeDrafts 时可见
func (s *ArticleService) Get(ctx context.Context, id uint, includeDrafts bool) (*ArticleDetail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, id)
	}
	if !a.IsPublished && !includeDrafts {
		return nil, response.NewNotFoundError(resourceName, id)
	}
	return s.detail(ctx, s.db, a)
}

// GetBySlug 根据 slug 获取文章详情，不计阅读量
func (s *ArticleService) GetBySlug(ctx context.Context, slugValue string, includeDrafts bool) (*ArticleDetail, error) {
	a, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, slugValue)
	}
	if !a.IsPublished && !includeDrafts {
		return nil, response.NewNotFoundError(resourceName, slugValue)
	}
	return s.detail(ctx, s.db, a)
}

// View 公开阅读：已发布文章阅读量加一，管理员预览草稿不计数
func (s *ArticleService) View(ctx context.Context, slugValue string, includeDrafts bool) (*ArticleDetail, error) {
	detail, err := s.GetBySlug(ctx, slugValue, includeDrafts)
	if err != nil {
		return nil, err
	}
	if !detail.IsPublished {
		return detail, nil
	}

	counted, err := s.incrementViews(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	if counted {
		detail.ViewsCounter++
		return detail, nil
	}

	// 读取之后被撤回为草稿
	if !includeDrafts {
		return nil, response.NewNotFoundError(resourceName, slugValue)
	}
	detail.IsPublished = false
	return detail, nil
}

// IncrementViews 阅读量原子加一，草稿不计数
func (s *ArticleService) IncrementViews(ctx context.Context, id uint) error {
	_, err := s.incrementViews(ctx, id)
	return err
}

// incrementViews 返回本次是否计数
func (s *ArticleService) incrementViews(ctx context.Context, id uint) (bool, error) {
	rows, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return false, database.FromDBError(err, resourceName, id)
	}
	if rows == 1 {
		return true, nil
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, database.FromDBError(err, resourceName, id)
	}
	if !exists {
		return false, response.NewNotFoundError(resourceName, id)
	}
	return false, nil
}

// List 分页获取文章列表
func (s *ArticleService) List(ctx context.Context, q ListArticlesQuery) (*dto.Page[ArticleDetail], error) {
	p := q.Pagination.Normalize()
	articles, total, err := s.repo.List(ctx, q, p.Offset(), p.PageSize)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, "list")
	}

	items, err := s.details(ctx, s.db, articles)
	if err != nil {
		return nil, err
	}
	return &dto.Page[ArticleDetail]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

// Update 部分更新文章，标题变化时重新生成 slug，tag_ids 出现时整体替换标签
func (s *ArticleService) Update(ctx context.Context, id uint, req UpdateArticleRequest) (*ArticleDetail, error) {
	// 1. 参数校验
	var slugViolations []response.Violation
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
		_, slugViolations = slug.Check("title", title, articleModel.SlugMaxLen)
	}
	if err := validation.Struct(req, slugViolations...); err != nil {
		return nil, err
	}

	var detail *ArticleDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 2. 获取文章并检查新主题
		a, err := repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		if err := s.checkRefs(ctx, repo, req.TopicID, nil); err != nil {
			return err
		}

		// 3. 收集变更字段
		fields := map[string]any{}
		if req.Content != nil {
			fields["content"] = *req.Content
		}
		if req.Excerpt.Set {
			fields["excerpt"] = req.Excerpt.Value
		}
		if req.ReadingTimeMinutes != nil {
			fields["reading_time_minutes"] = *req.ReadingTimeMinutes
		}
		if req.TopicID != nil {
			fields["topic_id"] = *req.TopicID
		}
		if req.IsPublished != nil {
			publish.Apply(&a.Publication, *req.IsPublished, s.now())
			maps.Copy(fields, publish.Fields(a.Publication))
		}

		// 4. 写入
		if req.Title != nil && *req.Title != a.Title {
			fields["title"] = *req.Title
			_, err = slug.Rename(tx, tableName, a.Slug, a.Title, *req.Title, articleModel.SlugMaxLen,
				func(sp *gorm.DB, candidate string) error {
					fields["slug"] = candidate
					return repo.WithTx(sp).Updates(ctx, a, fields)
				})
		} else if len(fields) > 0 {
			err = repo.Updates(ctx, a, fields)
		}
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 5. 替换标签
		if req.TagIDs != nil {
			if _, err := s.tags.SetTagsTx(ctx, tx, id, *req.TagIDs); err != nil {
				return err
			}
		}

		a, err = repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		detail, err = s.detail(ctx, tx, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// SetTags 替换文章的标签
func (s *ArticleService) SetTags(ctx context.Context, id uint, tagIDs []uint) ([]articleModel.Tag, error) {
	return s.tags.SetTags(ctx, id, tagIDs)
}

// Publish 发布文章，首次发布时记录发布时间
func (s *ArticleService) Publish(ctx context.Context, id uint) (*ArticleDetail, error) {
	return s.setPublished(ctx, id, true)
}

// Unpublish 撤回为草稿，保留首次发布时间
func (s *ArticleService) Unpublish(ctx context.Context, id uint) (*ArticleDetail, error) {
	return s.setPublished(ctx, id, false)
}

func (s *ArticleService) setPublished(ctx context.Context, id uint, published bool) (*ArticleDetail, error) {
	var detail *ArticleDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		a, err := repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		if publish.Apply(&a.Publication, published, s.now()) {
			if err := repo.Updates(ctx, a, publish.Fields(a.Publication)); err != nil {
				return database.FromDBError(err, resourceName, id)
			}
			if a, err = repo.GetByID(ctx, id); err != nil {
				return database.FromDBError(err, resourceName, id)
			}
		}

		detail, err = s.detail(ctx, tx, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete 删除文章及其标签关联
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 1. 检查文章是否存在
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		if !exists {
			return response.NewNotFoundError(resourceName, id)
		}

		// 2. 删除标签关联
		if err := repo.DeleteEdges(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 3. 删除文章
		if err := repo.Delete(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		logging.Infof("删除文章 id=%d", id)
		return nil
	})
}

// checkRefs 检查主题、作者是否存在，nil 表示不检查
func (s *ArticleService) checkRefs(ctx context.Context, repo *ArticleRepository, topicID, authorID *uint) error {
	if topicID != nil {
		ok, err := repo.TopicExists(ctx, *topicID)
		if err != nil {
			return database.FromDBError(err, "主题", *topicID)
		}
		if !ok {
			return response.NewNotFoundError("主题", *topicID)
		}
	}
	if authorID != nil {
		ok, err := repo.UserExists(ctx, *authorID)
		if err != nil {
			return database.FromDBError(err, "用户", *authorID)
		}
		if !ok {
			return response.NewNotFoundError("用户", *authorID)
		}
	}
	return nil
}

func (s *ArticleService) detail(ctx context.Context, db *gorm.DB, a *articleModel.Article) (*ArticleDetail, error) {
	items, err := s.details(ctx, db, []articleModel.Article{*a})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// details 批量组装主题、作者和标签
func (s *ArticleService) details(ctx context.Context, db *gorm.DB, articles []articleModel.Article) ([]ArticleDetail, error) {
	items := make([]ArticleDetail, 0, len(articles))
	if len(articles) == 0 {
		return items, nil
	}

	ids := make([]uint, 0, len(articles))
	topicIDs := make([]uint, 0, len(articles))
	var authorIDs []uint
	for _, a := range articles {
		ids = append(ids, a.ID)
		topicIDs = append(topicIDs, a.TopicID)
		if a.AuthorID != nil {
			authorIDs = append(authorIDs, *a.AuthorID)
		}
	}

	repo := s.repo.WithTx(db)
	topics, err := repo.TopicSummaries(ctx, topicIDs)
	if err != nil {
		return nil, database.FromDBError(err, "主题", topicIDs)
	}
	authors, err := repo.AuthorSummaries(ctx, authorIDs)
	if err != nil {
		return nil, database.FromDBError(err, "用户", authorIDs)
	}
	tags, err := s.tags.WithTx(db).TagsForArticles(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, a := range articles {
		d := ArticleDetail{Article: a, Topic: topics[a.TopicID], Tags: tags[a.ID]}
		if d.Tags == nil {
			d.Tags = []articleModel.Tag{}
		}
		if a.AuthorID != nil {
			if author, ok := authors[*a.AuthorID]; ok {
				d.Author = &author
			}
		}
		items = append(items, d)
	}
	return items, nil
}
