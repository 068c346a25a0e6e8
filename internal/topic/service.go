package topic

import (
	"context"
	"maps"
	"strings"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/logging"
	topicModel "terminal-terrace/engtheory/internal/model/topic"
	"terminal-terrace/engtheory/internal/publish"
	"terminal-terrace/engtheory/internal/slug"
	"terminal-terrace/engtheory/internal/validation"
	"terminal-terrace/engtheory/packages/database"
	"terminal-terrace/engtheory/packages/response"
)

const (
	resourceName = "主题"
	tableName    = "topics"
)

// TopicService 主题服务层
type TopicService struct {
	db   *gorm.DB
	repo *TopicRepository
	now  func() time.Time
}

// ServiceOption 主题服务配置
type ServiceOption func(*TopicService)

// WithClock 替换发布时间使用的时钟
func WithClock(now func() time.Time) ServiceOption {
	return func(s *TopicService) {
		s.now = now
	}
}

func NewTopicService(db *gorm.DB, opts ...ServiceOption) *TopicService {
	s := &TopicService{
		db:   db,
		repo: NewTopicRepository(db),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 创建主题，slug 由标题生成
func (s *TopicService) Create(ctx context.Context, req CreateTopicRequest) (*topicModel.Topic, error) {
	// 1. 参数校验
	req.Title = strings.TrimSpace(req.Title)
	base, slugViolations := slug.Check("title", req.Title, topicModel.SlugMaxLen)
	if err := validation.Struct(req, slugViolations...); err != nil {
		return nil, err
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	t := &topicModel.Topic{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		Publication: publish.New(published, s.now()),
	}

	// 2. 分配 slug 并插入
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := slug.Insert(tx, tableName, base, topicModel.SlugMaxLen, func(sp *gorm.DB, candidate string) error {
			t.ID = 0
			t.Slug = candidate
			return sp.Create(t).Error
		})
		return database.FromDBError(err, resourceName, req.Title)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get 获取主题，草稿仅在 includeDrafts 时可见
func (s *TopicService) Get(ctx context.Context, id uint, includeDrafts bool) (*topicModel.Topic, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, id)
	}
	if !t.IsPublished && !includeDrafts {
		return nil, response.NewNotFoundError(resourceName, id)
	}
	return t, nil
}

// GetBySlug 根据 slug 获取主题详情
func (s *TopicService) GetBySlug(ctx context.Context, slugValue string, includeDrafts bool) (*TopicDetail, error) {
	t, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, slugValue)
	}
	if !t.IsPublished && !includeDrafts {
		return nil, response.NewNotFoundError(resourceName, slugValue)
	}

	count, err := s.repo.CountArticles(ctx, t.ID, !includeDrafts)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, slugValue)
	}
	return &TopicDetail{Topic: *t, ArticleCount: count}, nil
}

// List 获取主题列表
func (s *TopicService) List(ctx context.Context, includeDrafts bool) ([]topicModel.Topic, error) {
	topics, err := s.repo.List(ctx, includeDrafts)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, "list")
	}
	return topics, nil
}

// Update 部分更新主题，标题变化时重新生成 slug
func (s *TopicService) Update(ctx context.Context, id uint, req UpdateTopicRequest) (*topicModel.Topic, error) {
	// 1. 参数校验
	var slugViolations []response.Violation
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
		_, slugViolations = slug.Check("title", title, topicModel.SlugMaxLen)
	}
	if err := validation.Struct(req, slugViolations...); err != nil {
		return nil, err
	}

	var result *topicModel.Topic
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 2. 获取主题
		t, err := repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 3. 收集变更字段
		fields := map[string]any{}
		if req.Description.Set {
			fields["description"] = req.Description.Value
		}
		if req.Order != nil {
			fields["display_order"] = *req.Order
		}
		if req.IsPublished != nil {
			publish.Apply(&t.Publication, *req.IsPublished, s.now())
			maps.Copy(fields, publish.Fields(t.Publication))
		}

		// 4. 写入，标题变化时一并更新 slug
		if req.Title != nil && *req.Title != t.Title {
			fields["title"] = *req.Title
			_, err = slug.Rename(tx, tableName, t.Slug, t.Title, *req.Title, topicModel.SlugMaxLen,
				func(sp *gorm.DB, candidate string) error {
					fields["slug"] = candidate
					return repo.WithTx(sp).Updates(ctx, t, fields)
				})
		} else if len(fields) > 0 {
			err = repo.Updates(ctx, t, fields)
		}
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		result, err = repo.GetByID(ctx, id)
		return database.FromDBError(err, resourceName, id)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Publish 发布主题，首次发布时记录发布时间
func (s *TopicService) Publish(ctx context.Context, id uint) (*topicModel.Topic, error) {
	return s.setPublished(ctx, id, true)
}

// Unpublish 撤回为草稿，保留首次发布时间
func (s *TopicService) Unpublish(ctx context.Context, id uint) (*topicModel.Topic, error) {
	return s.setPublished(ctx, id, false)
}

func (s *TopicService) setPublished(ctx context.Context, id uint, published bool) (*topicModel.Topic, error) {
	var t *topicModel.Topic
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		t, err = repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		if !publish.Apply(&t.Publication, published, s.now()) {
			return nil
		}
		if err := repo.Updates(ctx, t, publish.Fields(t.Publication)); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		t, err = repo.GetByID(ctx, id)
		return database.FromDBError(err, resourceName, id)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete 删除主题，同时删除其下所有文章及文章的标签关联
func (s *TopicService) Delete(ctx context.Context, id uint) (*DeleteTopicResponse, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 1. 检查主题是否存在
		if _, err := repo.GetByID(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 2. 删除文章的标签关联
		if err := repo.DeleteArticleTags(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 3. 删除文章
		n, err := repo.DeleteArticles(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		deleted = n

		// 4. 删除主题
		if err := repo.Delete(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Infof("删除主题 id=%d，级联删除 %d 篇文章", id, deleted)
	return &DeleteTopicResponse{DeletedArticles: deleted}, nil
}
