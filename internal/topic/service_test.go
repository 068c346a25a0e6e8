package topic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/engtheory/internal/dto"
	articleModel "terminal-terrace/engtheory/internal/model/article"
	topicModel "terminal-terrace/engtheory/internal/model/topic"
	"terminal-terrace/engtheory/internal/publish"
	"terminal-terrace/engtheory/internal/slug"
	"terminal-terrace/engtheory/internal/testutils"
	"terminal-terrace/engtheory/packages/response"
)

// fakeClock 每次调用前可手动推进
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*TopicService, *fakeClock) {
	db := testutils.SetupTestDB(t)
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewTopicService(db, WithClock(clock.Now)), clock
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()

	t.Run("默认发布并记录发布时间", func(t *testing.T) {
		tp, err := s.Create(ctx, CreateTopicRequest{Title: "Databases", Description: strPtr("storage engines")})
		require.NoError(t, err)
		assert.Equal(t, "databases", tp.Slug)
		assert.True(t, tp.IsPublished)
		require.NotNil(t, tp.PublishedAt)
		assert.True(t, tp.PublishedAt.Equal(clock.Now()))
	})

	t.Run("同名标题追加后缀", func(t *testing.T) {
		tp, err := s.Create(ctx, CreateTopicRequest{Title: "  Databases  "})
		require.NoError(t, err)
		assert.Equal(t, "Databases", tp.Title)
		assert.Equal(t, "databases-2", tp.Slug)
	})

	t.Run("以草稿创建", func(t *testing.T) {
		tp, err := s.Create(ctx, CreateTopicRequest{Title: "Networks", IsPublished: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, tp.IsPublished)
		assert.Nil(t, tp.PublishedAt)
	})
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateTopicRequest
		rule string
	}{
		{"标题为空", CreateTopicRequest{Title: "   "}, "notblank"},
		{"标题过长", CreateTopicRequest{Title: strings.Repeat("a", topicModel.TitleMaxLen+1)}, "max"},
		{"描述过长", CreateTopicRequest{Title: "ok", Description: strPtr(strings.Repeat("d", topicModel.DescriptionMaxLen+1))}, "max"},
		{"标题无法生成 slug", CreateTopicRequest{Title: "???"}, slug.RuleEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.req)
			var be *response.BusinessError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, response.InvalidParameter, be.Code)
			assert.True(t, be.HasRule(tt.rule), "violations: %+v", be.Violations)
		})
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tp, err := s.Create(ctx, CreateTopicRequest{Title: "Operating Systems", Description: strPtr("kernels"), Order: 3})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateTopicRequest{Title: "Compilers"})
	require.NoError(t, err)

	t.Run("未提供的字段保持不变", func(t *testing.T) {
		got, err := s.Update(ctx, tp.ID, UpdateTopicRequest{Order: func() *int { v := 7; return &v }()})
		require.NoError(t, err)
		assert.Equal(t, 7, got.Order)
		assert.Equal(t, "Operating Systems", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, "kernels", *got.Description)
	})

	t.Run("显式 null 清空描述", func(t *testing.T) {
		got, err := s.Update(ctx, tp.ID, UpdateTopicRequest{Description: dto.Null()})
		require.NoError(t, err)
		assert.Nil(t, got.Description)
	})

	t.Run("标题大小写变化保留 slug", func(t *testing.T) {
		got, err := s.Update(ctx, tp.ID, UpdateTopicRequest{Title: strPtr("operating systems")})
		require.NoError(t, err)
		assert.Equal(t, "operating systems", got.Title)
		assert.Equal(t, "operating-systems", got.Slug)
	})

	t.Run("改名到已占用的 slug", func(t *testing.T) {
		got, err := s.Update(ctx, tp.ID, UpdateTopicRequest{Title: strPtr("Compilers")})
		require.NoError(t, err)
		assert.Equal(t, "compilers-2", got.Slug)
	})

	t.Run("空标题", func(t *testing.T) {
		_, err := s.Update(ctx, tp.ID, UpdateTopicRequest{Title: strPtr(" ")})
		assert.True(t, response.IsCode(err, response.InvalidParameter))
	})

	t.Run("slug 规则与字段规则一起报告", func(t *testing.T) {
		_, err := s.Update(ctx, tp.ID, UpdateTopicRequest{
			Title:       strPtr("???"),
			Description: dto.Some(strings.Repeat("d", topicModel.DescriptionMaxLen+1)),
		})
		var be *response.BusinessError
		require.True(t, errors.As(err, &be))
		assert.True(t, be.HasRule("max"), "violations: %+v", be.Violations)
		assert.True(t, be.HasRule(slug.RuleEmpty), "violations: %+v", be.Violations)
	})

	t.Run("主题不存在", func(t *testing.T) {
		_, err := s.Update(ctx, 9999, UpdateTopicRequest{Title: strPtr("x")})
		assert.True(t, response.IsCode(err, response.NotFound))
	})
}

func TestPublishedAt_FirstSetOnly(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()

	tp, err := s.Create(ctx, CreateTopicRequest{Title: "Draft", IsPublished: boolPtr(false)})
	require.NoError(t, err)
	require.Nil(t, tp.PublishedAt)

	// 草稿 → 发布：记录时间
	clock.Advance(time.Hour)
	first := clock.Now()
	got, err := s.Publish(ctx, tp.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(first))

	// 发布 → 草稿：保留时间
	clock.Advance(time.Hour)
	got, err = s.Unpublish(ctx, tp.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(first))

	// 再次发布（通过更新）：时间不变
	clock.Advance(time.Hour)
	got, err = s.Update(ctx, tp.ID, UpdateTopicRequest{IsPublished: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	assert.True(t, got.PublishedAt.Equal(first))

	_, err = s.Publish(ctx, 9999)
	assert.True(t, response.IsCode(err, response.NotFound))
}

// 两个并发的首次发布都读到 published_at 为空时，后提交的一方不能覆盖先写入的时间
func TestPublishedAt_StaleFirstPublish(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()

	tp, err := s.Create(ctx, CreateTopicRequest{Title: "Race", IsPublished: boolPtr(false)})
	require.NoError(t, err)

	// 另一个事务先读到草稿状态
	stale := tp.Publication
	later := clock.Now().Add(2 * time.Hour)
	publish.Apply(&stale, true, later)

	clock.Advance(time.Hour)
	first := clock.Now()
	_, err = s.Publish(ctx, tp.ID)
	require.NoError(t, err)

	// 旧快照随后提交
	require.NoError(t, s.repo.Updates(ctx, tp, publish.Fields(stale)))

	got, err := s.repo.GetByID(ctx, tp.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(first), "published_at = %v", got.PublishedAt)
}

func TestListAndGet(t *testing.T) {
	s, _ := newTestService(t)
	db := s.db
	ctx := context.Background()

	b := testutils.CreateTestTopic(db, testutils.WithTopicTitle("B", "b"), testutils.WithTopicOrder(1))
	a := testutils.CreateTestTopic(db, testutils.WithTopicTitle("A", "a"), testutils.WithTopicOrder(1))
	first := testutils.CreateTestTopic(db, testutils.WithTopicTitle("First", "first"), testutils.WithTopicOrder(0))
	draft := testutils.CreateTestTopic(db, testutils.WithTopicTitle("Hidden", "hidden"), testutils.WithTopicDraft())

	testutils.CreateTestArticle(db, first.ID)
	testutils.CreateTestArticle(db, first.ID, testutils.WithDraft())

	t.Run("按顺序再按 ID 排序，隐藏草稿", func(t *testing.T) {
		topics, err := s.List(ctx, false)
		require.NoError(t, err)
		ids := make([]uint, 0, len(topics))
		for _, tp := range topics {
			ids = append(ids, tp.ID)
		}
		assert.Equal(t, []uint{first.ID, b.ID, a.ID}, ids)
	})

	t.Run("管理员可见草稿", func(t *testing.T) {
		topics, err := s.List(ctx, true)
		require.NoError(t, err)
		assert.Len(t, topics, 4)
	})

	t.Run("草稿主题对公众不存在", func(t *testing.T) {
		_, err := s.GetBySlug(ctx, draft.Slug, false)
		assert.True(t, response.IsCode(err, response.NotFound))

		detail, err := s.GetBySlug(ctx, draft.Slug, true)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, detail.ID)

		_, err = s.Get(ctx, draft.ID, false)
		assert.True(t, response.IsCode(err, response.NotFound))
	})

	t.Run("文章数量只统计可见文章", func(t *testing.T) {
		detail, err := s.GetBySlug(ctx, "first", false)
		require.NoError(t, err)
		assert.EqualValues(t, 1, detail.ArticleCount)

		detail, err = s.GetBySlug(ctx, "first", true)
		require.NoError(t, err)
		assert.EqualValues(t, 2, detail.ArticleCount)
	})
}

func TestDelete_Cascade(t *testing.T) {
	s, _ := newTestService(t)
	db := s.db
	ctx := context.Background()

	doomed := testutils.CreateTestTopic(db)
	kept := testutils.CreateTestTopic(db)
	a1 := testutils.CreateTestArticle(db, doomed.ID)
	a2 := testutils.CreateTestArticle(db, doomed.ID, testutils.WithDraft())
	survivor := testutils.CreateTestArticle(db, kept.ID)
	tag := testutils.CreateTestTag(db, "shared")
	testutils.LinkTags(db, a1.ID, tag.ID)
	testutils.LinkTags(db, a2.ID, tag.ID)
	testutils.LinkTags(db, survivor.ID, tag.ID)

	result, err := s.Delete(ctx, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.DeletedArticles)

	assert.EqualValues(t, 0, testutils.MustCount(t, db, &topicModel.Topic{}, "id = ?", doomed.ID))
	assert.EqualValues(t, 0, testutils.MustCount(t, db, &articleModel.Article{}, "topic_id = ?", doomed.ID))
	assert.EqualValues(t, 0, testutils.MustCount(t, db, &articleModel.ArticleTag{}, "article_id IN ?", []uint{a1.ID, a2.ID}))

	// 其它主题的文章与标签不受影响
	assert.EqualValues(t, 1, testutils.MustCount(t, db, &articleModel.Article{}, "id = ?", survivor.ID))
	assert.EqualValues(t, 1, testutils.MustCount(t, db, &articleModel.ArticleTag{}, "article_id = ?", survivor.ID))
	assert.EqualValues(t, 1, testutils.MustCount(t, db, &articleModel.Tag{}, "id = ?", tag.ID))

	_, err = s.Delete(ctx, doomed.ID)
	assert.True(t, response.IsCode(err, response.NotFound))
}
