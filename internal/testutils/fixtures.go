package testutils

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/internal/model/topic"
	"terminal-terrace/engtheory/internal/model/user"
	"terminal-terrace/engtheory/internal/publish"
)

// CreateTestUser creates a test user with unique username/email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	id := uniqueSuffix()
	testUser := &user.User{
		Username:     "user_" + id,
		Email:        fmt.Sprintf("test_%s@example.com", id),
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}
	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

// WithUsername sets the username
func WithUsername(username string) UserOption {
	return func(u *user.User) {
		u.Username = username
	}
}

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

// WithPasswordHash sets the stored hash
func WithPasswordHash(hash string) UserOption {
	return func(u *user.User) {
		u.PasswordHash = hash
	}
}

// AsAdmin marks the user as admin
func AsAdmin() UserOption {
	return func(u *user.User) {
		u.IsAdmin = true
	}
}

// Inactive marks the user as inactive
func Inactive() UserOption {
	return func(u *user.User) {
		u.IsActive = false
	}
}

// CreateTestTopic creates a published test topic with a unique slug
func CreateTestTopic(db *gorm.DB, opts ...TopicOption) *topic.Topic {
	id := uniqueSuffix()
	testTopic := &topic.Topic{
		Title:       "Topic " + id,
		Slug:        "topic-" + id,
		Publication: publish.New(true, time.Now()),
	}

	for _, opt := range opts {
		opt(testTopic)
	}

	if err := db.Create(testTopic).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test topic: %v", err))
	}
	return testTopic
}

// TopicOption configures test topic
type TopicOption func(*topic.Topic)

// WithTopicTitle sets title and slug
func WithTopicTitle(title, slug string) TopicOption {
	return func(tp *topic.Topic) {
		tp.Title = title
		tp.Slug = slug
	}
}

// WithTopicOrder sets the display order
func WithTopicOrder(order int) TopicOption {
	return func(tp *topic.Topic) {
		tp.Order = order
	}
}

// WithTopicDraft creates the topic as draft
func WithTopicDraft() TopicOption {
	return func(tp *topic.Topic) {
		tp.Publication = publish.New(false, time.Now())
	}
}

// CreateTestArticle creates a published test article
func CreateTestArticle(db *gorm.DB, topicID uint, opts ...ArticleOption) *article.Article {
	id := uniqueSuffix()
	testArticle := &article.Article{
		Title:              "Test Article " + id,
		Slug:               "test-article-" + id,
		Content:            "Test article content",
		ReadingTimeMinutes: article.DefaultReadingTime,
		TopicID:            topicID,
		Publication:        publish.New(true, time.Now()),
	}

	for _, opt := range opts {
		opt(testArticle)
	}

	if err := db.Create(testArticle).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}
	return testArticle
}

// ArticleOption configures test article
type ArticleOption func(*article.Article)

// WithTitle sets title and slug
func WithTitle(title, slug string) ArticleOption {
	return func(a *article.Article) {
		a.Title = title
		a.Slug = slug
	}
}

// WithAuthor sets the author
func WithAuthor(authorID uint) ArticleOption {
	return func(a *article.Article) {
		a.AuthorID = &authorID
	}
}

// WithDraft creates the article as draft
func WithDraft() ArticleOption {
	return func(a *article.Article) {
		a.Publication = publish.New(false, time.Now())
	}
}

// CreateTestTag creates a tag with unique name/slug
func CreateTestTag(db *gorm.DB, name string) *article.Tag {
	if name == "" {
		name = "tag-" + uniqueSuffix()
	}
	tag := &article.Tag{Name: name, Slug: name}
	if err := db.Create(tag).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test tag: %v", err))
	}
	return tag
}

// LinkTags inserts article-tag edges directly
func LinkTags(db *gorm.DB, articleID uint, tagIDs ...uint) {
	for _, tagID := range tagIDs {
		if err := db.Create(&article.ArticleTag{ArticleID: articleID, TagID: tagID}).Error; err != nil {
			panic(fmt.Sprintf("Failed to link tag: %v", err))
		}
	}
}
