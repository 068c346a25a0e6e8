// Package publish 草稿/发布状态流转
package publish

import (
	"time"

	"gorm.io/gorm"
)

// State 可发布实体的状态
type State string

const (
	Draft     State = "draft"
	Published State = "published"
)

// StateOf 由 is_published 得到状态
func StateOf(isPublished bool) State {
	if isPublished {
		return Published
	}
	return Draft
}

// Publication 嵌入到主题、文章模型中的发布字段
//
// PublishedAt 记录首次发布时间，之后撤回或再次发布都不会修改。
type Publication struct {
	IsPublished bool       `gorm:"not null" json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

// State 当前状态
func (p Publication) State() State {
	return StateOf(p.IsPublished)
}

// New 创建时的发布字段，以发布状态创建时记录发布时间
func New(published bool, now time.Time) Publication {
	var p Publication
	Apply(&p, published, now)
	return p
}

// Apply 切换到目标状态，返回状态是否发生变化
func Apply(p *Publication, published bool, now time.Time) bool {
	changed := p.IsPublished != published
	p.IsPublished = published
	if published && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
	return changed
}

// Fields 状态写库字段
//
// published_at 以 COALESCE 条件写入，库中已有的首次发布时间不会被并发的发布覆盖；撤回时不写该列。
func Fields(p Publication) map[string]any {
	fields := map[string]any{"is_published": p.IsPublished}
	if p.IsPublished && p.PublishedAt != nil {
		fields["published_at"] = gorm.Expr("COALESCE(published_at, ?)", *p.PublishedAt)
	}
	return fields
}
