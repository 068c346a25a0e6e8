package slug

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// FirstFreeSuffix 读取表中已有的 base / base-N，返回第一个未被占用的序号
//
// 结果只是提示，最终以唯一索引为准。
func FirstFreeSuffix(tx *gorm.DB, table, base string, maxLen int) (int, error) {
	var existing []string
	err := tx.Table(table).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &existing).Error
	if err != nil {
		return 0, err
	}

	taken := make(map[int]bool, len(existing))
	for _, s := range existing {
		if s == base {
			taken[1] = true
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(s, base+"-"))
		if err == nil && n > 1 {
			taken[n] = true
		}
	}
	n := 1
	for taken[n] {
		n++
	}
	return n, nil
}

// Insert 为新记录分配 slug，每次尝试在独立的保存点中执行 create
func Insert(tx *gorm.DB, table, base string, maxLen int, create func(tx *gorm.DB, slug string) error) (string, error) {
	start, err := FirstFreeSuffix(tx, table, base, maxLen)
	if err != nil {
		return "", err
	}
	return insertFrom(tx, base, maxLen, start, create)
}

// insertFrom 从 start 开始尝试；start 可能已被并发事务占用
func insertFrom(tx *gorm.DB, base string, maxLen, start int, create func(tx *gorm.DB, slug string) error) (string, error) {
	return Assign(base, maxLen, start, func(candidate string) error {
		return tx.Transaction(func(sp *gorm.DB) error {
			return create(sp, candidate)
		})
	})
}

// Rename 标题变更后重新生成 slug
//
// 新标题的 slug 与旧标题相同（或就是 current）时保留 current；否则分配新的唯一 slug 并通过 update 写入。
func Rename(tx *gorm.DB, table, current, oldTitle, newTitle string, maxLen int, update func(tx *gorm.DB, slug string) error) (string, error) {
	base, err := Slugify(newTitle, maxLen)
	if err != nil {
		return "", err
	}
	oldBase, _ := Slugify(oldTitle, maxLen)
	if base == oldBase || base == current {
		return current, update(tx, current)
	}
	return Insert(tx, table, base, maxLen, update)
}
