package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/model/article"
	"terminal-terrace/engtheory/internal/testutils"
)

func createTag(db *gorm.DB, name, slug string) error {
	return db.Create(&article.Tag{Name: name, Slug: slug}).Error
}

func TestFirstFreeSuffix(t *testing.T) {
	db := testutils.SetupTestDB(t)

	n, err := FirstFreeSuffix(db, "tags", "go", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, createTag(db, "Go", "go"))
	require.NoError(t, createTag(db, "Golang", "golang"))
	require.NoError(t, createTag(db, "Go Lang", "go-lang"))
	n, err = FirstFreeSuffix(db, "tags", "go", 50)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, createTag(db, "Go 3", "go-3"))
	n, err = FirstFreeSuffix(db, "tags", "go", 50)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, createTag(db, "Go 2", "go-2"))
	n, err = FirstFreeSuffix(db, "tags", "go", 50)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestInsert_RetriesInsideOuterTransaction(t *testing.T) {
	db := testutils.SetupTestDB(t)
	require.NoError(t, createTag(db, "Rust", "rust"))

	var assigned string
	err := db.Transaction(func(tx *gorm.DB) error {
		// 提示被绕过：第一次尝试必定冲突，保存点回滚后外层事务仍可用
		var err error
		assigned, err = Assign("rust", 50, 1, func(candidate string) error {
			return tx.Transaction(func(sp *gorm.DB) error {
				return createTag(sp, "Rust "+candidate, candidate)
			})
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "rust-2", assigned)

	got, err := func() (string, error) {
		var s string
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			s, err = Insert(tx, "tags", "rust", 50, func(sp *gorm.DB, candidate string) error {
				return createTag(sp, "Rust again", candidate)
			})
			return err
		})
		return s, err
	}()
	require.NoError(t, err)
	assert.Equal(t, "rust-3", got)
	assert.EqualValues(t, 3, testutils.MustCount(t, db, &article.Tag{}, "slug LIKE ?", "rust%"))
}

// 两个事务读到同一个提示 start=1，后写入的一方依靠唯一索引逐个重试
func TestInsert_StaleHint(t *testing.T) {
	db := testutils.SetupTestDB(t)

	var hint int
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		hint, err = FirstFreeSuffix(tx, "tags", "kafka", 50)
		return err
	}))
	require.Equal(t, 1, hint)

	// 读取提示之后其他事务提交了 kafka 和 kafka-2
	require.NoError(t, createTag(db, "Kafka", "kafka"))
	require.NoError(t, createTag(db, "Kafka 2", "kafka-2"))

	var attempts []string
	var got string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = insertFrom(tx, "kafka", 50, hint, func(sp *gorm.DB, candidate string) error {
			attempts = append(attempts, candidate)
			return createTag(sp, "Kafka Streams", candidate)
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "kafka-3", got)
	assert.Equal(t, []string{"kafka", "kafka-2", "kafka-3"}, attempts)
	assert.EqualValues(t, 3, testutils.MustCount(t, db, &article.Tag{}, "slug LIKE ?", "kafka%"))
}

func TestRename(t *testing.T) {
	db := testutils.SetupTestDB(t)
	require.NoError(t, createTag(db, "Databases", "databases"))
	require.NoError(t, createTag(db, "SQL", "sql"))

	update := func(id string) func(tx *gorm.DB, s string) error {
		return func(tx *gorm.DB, s string) error {
			return tx.Model(&article.Tag{}).Where("slug = ?", id).Update("slug", s).Error
		}
	}

	// 只改变大小写和标点，slug 不变
	got, err := Rename(db, "tags", "databases", "Databases", "DATABASES!", 50, update("databases"))
	require.NoError(t, err)
	assert.Equal(t, "databases", got)

	// 新 slug 已被占用，追加后缀
	got, err = Rename(db, "tags", "databases", "Databases", "sql", 50, update("databases"))
	require.NoError(t, err)
	assert.Equal(t, "sql-2", got)

	_, err = Rename(db, "tags", "sql", "SQL", "???", 50, update("sql"))
	assert.Error(t, err)
}
