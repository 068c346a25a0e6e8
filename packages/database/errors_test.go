package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/packages/response"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm 翻译后的错误", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"postgres 其它错误码", &pgconn.PgError{Code: "23503"}, false},
		{"postgres 原始消息", errors.New(`ERROR: duplicate key value violates unique constraint "idx_tags_slug"`), true},
		{"sqlite 原始消息", errors.New("constraint failed: UNIQUE constraint failed: tags.slug (2067)"), true},
		{"普通错误", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestFromDBError(t *testing.T) {
	assert.NoError(t, FromDBError(nil, "文章", 1))

	err := FromDBError(gorm.ErrRecordNotFound, "文章", 7)
	assert.True(t, response.IsCode(err, response.NotFound))
	assert.Contains(t, err.Error(), "文章不存在: 7")

	err = FromDBError(gorm.ErrDuplicatedKey, "标签", 3)
	assert.True(t, response.IsCode(err, response.Integrity))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = FromDBError(gorm.ErrForeignKeyViolated, "文章", 3)
	assert.True(t, response.IsCode(err, response.Integrity))

	conflict := response.NewConflictError("名称已存在")
	assert.Same(t, conflict, FromDBError(conflict, "标签", 3))

	err = FromDBError(errors.New("boom"), "用户", 9)
	assert.Equal(t, response.Fail, response.CodeOf(err))
}
