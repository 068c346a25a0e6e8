package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/packages/response"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation 判断是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation 判断是否为外键约束冲突
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// FromDBError 将存储层错误归类为业务错误
//
// 记录不存在 -> NotFound；未被业务层预先识别的约束冲突 -> Integrity；
// 其它错误原样包装为 Fail。已经是业务错误的直接返回。
func FromDBError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var be *response.BusinessError
	if errors.As(err, &be) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NewNotFoundError(resource, id)
	case IsUniqueViolation(err), IsForeignKeyViolation(err):
		logging.Warnf("%s %v: 约束冲突: %v", resource, id, err)
		return response.NewIntegrityError(err)
	default:
		logging.Errorf("%s %v: 数据库错误: %v", resource, id, err)
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("数据库操作失败"),
			response.WithError(err),
		)
	}
}
