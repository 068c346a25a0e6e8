package response

import (
	"errors"
	"fmt"
	"strings"
)

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误（校验失败）
	InvalidParameter ResponseCode = 2
	// 未认证
	Unauthorized ResponseCode = 3
	// 无权限
	Forbidden ResponseCode = 4
	// 资源不存在
	NotFound ResponseCode = 5
	// 唯一性冲突
	Conflict ResponseCode = 6
	// 存储层完整性错误
	Integrity ResponseCode = 7
)

// Violation 单条校验失败信息
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type BusinessError struct {
	Code       ResponseCode
	Msg        string
	Err        error
	Violations []Violation
}

func (e *BusinessError) Error() string {
	if len(e.Violations) > 0 {
		msgs := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			msgs = append(msgs, v.Message)
		}
		return fmt.Sprintf("%s: %s", e.Msg, strings.Join(msgs, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// HasRule 判断是否包含指定规则的校验失败
func (e *BusinessError) HasRule(rule string) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func WithViolations(violations ...Violation) ErrorOption {
	return func(be *BusinessError) {
		be.Violations = append(be.Violations, violations...)
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// NewValidationError 参数校验失败，列出全部不满足的规则
func NewValidationError(violations ...Violation) *BusinessError {
	return NewBusinessError(
		WithErrorCode(InvalidParameter),
		WithErrorMessage("参数校验失败"),
		WithViolations(violations...),
	)
}

// NewNotFoundError 引用的资源不存在
func NewNotFoundError(resource string, id any) *BusinessError {
	return NewBusinessError(
		WithErrorCode(NotFound),
		WithErrorMessage(fmt.Sprintf("%s不存在: %v", resource, id)),
	)
}

// NewConflictError 唯一性冲突
func NewConflictError(msg string) *BusinessError {
	return NewBusinessError(
		WithErrorCode(Conflict),
		WithErrorMessage(msg),
	)
}

// NewIntegrityError 未归类的存储层约束错误
func NewIntegrityError(err error) *BusinessError {
	return NewBusinessError(
		WithErrorCode(Integrity),
		WithErrorMessage("数据完整性错误"),
		WithError(err),
	)
}

// CodeOf 取出错误链中的业务错误码，非业务错误返回 Fail
func CodeOf(err error) ResponseCode {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return Fail
}

// IsCode 判断错误链中是否有指定业务错误码
func IsCode(err error, code ResponseCode) bool {
	var be *BusinessError
	return errors.As(err, &be) && be.Code == code
}
