// Package validation 请求参数校验，收集全部违规项后一次性返回
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/packages/response"
)

var (
	validate *validator.Validate
	once     sync.Once

	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Validator 返回注册了自定义规则的校验器
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// 违规项使用 JSON 字段名
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		// 可空字段按其中的字符串校验，未提供或 null 视为空
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			o, ok := field.Interface().(dto.OptionalString)
			if !ok || o.Value == nil {
				return nil
			}
			return *o.Value
		}, dto.OptionalString{})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRegex.MatchString(fl.Field().String())
		})

		validate = v
	})
	return validate
}

// Struct 校验结构体，extra 为调用方额外发现的违规项（如密码规则）
//
// 没有任何违规时返回 nil，否则返回包含全部违规项的 ValidationError。
func Struct(s any, extra ...response.Violation) error {
	violations := Collect(s)
	violations = append(violations, extra...)
	if len(violations) == 0 {
		return nil
	}
	return response.NewValidationError(violations...)
}

// Collect 返回结构体的全部违规项
func Collect(s any) []response.Violation {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []response.Violation{{Rule: "invalid", Message: err.Error()}}
	}

	violations := make([]response.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, response.Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return violations
}

// message 构造友好的错误消息
func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s不能为空", field)
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s长度不能超过%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s长度不能少于%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s格式不正确", field)
	case "username":
		return fmt.Sprintf("%s只能包含字母、数字和下划线", field)
	case "eqfield":
		return fmt.Sprintf("%s与%s不一致", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s必须是以下值之一: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s校验失败: %s", field, fe.Tag())
	}
}
