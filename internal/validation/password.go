package validation

import (
	"regexp"
	"unicode/utf8"

	"terminal-terrace/engtheory/packages/response"
)

// PasswordMinLength 密码最小长度
const PasswordMinLength = 8

// 密码规则名
const (
	RulePasswordMinLength = "password_min_length"
	RulePasswordUppercase = "password_uppercase"
	RulePasswordDigit     = "password_digit"
)

var (
	upperRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

// PasswordRule 单条密码强度规则
type PasswordRule struct {
	Name    string
	Message string
	Check   func(password string) bool
}

// PasswordRules 创建账号时逐条检查，不会提前返回
var PasswordRules = []PasswordRule{
	{
		Name:    RulePasswordMinLength,
		Message: "密码长度至少为8个字符",
		Check: func(p string) bool {
			return utf8.RuneCountInString(p) >= PasswordMinLength
		},
	},
	{
		Name:    RulePasswordUppercase,
		Message: "密码必须包含大写字母",
		Check:   upperRegex.MatchString,
	},
	{
		Name:    RulePasswordDigit,
		Message: "密码必须包含数字",
		Check:   digitRegex.MatchString,
	},
}

// CheckPassword 返回密码未满足的全部规则
func CheckPassword(password string) []response.Violation {
	var violations []response.Violation
	for _, rule := range PasswordRules {
		if !rule.Check(password) {
			violations = append(violations, response.Violation{
				Field:   "password",
				Rule:    rule.Name,
				Message: rule.Message,
			})
		}
	}
	return violations
}
