// Package slug 从标题生成 URL 安全且唯一的标识
package slug

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/packages/database"
	"terminal-terrace/engtheory/packages/response"
)

// MaxAttempts 唯一约束冲突后的最大重试次数
const MaxAttempts = 20

// RuleEmpty 标题无法生成 slug 时的校验规则名
const RuleEmpty = "slug_empty"

// ErrExhausted 重试次数用尽
var ErrExhausted = errors.New("slug: retry budget exhausted")

// Slugify 小写化，去掉变音符号，非字母数字序列替换为单个连字符，并截断到 maxLen
func Slugify(source string, maxLen int) (string, error) {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		source,
	)
	if err != nil {
		folded = source
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	s := truncate(b.String(), maxLen)
	if s == "" {
		return "", response.NewValidationError(response.Violation{
			Field:   "title",
			Rule:    RuleEmpty,
			Message: "标题无法生成有效的 slug",
		})
	}
	return s, nil
}

// Check 生成 slug 并以违规项形式返回失败，便于与结构体校验结果合并
func Check(field, source string, maxLen int) (string, []response.Violation) {
	base, err := Slugify(source, maxLen)
	if err == nil {
		return base, nil
	}
	var be *response.BusinessError
	if !errors.As(err, &be) {
		return "", []response.Violation{{Field: field, Rule: RuleEmpty, Message: err.Error()}}
	}
	violations := make([]response.Violation, 0, len(be.Violations))
	for _, v := range be.Violations {
		v.Field = field
		violations = append(violations, v)
	}
	return "", violations
}

// Candidate 第 n 个候选：n <= 1 为 base 本身，否则为 base-n，截断 base 保证总长不超过 maxLen
func Candidate(base string, n, maxLen int) string {
	if n <= 1 {
		return truncate(base, maxLen)
	}
	suffix := "-" + strconv.Itoa(n)
	keep := maxLen - len(suffix)
	if keep < 1 {
		keep = 1
	}
	return truncate(base, keep) + suffix
}

// Assign 从第 start 个候选开始依次调用 attempt，遇到唯一约束冲突换下一个候选
//
// attempt 返回其它错误时原样返回；冲突 MaxAttempts 次后返回 Conflict 业务错误。
func Assign(base string, maxLen, start int, attempt func(candidate string) error) (string, error) {
	if start < 1 {
		start = 1
	}
	for i := 0; i < MaxAttempts; i++ {
		candidate := Candidate(base, start+i, maxLen)
		err := attempt(candidate)
		if err == nil {
			return candidate, nil
		}
		if !database.IsUniqueViolation(err) {
			return "", err
		}
		logging.With("slug").Debug("slug 已被占用，尝试下一个", "candidate", candidate)
	}
	logging.Warnf("slug %q 重试 %d 次后仍冲突", base, MaxAttempts)
	return "", response.NewBusinessError(
		response.WithErrorCode(response.Conflict),
		response.WithErrorMessage("无法分配唯一的 slug，请更换标题"),
		response.WithError(ErrExhausted),
	)
}

func truncate(s string, maxLen int) string {
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.Trim(s, "-")
}
