package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/packages/response"
)

func rules(violations []response.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Rule)
	}
	return out
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{"满足全部规则", "Abcdefg1", []string{}},
		{"缺少大写和数字", "abcdefgh", []string{RulePasswordUppercase, RulePasswordDigit}},
		{"三条规则全部不满足", "abcdefg", []string{RulePasswordMinLength, RulePasswordUppercase, RulePasswordDigit}},
		{"只缺数字", "Abcdefgh", []string{RulePasswordDigit}},
		{"太短", "Ab1", []string{RulePasswordMinLength}},
		{"空密码", "", []string{RulePasswordMinLength, RulePasswordUppercase, RulePasswordDigit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules(CheckPassword(tt.password)))
		})
	}
}

type registerForm struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,max=100,email"`
	Password string `json:"password"`
}

func TestStruct_ReportsAllViolations(t *testing.T) {
	form := registerForm{Username: "ab!", Email: "not-an-email", Password: "abcdefg"}
	err := Struct(form, CheckPassword(form.Password)...)
	require.Error(t, err)

	var be *response.BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, response.InvalidParameter, be.Code)

	got := rules(be.Violations)
	assert.ElementsMatch(t, []string{
		"username", "email",
		RulePasswordMinLength, RulePasswordUppercase, RulePasswordDigit,
	}, got)
	for _, v := range be.Violations {
		assert.NotEmpty(t, v.Message)
	}
	assert.Equal(t, "username", be.Violations[0].Field)

	short := registerForm{Username: "ab", Email: "ab@example.com", Password: "Abcdefg1"}
	assert.Equal(t, []string{"min"}, rules(Collect(short)))
}

func TestStruct_Valid(t *testing.T) {
	form := registerForm{Username: "alice_01", Email: "alice@example.com", Password: "Abcdefg1"}
	assert.NoError(t, Struct(form, CheckPassword(form.Password)...))
}

type articleForm struct {
	Title       string             `json:"title" validate:"notblank,max=200"`
	Content     string             `json:"content" validate:"notblank"`
	Excerpt     *string            `json:"excerpt" validate:"omitempty,max=500"`
	ReadingTime *int               `json:"reading_time_minutes" validate:"omitempty,gte=1,lte=120"`
	Summary     dto.OptionalString `json:"summary" validate:"omitempty,max=5"`
}

func TestStruct_ArticleRules(t *testing.T) {
	long := strings.Repeat("字", 501)
	zero := 0
	form := articleForm{
		Title:       "   ",
		Content:     "",
		Excerpt:     &long,
		ReadingTime: &zero,
		Summary:     dto.Some("too long"),
	}
	violations := Collect(form)
	assert.ElementsMatch(t, []string{"notblank", "notblank", "max", "gte", "max"}, rules(violations))

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"title", "content", "excerpt", "reading_time_minutes", "summary"}, fields)
}

func TestStruct_PartialUpdateSkipsAbsentFields(t *testing.T) {
	type patch struct {
		Title   *string            `json:"title" validate:"omitempty,notblank,max=200"`
		Excerpt dto.OptionalString `json:"excerpt" validate:"omitempty,max=500"`
	}
	assert.Empty(t, Collect(patch{}))
	assert.Empty(t, Collect(patch{Excerpt: dto.Null()}))

	exactly := strings.Repeat("a", 500)
	assert.Empty(t, Collect(patch{Excerpt: dto.Some(exactly)}))

	blank := " "
	assert.Equal(t, []string{"notblank"}, rules(Collect(patch{Title: &blank})))
}
