package route

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"terminal-terrace/engtheory/config"
	"terminal-terrace/engtheory/internal/pkg"
	"terminal-terrace/engtheory/internal/testutils"
	"terminal-terrace/engtheory/internal/user"
	"terminal-terrace/engtheory/packages/response"
)

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c *client) do(method, path string, body any) response.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	require.Equal(c.t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// data 将响应数据解码为 map
func data(t *testing.T, resp response.Response) map[string]any {
	t.Helper()
	require.Equal(t, response.Success, resp.Code, resp.Message)
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "unexpected data: %#v", resp.Data)
	return m
}

func setup(t *testing.T) (*gin.Engine, *Services) {
	db := testutils.SetupTestDB(t)
	tokens := pkg.NewTokenManager(config.JWTConfig{Secret: "route-test-secret", ExpireTime: 1})
	s := NewServices(db, tokens, pkg.NewMemoryRevocationStore(), user.WithHashCost(bcrypt.MinCost))
	return SetupRouter(config.ServerConfig{Mode: gin.TestMode}, s), s
}

func login(t *testing.T, r *gin.Engine, username, password string) *client {
	anon := &client{t: t, r: r}
	resp := anon.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": username, "password": password})
	return &client{t: t, r: r, token: data(t, resp)["access_token"].(string)}
}

// 令牌签发后账户被降级、停用或删除，已签发的令牌立即失去对应权限
func TestAccountChangesApplyToIssuedTokens(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()

	ids := map[string]uint{}
	for _, name := range []string{"boss", "deputy", "suspended", "gone", "promoted"} {
		u, err := s.Users.Create(ctx, user.CreateUserRequest{
			Username: name,
			Email:    name + "@example.com",
			Password: "Secret123",
			IsAdmin:  name != "promoted",
		})
		require.NoError(t, err)
		ids[name] = u.ID
	}
	clients := map[string]*client{}
	for name := range ids {
		clients[name] = login(t, r, name, "Secret123")
	}
	boss := clients["boss"]

	// 签发后、变更前均可执行管理操作
	for _, name := range []string{"deputy", "suspended", "gone"} {
		data(t, clients[name].do(http.MethodPost, "/api/v1/topics", gin.H{"title": "Before " + name}))
	}

	data(t, boss.do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", ids["deputy"]), gin.H{"is_admin": false}))
	data(t, boss.do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", ids["suspended"]), gin.H{"is_active": false}))
	data(t, boss.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", ids["gone"]), nil))
	data(t, boss.do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", ids["promoted"]), gin.H{"is_admin": true}))

	tests := []struct {
		name   string
		client string
		code   response.ResponseCode
	}{
		{"降级后失去管理权限", "deputy", response.Forbidden},
		{"停用后令牌失效", "suspended", response.Unauthorized},
		{"删除后令牌失效", "gone", response.Unauthorized},
		{"升级后无需重新登录", "promoted", response.Success},
		{"未变更的管理员不受影响", "boss", response.Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := clients[tt.client].do(http.MethodPost, "/api/v1/topics", gin.H{"title": "After " + tt.client})
			assert.Equal(t, tt.code, resp.Code, resp.Message)
		})
	}

	// 降级后仍是有效的普通用户
	me := data(t, clients["deputy"].do(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, "deputy", me["username"])
	assert.Equal(t, false, me["is_admin"])
}

func TestContentWorkflow(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()

	_, err := s.Users.Create(ctx, user.CreateUserRequest{Username: "admin", Email: "admin@example.com", Password: "Admin1234", IsAdmin: true})
	require.NoError(t, err)
	_, err = s.Users.Create(ctx, user.CreateUserRequest{Username: "reader", Email: "reader@example.com", Password: "Reader123"})
	require.NoError(t, err)

	admin := login(t, r, "admin", "Admin1234")
	reader := login(t, r, "reader", "Reader123")
	anon := &client{t: t, r: r}

	// 主题
	tp := data(t, admin.do(http.MethodPost, "/api/v1/topics", gin.H{"title": "Databases"}))
	assert.Equal(t, "databases", tp["slug"])
	topicID := uint(tp["id"].(float64))

	// 非管理员不能写
	resp := reader.do(http.MethodPost, "/api/v1/topics", gin.H{"title": "Nope"})
	assert.Equal(t, response.Forbidden, resp.Code)
	resp = anon.do(http.MethodPost, "/api/v1/topics", gin.H{"title": "Nope"})
	assert.Equal(t, response.Unauthorized, resp.Code)

	// 标签
	tagResp := data(t, admin.do(http.MethodPost, "/api/v1/tags", gin.H{"name": "SQL"}))
	tagID := uint(tagResp["id"].(float64))

	// 文章，作者默认为当前用户
	art := data(t, admin.do(http.MethodPost, "/api/v1/articles", gin.H{
		"title":    "Databases",
		"content":  "...",
		"topic_id": topicID,
		"tag_ids":  []uint{tagID, tagID},
	}))
	assert.Equal(t, "databases", art["slug"])
	assert.Equal(t, "admin", art["author"].(map[string]any)["username"])
	assert.Len(t, art["tags"], 1)
	articleID := uint(art["id"].(float64))

	// 公开阅读计数
	for i := 1; i <= 3; i++ {
		got := data(t, anon.do(http.MethodGet, "/api/v1/articles/databases", nil))
		assert.EqualValues(t, i, got["views_counter"])
	}

	// 撤回后公众不可见，管理员预览不计数
	data(t, admin.do(http.MethodPost, fmt.Sprintf("/api/v1/articles/%d/unpublish", articleID), nil))
	resp = anon.do(http.MethodGet, "/api/v1/articles/databases", nil)
	assert.Equal(t, response.NotFound, resp.Code)
	preview := data(t, admin.do(http.MethodGet, "/api/v1/articles/databases", nil))
	assert.EqualValues(t, 3, preview["views_counter"])
	assert.NotNil(t, preview["published_at"])

	// 列表只含可见文章
	list := data(t, anon.do(http.MethodGet, "/api/v1/articles?tag_slug=sql", nil))
	assert.EqualValues(t, 0, list["total"])
	list = data(t, admin.do(http.MethodGet, "/api/v1/articles?tag_slug=sql", nil))
	assert.EqualValues(t, 1, list["total"])

	// 替换标签
	resp = admin.do(http.MethodPut, fmt.Sprintf("/api/v1/articles/%d/tags", articleID), gin.H{"tag_ids": []uint{}})
	assert.Equal(t, response.Success, resp.Code)
	resp = admin.do(http.MethodPut, fmt.Sprintf("/api/v1/articles/%d/tags", articleID), gin.H{"tag_ids": []uint{999}})
	assert.Equal(t, response.NotFound, resp.Code)

	// 删除主题级联删除文章
	deleted := data(t, admin.do(http.MethodDelete, fmt.Sprintf("/api/v1/topics/%d", topicID), nil))
	assert.EqualValues(t, 1, deleted["deleted_articles"])
	resp = admin.do(http.MethodGet, "/api/v1/articles/databases", nil)
	assert.Equal(t, response.NotFound, resp.Code)
}

func TestValidationEnvelope(t *testing.T) {
	r, _ := setup(t)
	anon := &client{t: t, r: r}

	resp := anon.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "valid_name",
		"email":    "bad",
		"password": "abcdefg",
	})
	require.Equal(t, response.InvalidParameter, resp.Code)

	violations := resp.Data.(map[string]any)["violations"].([]any)
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.(map[string]any)["rule"].(string))
	}
	assert.ElementsMatch(t, []string{"email", "password_min_length", "password_uppercase", "password_digit"}, rules)

	// 无法解析的请求体
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var parsed response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, response.ParseError, parsed.Code)
}

func TestHealth(t *testing.T) {
	r, _ := setup(t)
	resp := (&client{t: t, r: r}).do(http.MethodGet, "/health", nil)
	assert.Equal(t, response.Success, resp.Code)
}
