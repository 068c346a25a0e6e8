package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/internal/pkg"
	"terminal-terrace/engtheory/packages/response"
)

// 上下文 key
const (
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
	ContextClaims  = "claims"
)

// AccountStatus 账户的当前状态
type AccountStatus struct {
	IsActive bool
	IsAdmin  bool
}

// AccountLookup 按用户 ID 读取账户当前状态，用户不存在时返回 NotFound 业务错误
type AccountLookup interface {
	AccountStatus(ctx context.Context, userID uint) (AccountStatus, error)
}

// Authenticator 解析访问令牌并检查是否已注销
//
// 配置了 AccountLookup 时，每个请求都以账户的当前状态为准：
// 已删除或停用的账户令牌失效，管理员权限取库中的 is_admin 而不是令牌中的值。
type Authenticator struct {
	tokens   *pkg.TokenManager
	revoked  pkg.RevocationStore
	accounts AccountLookup
}

type AuthenticatorOption func(*Authenticator)

// WithAccountLookup 每个请求校验账户状态
func WithAccountLookup(accounts AccountLookup) AuthenticatorOption {
	return func(a *Authenticator) {
		a.accounts = accounts
	}
}

func NewAuthenticator(tokens *pkg.TokenManager, revoked pkg.RevocationStore, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{tokens: tokens, revoked: revoked}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// parseToken 从 Authorization header 或 cookie 中解析 token
func (a *Authenticator) parseToken(c *gin.Context) (*pkg.Claims, error) {
	var tokenString string

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		// 验证格式: Bearer <token>
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return nil, fmt.Errorf("认证格式错误")
		}
		tokenString = token
	} else if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		tokenString = cookie
	} else {
		return nil, fmt.Errorf("未提供认证令牌")
	}

	claims, err := a.tokens.ParseAccessToken(tokenString)
	if err != nil {
		if errors.Is(err, pkg.ErrExpiredToken) {
			return nil, fmt.Errorf("认证令牌已过期")
		}
		return nil, fmt.Errorf("无效的认证令牌")
	}

	revoked, err := a.revoked.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		logging.Errorf("查询令牌吊销状态失败: %v", err)
		return nil, fmt.Errorf("无法验证认证令牌")
	}
	if revoked {
		return nil, fmt.Errorf("认证令牌已注销")
	}
	return a.currentAccount(c.Request.Context(), claims)
}

// currentAccount 用账户当前状态覆盖令牌中的权限
func (a *Authenticator) currentAccount(ctx context.Context, claims *pkg.Claims) (*pkg.Claims, error) {
	if a.accounts == nil {
		return claims, nil
	}

	status, err := a.accounts.AccountStatus(ctx, claims.UserID)
	if err != nil {
		if response.IsCode(err, response.NotFound) {
			return nil, fmt.Errorf("账户不存在")
		}
		logging.Errorf("查询账户状态失败: %v", err)
		return nil, fmt.Errorf("无法验证认证令牌")
	}
	if !status.IsActive {
		return nil, fmt.Errorf("账户已停用")
	}

	current := *claims
	current.IsAdmin = status.IsAdmin
	return &current, nil
}

func setClaims(c *gin.Context, claims *pkg.Claims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextIsAdmin, claims.IsAdmin)
}

// JWTAuth JWT 认证中间件（必需认证）
func (a *Authenticator) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.parseToken(c)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求认证，但如果有token则解析）
func (a *Authenticator) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := a.parseToken(c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin 管理员权限，需在 JWTAuth 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Forbidden),
				response.WithErrorMessage("需要管理员权限"),
			))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentClaims 当前请求的令牌声明
func CurrentClaims(c *gin.Context) (*pkg.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*pkg.Claims)
	return claims, ok
}

// IsAdmin 当前请求是否来自管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextIsAdmin)
}
