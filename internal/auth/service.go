package auth

import (
	"context"
	"strings"

	"terminal-terrace/engtheory/internal/logging"
	userModel "terminal-terrace/engtheory/internal/model/user"
	"terminal-terrace/engtheory/internal/pkg"
	"terminal-terrace/engtheory/internal/user"
	"terminal-terrace/engtheory/internal/validation"
	"terminal-terrace/engtheory/packages/response"
)

// AuthService 注册、登录与注销
type AuthService struct {
	users   *user.UserService
	tokens  *pkg.TokenManager
	revoked pkg.RevocationStore
}

func NewAuthService(users *user.UserService, tokens *pkg.TokenManager, revoked pkg.RevocationStore) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
	}
}

// Register 账号密码注册，所有校验失败一并返回
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*userModel.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	// 1. 参数校验（包括全部密码规则）
	if err := validation.Struct(req, validation.CheckPassword(req.Password)...); err != nil {
		return nil, err
	}

	// 2. 创建用户
	return s.users.Create(ctx, user.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
}

// Login 校验账号密码并签发访问令牌
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	// 1. 参数校验
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	// 2. 校验账号
	u, err := s.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	// 3. 签发令牌
	token, _, err := s.tokens.GenerateAccessToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("生成访问令牌失败"),
			response.WithError(err),
		)
	}

	logging.Infof("用户登录 id=%d username=%s", u.ID, u.Username)
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Logout 注销令牌，直到其原本的过期时间
func (s *AuthService) Logout(ctx context.Context, claims *pkg.Claims) error {
	ttl := s.tokens.Remaining(claims)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("注销失败"),
			response.WithError(err),
		)
	}
	return nil
}

// Me 当前登录用户
func (s *AuthService) Me(ctx context.Context, claims *pkg.Claims) (*userModel.User, error) {
	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if response.IsCode(err, response.NotFound) {
			return nil, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage("用户不存在"),
			)
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Forbidden),
			response.WithErrorMessage("账号已被禁用"),
		)
	}
	return u, nil
}
