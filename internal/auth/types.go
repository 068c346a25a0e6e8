package auth

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username" example:"newuser"`
	Email    string `json:"email" validate:"required,max=100,email" example:"user@example.com"`
	Password string `json:"password" example:"Password1"`
	// 确认密码，提供时必须与密码一致
	ConfirmPassword string `json:"confirm_password" validate:"omitempty,eqfield=Password" example:"Password1"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"newuser"`
	Password string `json:"password" validate:"required" example:"Password1"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
	// 有效期（秒）
	ExpiresIn int64 `json:"expires_in" example:"86400"`
}
