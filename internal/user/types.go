package user

// CreateUserRequest 创建用户（注册与 create-admin 命令共用）
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,max=100,email"`
	// 密码强度规则单独校验
	Password string `json:"password"`
	IsAdmin  bool   `json:"-"`
}

// UpdateUserRequest 管理员更新用户，未提供的字段保持不变
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,max=100,email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}
