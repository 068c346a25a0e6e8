package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"terminal-terrace/engtheory/internal/dto"
	"terminal-terrace/engtheory/internal/logging"
	"terminal-terrace/engtheory/internal/middleware"
	userModel "terminal-terrace/engtheory/internal/model/user"
	"terminal-terrace/engtheory/internal/validation"
	"terminal-terrace/engtheory/packages/database"
	"terminal-terrace/engtheory/packages/response"
)

const resourceName = "用户"

// UserService 用户服务层
type UserService struct {
	db       *gorm.DB
	repo     *UserRepository
	hashCost int
}

// ServiceOption 用户服务配置
type ServiceOption func(*UserService)

// WithHashCost 设置 bcrypt 计算强度
func WithHashCost(cost int) ServiceOption {
	return func(s *UserService) {
		s.hashCost = cost
	}
}

// NewUserService 创建用户服务实例
func NewUserService(db *gorm.DB, opts ...ServiceOption) *UserService {
	s := &UserService{
		db:       db,
		repo:     NewUserRepository(db),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 创建用户
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*userModel.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	// 1. 参数校验（包括全部密码规则）
	if err := validation.Struct(req, validation.CheckPassword(req.Password)...); err != nil {
		return nil, err
	}

	// 2. 检查用户名和邮箱是否已存在
	if err := s.checkUnique(ctx, s.repo, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	// 3. 密码加密
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// 4. 创建用户
	u := &userModel.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			// 并发创建时由唯一索引兜底
			if cerr := s.checkUnique(ctx, s.repo, req.Username, req.Email, 0); cerr != nil {
				return nil, cerr
			}
			return nil, response.NewConflictError("用户名或邮箱已存在")
		}
		return nil, database.FromDBError(err, resourceName, req.Username)
	}

	logging.Infof("创建用户 %s (id=%d, admin=%t)", u.Username, u.ID, u.IsAdmin)
	return u, nil
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, id uint) (*userModel.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, id)
	}
	return u, nil
}

// List 分页获取用户
func (s *UserService) List(ctx context.Context, p dto.Pagination) (*dto.Page[userModel.User], error) {
	p = p.Normalize()
	users, total, err := s.repo.List(ctx, p.Offset(), p.PageSize)
	if err != nil {
		return nil, database.FromDBError(err, resourceName, "list")
	}
	return &dto.Page[userModel.User]{Items: users, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

// Update 部分更新用户，只校验提供的字段
func (s *UserService) Update(ctx context.Context, id uint, req UpdateUserRequest) (*userModel.User, error) {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}

	// 1. 参数校验
	var extra []response.Violation
	if req.Password != nil {
		extra = validation.CheckPassword(*req.Password)
	}
	if err := validation.Struct(req, extra...); err != nil {
		return nil, err
	}

	var updated *userModel.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 2. 检查用户是否存在
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 3. 收集变更字段
		fields := map[string]any{}
		if req.Email != nil && *req.Email != u.Email {
			if err := s.checkUnique(ctx, repo, "", *req.Email, id); err != nil {
				return err
			}
			fields["email"] = *req.Email
		}
		if req.Password != nil {
			hash, err := s.hashPassword(*req.Password)
			if err != nil {
				return err
			}
			fields["password_hash"] = hash
		}
		if req.IsAdmin != nil {
			fields["is_admin"] = *req.IsAdmin
		}
		if req.IsActive != nil {
			fields["is_active"] = *req.IsActive
		}

		// 4. 更新
		if len(fields) > 0 {
			if err := repo.Updates(ctx, u, fields); err != nil {
				if database.IsUniqueViolation(err) {
					return response.NewConflictError("邮箱已被注册")
				}
				return database.FromDBError(err, resourceName, id)
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 删除用户，其文章保留且作者置空
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// 1. 检查用户是否存在
		if _, err := repo.GetByID(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 2. 文章作者置空
		detached, err := repo.DetachArticles(ctx, id)
		if err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		// 3. 删除用户
		if _, err := repo.Delete(ctx, id); err != nil {
			return database.FromDBError(err, resourceName, id)
		}

		logging.Infof("删除用户 id=%d，%d 篇文章作者已置空", id, detached)
		return nil
	})
}

// AccountStatus 账户当前的启用与管理员状态，供认证中间件逐请求校验
func (s *UserService) AccountStatus(ctx context.Context, id uint) (middleware.AccountStatus, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return middleware.AccountStatus{}, database.FromDBError(err, resourceName, id)
	}
	return middleware.AccountStatus{IsActive: u.IsActive, IsAdmin: u.IsAdmin}, nil
}

// Authenticate 校验用户名和密码
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*userModel.User, error) {
	invalid := response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("用户名或密码错误"),
	)

	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, database.FromDBError(err, resourceName, username)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, invalid
	}
	if !u.IsActive {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Forbidden),
			response.WithErrorMessage("账号已被禁用"),
		)
	}
	return u, nil
}

// checkUnique 用户名或邮箱被其他用户占用时返回冲突错误
func (s *UserService) checkUnique(ctx context.Context, repo *UserRepository, username, email string, excludeID uint) error {
	users, err := repo.FindByUsernameOrEmail(ctx, username, email, excludeID)
	if err != nil {
		return database.FromDBError(err, resourceName, username)
	}
	for _, u := range users {
		if username != "" && u.Username == username {
			return response.NewConflictError("用户名已存在")
		}
		if u.Email == email {
			return response.NewConflictError("邮箱已被注册")
		}
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("密码加密失败"),
			response.WithError(err),
		)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
