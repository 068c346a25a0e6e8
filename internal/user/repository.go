package user

import (
	"context"

	"gorm.io/gorm"

	articleModel "terminal-terrace/engtheory/internal/model/article"
	userModel "terminal-terrace/engtheory/internal/model/user"
)

// UserRepository 用户数据访问层
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 在事务中使用
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*userModel.User, error) {
	var u userModel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userModel.User, error) {
	var u userModel.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsernameOrEmail 查找占用了用户名或邮箱的其他用户
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string, excludeID uint) ([]userModel.User, error) {
	var users []userModel.User
	query := r.db.WithContext(ctx).Where("username = ? OR email = ?", username, email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Find(&users).Error
	return users, err
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, u *userModel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Updates 更新指定字段（同时刷新 updated_at）
func (r *UserRepository) Updates(ctx context.Context, u *userModel.User, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(u).Updates(fields).Error
}

// List 分页获取用户
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]userModel.User, int64, error) {
	var users []userModel.User
	var total int64

	query := r.db.WithContext(ctx).Model(&userModel.User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DetachArticles 将用户文章的作者置空，返回受影响的文章数
func (r *UserRepository) DetachArticles(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&articleModel.Article{}).
		Where("author_id = ?", userID).
		UpdateColumn("author_id", nil)
	return result.RowsAffected, result.Error
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&userModel.User{}, id)
	return result.RowsAffected, result.Error
}
