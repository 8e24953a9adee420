package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	GetMany(ctx context.Context, usernames []string) (map[string]*model.User, error)
	UpdatePassword(ctx context.Context, username, password string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByUsername 精确匹配查询，参数化绑定，找不到返回 (nil, nil)
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, username string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// GetMany 批量取用户，feed 拼接页面数据用
func (r *userRepository) GetMany(ctx context.Context, usernames []string) (map[string]*model.User, error) {
	res := make(map[string]*model.User, len(usernames))
	if len(usernames) == 0 {
		return res, nil
	}
	var users []*model.User
	if err := r.db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		res[u.Username] = u
	}
	return res, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, username, password string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Update("password", password).Error
}
