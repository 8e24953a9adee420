package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postid int64) (*model.Post, error)
	ListByOwners(ctx context.Context, owners []string) ([]*model.Post, error)
	ListExcludingOwners(ctx context.Context, owners []string) ([]*model.Post, error)
	CountByOwner(ctx context.Context, owner string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, postid int64) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Where("postid = ?", postid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOwners 首页 feed：时间倒序，同刻按 postid 倒序
func (r *postRepository) ListByOwners(ctx context.Context, owners []string) ([]*model.Post, error) {
	var res []*model.Post
	if len(owners) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).
		Where("owner IN ?", owners).
		Order("created DESC").
		Order("postid DESC").
		Find(&res).Error
	return res, err
}

// ListExcludingOwners 发现页 feed：排除自己和已关注者的帖子
func (r *postRepository) ListExcludingOwners(ctx context.Context, owners []string) ([]*model.Post, error) {
	var res []*model.Post
	q := r.db.WithContext(ctx)
	if len(owners) > 0 {
		q = q.Where("owner NOT IN ?", owners)
	}
	err := q.Order("created DESC").Order("postid DESC").Find(&res).Error
	return res, err
}

func (r *postRepository) CountByOwner(ctx context.Context, owner string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("owner = ?", owner).
		Count(&cnt).Error
	return cnt, err
}
