package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type LikeRepository interface {
	Exists(ctx context.Context, owner string, postid int64) (bool, error)
	CountByPost(ctx context.Context, postid int64) (int64, error)
	ListByPost(ctx context.Context, postid int64) ([]*model.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Exists(ctx context.Context, owner string, postid int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("owner = ? AND postid = ?", owner, postid).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postid int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("postid = ?", postid).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) ListByPost(ctx context.Context, postid int64) ([]*model.Like, error) {
	var res []*model.Like
	err := r.db.WithContext(ctx).
		Where("postid = ?", postid).
		Order("likeid").
		Find(&res).Error
	return res, err
}
