package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-graph/internal/model"
)

type FollowRepository interface {
	// Create 返回插入是否真的发生；已存在时 (false, nil)
	Create(ctx context.Context, follower, followee string) (bool, error)
	// Delete 返回删除是否真的发生；本就不存在时 (false, nil)
	Delete(ctx context.Context, follower, followee string) (bool, error)
	Exists(ctx context.Context, follower, followee string) (bool, error)
	ListFollowers(ctx context.Context, username string) ([]string, error)
	ListFollowing(ctx context.Context, username string) ([]string, error)
	CountFollowers(ctx context.Context, username string) (int64, error)
	CountFollowing(ctx context.Context, username string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, follower, followee string) (bool, error) {
	f := &model.Follow{Username1: follower, Username2: followee}
	// 幂等：重复关注不违反唯一约束，靠 RowsAffected 区分
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, follower, followee string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("username1 = ? AND username2 = ?", follower, followee).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, follower, followee string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("username1 = ? AND username2 = ?", follower, followee).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListFollowers 关注 username 的人
func (r *followRepository) ListFollowers(ctx context.Context, username string) ([]string, error) {
	var res []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("username2 = ?", username).
		Order("created").
		Pluck("username1", &res).Error
	return res, err
}

// ListFollowing username 关注的人
func (r *followRepository) ListFollowing(ctx context.Context, username string) ([]string, error) {
	var res []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("username1 = ?", username).
		Order("created").
		Pluck("username2", &res).Error
	return res, err
}

// 计数直接从边表聚合，不维护可能漂移的缓存计数器
func (r *followRepository) CountFollowers(ctx context.Context, username string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("username2 = ?", username).
		Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowing(ctx context.Context, username string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("username1 = ?", username).
		Count(&cnt).Error
	return cnt, err
}
