package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, commentid int64) (*model.Comment, error)
	Delete(ctx context.Context, commentid int64) error
	ListByPost(ctx context.Context, postid int64) ([]*model.Comment, error)
	CountByPost(ctx context.Context, postid int64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, commentid int64) (*model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("commentid = ?", commentid).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentid int64) error {
	return r.db.WithContext(ctx).Where("commentid = ?", commentid).Delete(&model.Comment{}).Error
}

// ListByPost 评论按发表时间正序，同刻按 commentid 正序
func (r *commentRepository) ListByPost(ctx context.Context, postid int64) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("postid = ?", postid).
		Order("created").
		Order("commentid").
		Find(&res).Error
	return res, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postid int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("postid = ?", postid).
		Count(&cnt).Error
	return cnt, err
}
