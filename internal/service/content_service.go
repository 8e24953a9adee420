package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
)

// LikeState ToggleLike 之后的点赞状态
type LikeState struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// ContentService 帖子、评论、点赞的写入与查询
type ContentService interface {
	CreatePost(ctx context.Context, owner, filename string) (*model.Post, error)
	DeletePost(ctx context.Context, requester string, postid int64) error
	GetPost(ctx context.Context, postid int64) (*model.Post, error)
	AddComment(ctx context.Context, owner string, postid int64, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, requester string, commentid int64) error
	ToggleLike(ctx context.Context, owner string, postid int64) (*LikeState, error)
	LikeCount(ctx context.Context, postid int64) (int64, error)
	CommentList(ctx context.Context, postid int64) ([]*model.Comment, error)
}

type contentService struct {
	db          *gorm.DB
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	userRepo    repository.UserRepository
}

func NewContentService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
) ContentService {
	return &contentService{
		db:          db,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
	}
}

func (s *contentService) CreatePost(ctx context.Context, owner, filename string) (*model.Post, error) {
	if err := s.requireUser(ctx, owner); err != nil {
		return nil, err
	}
	p := &model.Post{Owner: owner, Filename: filename}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// DeletePost 仅 owner 可删；同一事务内先清子行再删帖子，不留孤儿
func (s *contentService) DeletePost(ctx context.Context, requester string, postid int64) error {
	p, err := s.postRepo.GetByID(ctx, postid)
	if err != nil {
		return fmt.Errorf("load post: %w", err)
	}
	if p == nil {
		return ErrUnknownPost
	}
	if p.Owner != requester {
		return ErrNotOwner
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("postid = ?", postid).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("postid = ?", postid).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("postid = ?", postid).Delete(&model.Post{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", postid, err)
	}
	return nil
}

func (s *contentService) GetPost(ctx context.Context, postid int64) (*model.Post, error) {
	p, err := s.postRepo.GetByID(ctx, postid)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if p == nil {
		return nil, ErrUnknownPost
	}
	return p, nil
}

func (s *contentService) AddComment(ctx context.Context, owner string, postid int64, text string) (*model.Comment, error) {
	if err := s.requireUser(ctx, owner); err != nil {
		return nil, err
	}
	if _, err := s.GetPost(ctx, postid); err != nil {
		return nil, err
	}
	c := &model.Comment{Owner: owner, Postid: postid, Text: text}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *contentService) DeleteComment(ctx context.Context, requester string, commentid int64) error {
	c, err := s.commentRepo.GetByID(ctx, commentid)
	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}
	if c == nil {
		return ErrUnknownComment
	}
	if c.Owner != requester {
		return ErrNotOwner
	}
	if err := s.commentRepo.Delete(ctx, commentid); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentid, err)
	}
	return nil
}

// ToggleLike 无赞则插入，有赞则删除，单事务执行。
// (owner, postid) 唯一键兜底并发重复请求：撞键视为"已经点过"，整体重试一次。
func (s *contentService) ToggleLike(ctx context.Context, owner string, postid int64) (*LikeState, error) {
	if err := s.requireUser(ctx, owner); err != nil {
		return nil, err
	}
	if _, err := s.GetPost(ctx, postid); err != nil {
		return nil, err
	}

	liked, err := s.toggleOnce(ctx, owner, postid)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		liked, err = s.toggleOnce(ctx, owner, postid)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	likes, err := s.likeRepo.CountByPost(ctx, postid)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	return &LikeState{Liked: liked, Likes: likes}, nil
}

func (s *contentService) toggleOnce(ctx context.Context, owner string, postid int64) (bool, error) {
	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("owner = ? AND postid = ?", owner, postid).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Create(&model.Like{Owner: owner, Postid: postid}).Error
	})
	return liked, err
}

func (s *contentService) LikeCount(ctx context.Context, postid int64) (int64, error) {
	return s.likeRepo.CountByPost(ctx, postid)
}

func (s *contentService) CommentList(ctx context.Context, postid int64) ([]*model.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postid)
}

func (s *contentService) requireUser(ctx context.Context, username string) error {
	ok, err := s.userRepo.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check user %q: %w", username, err)
	}
	if !ok {
		return ErrUnknownUser
	}
	return nil
}
