package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/repository"
)

// RelationshipService 关系链服务：维护有向关注边并派生粉丝/关注集合
type RelationshipService interface {
	Follow(ctx context.Context, follower, target string) error
	Unfollow(ctx context.Context, follower, target string) error
	FollowersOf(ctx context.Context, username string) ([]string, error)
	FollowingOf(ctx context.Context, username string) ([]string, error)
	IsFollowing(ctx context.Context, follower, target string) (bool, error)
	FollowerCount(ctx context.Context, username string) (int64, error)
	FollowingCount(ctx context.Context, username string) (int64, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

func (s *relationshipService) Follow(ctx context.Context, follower, target string) error {
	if follower == target {
		return ErrSelfFollow
	}
	if err := s.requireUsers(ctx, follower, target); err != nil {
		return err
	}
	created, err := s.followRepo.Create(ctx, follower, target)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发下撞唯一键等价于边已存在
		return ErrAlreadyFollowing
	}
	if err != nil {
		return fmt.Errorf("create follow edge: %w", err)
	}
	if !created {
		return ErrAlreadyFollowing
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, follower, target string) error {
	if err := s.requireUsers(ctx, follower, target); err != nil {
		return err
	}
	deleted, err := s.followRepo.Delete(ctx, follower, target)
	if err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	if !deleted {
		return ErrNotFollowing
	}
	return nil
}

func (s *relationshipService) FollowersOf(ctx context.Context, username string) ([]string, error) {
	if err := s.requireUsers(ctx, username); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, username)
}

func (s *relationshipService) FollowingOf(ctx context.Context, username string) ([]string, error) {
	if err := s.requireUsers(ctx, username); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, username)
}

func (s *relationshipService) IsFollowing(ctx context.Context, follower, target string) (bool, error) {
	return s.followRepo.Exists(ctx, follower, target)
}

func (s *relationshipService) FollowerCount(ctx context.Context, username string) (int64, error) {
	return s.followRepo.CountFollowers(ctx, username)
}

func (s *relationshipService) FollowingCount(ctx context.Context, username string) (int64, error) {
	return s.followRepo.CountFollowing(ctx, username)
}

func (s *relationshipService) requireUsers(ctx context.Context, usernames ...string) error {
	for _, name := range usernames {
		ok, err := s.userRepo.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("check user %q: %w", name, err)
		}
		if !ok {
			return ErrUnknownUser
		}
	}
	return nil
}
