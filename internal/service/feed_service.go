package service

import (
	"context"
	"fmt"
	"time"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
)

// PostCard feed 列表里的一条帖子
type PostCard struct {
	Postid        int64     `json:"postid"`
	Owner         string    `json:"owner"`
	OwnerFilename string    `json:"owner_filename"`
	Filename      string    `json:"filename"`
	Created       time.Time `json:"created"`
	Likes         int64     `json:"likes"`
	Comments      int64     `json:"comments"`
}

// CommentView 帖子详情里的一条评论
type CommentView struct {
	Commentid  int64     `json:"commentid"`
	Owner      string    `json:"owner"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
	ViewerOwns bool      `json:"viewer_owns"`
}

// PostDetailView 帖子详情页
type PostDetailView struct {
	Postid        int64         `json:"postid"`
	Owner         string        `json:"owner"`
	OwnerFilename string        `json:"owner_filename"`
	Filename      string        `json:"filename"`
	Created       time.Time     `json:"created"`
	Likes         int64         `json:"likes"`
	ViewerLiked   bool          `json:"viewer_liked"`
	ViewerOwns    bool          `json:"viewer_owns"`
	Comments      []CommentView `json:"comments"`
}

// ProfileView 个人主页
type ProfileView struct {
	Username       string     `json:"username"`
	Fullname       string     `json:"fullname"`
	Filename       string     `json:"filename"`
	PostCount      int64      `json:"post_count"`
	FollowerCount  int64      `json:"follower_count"`
	FollowingCount int64      `json:"following_count"`
	IsSelf         bool       `json:"is_self"`
	ViewerFollows  bool       `json:"viewer_follows"`
	Posts          []PostCard `json:"posts"`
}

// FollowListEntry 粉丝/关注列表里的一个人。
// ViewerFollows 相对当前登录者而非列表归属者，前端据此渲染 follow/unfollow 按钮。
type FollowListEntry struct {
	Username      string `json:"username"`
	Fullname      string `json:"fullname"`
	Filename      string `json:"filename"`
	ViewerFollows bool   `json:"viewer_follows"`
	IsSelf        bool   `json:"is_self"`
}

// FeedService 视图拼装。每个视图都是当前关系状态 + viewer 的纯函数，
// 不做任何会话级缓存，宁可重算也不承担脏读。
type FeedService interface {
	Home(ctx context.Context, viewer string) ([]PostCard, error)
	Explore(ctx context.Context, viewer string) ([]PostCard, error)
	Profile(ctx context.Context, viewer, target string) (*ProfileView, error)
	PostDetail(ctx context.Context, viewer string, postid int64) (*PostDetailView, error)
	Followers(ctx context.Context, viewer, target string) ([]FollowListEntry, error)
	Following(ctx context.Context, viewer, target string) ([]FollowListEntry, error)
}

type feedService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	followRepo  repository.FollowRepository
}

func NewFeedService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	followRepo repository.FollowRepository,
) FeedService {
	return &feedService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		followRepo:  followRepo,
	}
}

// Home 首页：自己 + 关注者的帖子，时间倒序
func (s *feedService) Home(ctx context.Context, viewer string) ([]PostCard, error) {
	if err := s.requireUser(ctx, viewer); err != nil {
		return nil, err
	}
	following, err := s.followRepo.ListFollowing(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	owners := append(following, viewer)
	posts, err := s.postRepo.ListByOwners(ctx, owners)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.buildCards(ctx, posts)
}

// Explore 发现页：未关注者的帖子。被谁都不关注的用户
// 也会出现在别人的发现页里，排除规则本身就保证了这一点。
func (s *feedService) Explore(ctx context.Context, viewer string) ([]PostCard, error) {
	if err := s.requireUser(ctx, viewer); err != nil {
		return nil, err
	}
	following, err := s.followRepo.ListFollowing(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	excluded := append(following, viewer)
	posts, err := s.postRepo.ListExcludingOwners(ctx, excluded)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.buildCards(ctx, posts)
}

func (s *feedService) Profile(ctx context.Context, viewer, target string) (*ProfileView, error) {
	u, err := s.userRepo.GetByUsername(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, ErrUnknownUser
	}

	posts, err := s.postRepo.ListByOwners(ctx, []string{target})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	cards, err := s.buildCards(ctx, posts)
	if err != nil {
		return nil, err
	}
	postCount, err := s.postRepo.CountByOwner(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	followerCount, err := s.followRepo.CountFollowers(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	followingCount, err := s.followRepo.CountFollowing(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	viewerFollows := false
	if viewer != target {
		viewerFollows, err = s.followRepo.Exists(ctx, viewer, target)
		if err != nil {
			return nil, fmt.Errorf("check follow edge: %w", err)
		}
	}

	return &ProfileView{
		Username:       u.Username,
		Fullname:       u.Fullname,
		Filename:       u.Filename,
		PostCount:      postCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		IsSelf:         viewer == target,
		ViewerFollows:  viewerFollows,
		Posts:          cards,
	}, nil
}

func (s *feedService) PostDetail(ctx context.Context, viewer string, postid int64) (*PostDetailView, error) {
	p, err := s.postRepo.GetByID(ctx, postid)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if p == nil {
		return nil, ErrUnknownPost
	}

	owner, err := s.userRepo.GetByUsername(ctx, p.Owner)
	if err != nil {
		return nil, fmt.Errorf("lookup owner: %w", err)
	}
	ownerFilename := ""
	if owner != nil {
		ownerFilename = owner.Filename
	}

	likes, err := s.likeRepo.CountByPost(ctx, postid)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	liked, err := s.likeRepo.Exists(ctx, viewer, postid)
	if err != nil {
		return nil, fmt.Errorf("check like: %w", err)
	}
	comments, err := s.commentRepo.ListByPost(ctx, postid)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			Commentid:  c.Commentid,
			Owner:      c.Owner,
			Text:       c.Text,
			Created:    c.Created,
			ViewerOwns: c.Owner == viewer,
		})
	}

	return &PostDetailView{
		Postid:        p.Postid,
		Owner:         p.Owner,
		OwnerFilename: ownerFilename,
		Filename:      p.Filename,
		Created:       p.Created,
		Likes:         likes,
		ViewerLiked:   liked,
		ViewerOwns:    p.Owner == viewer,
		Comments:      views,
	}, nil
}

func (s *feedService) Followers(ctx context.Context, viewer, target string) ([]FollowListEntry, error) {
	if err := s.requireUser(ctx, target); err != nil {
		return nil, err
	}
	names, err := s.followRepo.ListFollowers(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return s.buildFollowList(ctx, viewer, names)
}

func (s *feedService) Following(ctx context.Context, viewer, target string) ([]FollowListEntry, error) {
	if err := s.requireUser(ctx, target); err != nil {
		return nil, err
	}
	names, err := s.followRepo.ListFollowing(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return s.buildFollowList(ctx, viewer, names)
}

// buildFollowList 给每个条目标注 viewer 是否关注了 TA。
// 标注是 viewer 关注集的成员判定，与列表归属者自身的边无关。
func (s *feedService) buildFollowList(ctx context.Context, viewer string, names []string) ([]FollowListEntry, error) {
	users, err := s.userRepo.GetMany(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	viewerFollowing, err := s.followRepo.ListFollowing(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("load viewer following: %w", err)
	}
	followSet := make(map[string]struct{}, len(viewerFollowing))
	for _, name := range viewerFollowing {
		followSet[name] = struct{}{}
	}

	entries := make([]FollowListEntry, 0, len(names))
	for _, name := range names {
		e := FollowListEntry{Username: name, IsSelf: name == viewer}
		if u, ok := users[name]; ok {
			e.Fullname = u.Fullname
			e.Filename = u.Filename
		}
		_, e.ViewerFollows = followSet[name]
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *feedService) buildCards(ctx context.Context, posts []*model.Post) ([]PostCard, error) {
	owners := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Owner]; !ok {
			seen[p.Owner] = struct{}{}
			owners = append(owners, p.Owner)
		}
	}
	users, err := s.userRepo.GetMany(ctx, owners)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}

	cards := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		likes, err := s.likeRepo.CountByPost(ctx, p.Postid)
		if err != nil {
			return nil, fmt.Errorf("count likes: %w", err)
		}
		comments, err := s.commentRepo.CountByPost(ctx, p.Postid)
		if err != nil {
			return nil, fmt.Errorf("count comments: %w", err)
		}
		card := PostCard{
			Postid:   p.Postid,
			Owner:    p.Owner,
			Filename: p.Filename,
			Created:  p.Created,
			Likes:    likes,
			Comments: comments,
		}
		if u, ok := users[p.Owner]; ok {
			card.OwnerFilename = u.Filename
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *feedService) requireUser(ctx context.Context, username string) error {
	ok, err := s.userRepo.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check user %q: %w", username, err)
	}
	if !ok {
		return ErrUnknownUser
	}
	return nil
}
