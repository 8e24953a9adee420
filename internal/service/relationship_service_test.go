package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-graph/internal/model"
)

func TestFollowUnfollow(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	// awdeorio 尚未关注 jag
	ok, err := s.rel.IsFollowing(ctx, "awdeorio", "jag")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.rel.Follow(ctx, "awdeorio", "jag"))
	ok, err = s.rel.IsFollowing(ctx, "awdeorio", "jag")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.rel.Unfollow(ctx, "awdeorio", "jag"))
	ok, err = s.rel.IsFollowing(ctx, "awdeorio", "jag")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowTwiceLeavesOneEdge(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	require.NoError(t, s.rel.Follow(ctx, "jag", "awdeorio"))
	assert.ErrorIs(t, s.rel.Follow(ctx, "jag", "awdeorio"), ErrAlreadyFollowing)

	var cnt int64
	require.NoError(t, s.db.Model(&model.Follow{}).
		Where("username1 = ? AND username2 = ?", "jag", "awdeorio").
		Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
}

func TestSelfFollowRejected(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	assert.ErrorIs(t, s.rel.Follow(ctx, "awdeorio", "awdeorio"), ErrSelfFollow)

	var cnt int64
	require.NoError(t, s.db.Model(&model.Follow{}).
		Where("username1 = username2").Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestFollowUnknownUser(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	assert.ErrorIs(t, s.rel.Follow(ctx, "awdeorio", "nosuchuser"), ErrUnknownUser)
	assert.ErrorIs(t, s.rel.Follow(ctx, "nosuchuser", "awdeorio"), ErrUnknownUser)
	assert.ErrorIs(t, s.rel.Unfollow(ctx, "awdeorio", "nosuchuser"), ErrUnknownUser)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	// awdeorio 没关注 jag
	assert.ErrorIs(t, s.rel.Unfollow(ctx, "awdeorio", "jag"), ErrNotFollowing)
}

func TestFollowerSetsAndCounts(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	followers, err := s.rel.FollowersOf(ctx, "awdeorio")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"jflinn", "michjc"}, followers)

	following, err := s.rel.FollowingOf(ctx, "michjc")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"awdeorio", "jflinn", "jag"}, following)

	// 计数永远等于集合基数
	assertCountsConsistent := func() {
		for _, u := range []string{"awdeorio", "jflinn", "michjc", "jag"} {
			fs, err := s.rel.FollowersOf(ctx, u)
			require.NoError(t, err)
			fc, err := s.rel.FollowerCount(ctx, u)
			require.NoError(t, err)
			assert.Equal(t, int64(len(fs)), fc, "follower count for %s", u)

			gs, err := s.rel.FollowingOf(ctx, u)
			require.NoError(t, err)
			gc, err := s.rel.FollowingCount(ctx, u)
			require.NoError(t, err)
			assert.Equal(t, int64(len(gs)), gc, "following count for %s", u)
		}
	}

	assertCountsConsistent()
	require.NoError(t, s.rel.Follow(ctx, "jag", "awdeorio"))
	assertCountsConsistent()
	require.NoError(t, s.rel.Unfollow(ctx, "michjc", "jflinn"))
	assertCountsConsistent()
}

func TestFollowSetsExcludeSelf(t *testing.T) {
	s := newServices(t)
	seedFixture(t, s.db)
	ctx := context.Background()

	for _, u := range []string{"awdeorio", "jflinn", "michjc", "jag"} {
		fs, err := s.rel.FollowersOf(ctx, u)
		require.NoError(t, err)
		assert.NotContains(t, fs, u)

		gs, err := s.rel.FollowingOf(ctx, u)
		require.NoError(t, err)
		assert.NotContains(t, gs, u)
	}
}
