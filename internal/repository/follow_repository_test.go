package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/database"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, db.Create(&model.User{
			Username: name,
			Fullname: name,
			Email:    name + "@example.com",
			Filename: name + ".jpg",
			Password: "x",
		}).Error)
	}
}

func TestFollowCreateIdempotent(t *testing.T) {
	db := setupRepoDB(t)
	seedUsers(t, db, "alice", "bob")
	repo := NewFollowRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, created)

	// 第二次写入不报错，也不产生第二条边
	created, err = repo.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, created)

	var cnt int64
	require.NoError(t, db.Model(&model.Follow{}).
		Where("username1 = ? AND username2 = ?", "alice", "bob").
		Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
}

func TestFollowEdgeIsDirected(t *testing.T) {
	db := setupRepoDB(t)
	seedUsers(t, db, "alice", "bob")
	repo := NewFollowRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, created)

	// 反向是一条独立的边
	ok, err := repo.Exists(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	created, err = repo.Create(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestFollowDeleteReportsEffect(t *testing.T) {
	db := setupRepoDB(t)
	seedUsers(t, db, "alice", "bob")
	repo := NewFollowRepository(db)
	ctx := context.Background()

	deleted, err := repo.Delete(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	deleted, err = repo.Delete(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestFollowListsAndCounts(t *testing.T) {
	db := setupRepoDB(t)
	seedUsers(t, db, "alice", "bob", "carol")
	repo := NewFollowRepository(db)
	ctx := context.Background()

	for _, pair := range [][2]string{{"bob", "alice"}, {"carol", "alice"}, {"alice", "carol"}} {
		_, err := repo.Create(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	followers, err := repo.ListFollowers(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, followers)

	following, err := repo.ListFollowing(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, following)

	nFollowers, err := repo.CountFollowers(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), nFollowers)
	nFollowing, err := repo.CountFollowing(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), nFollowing)
}

func TestFollowForeignKeyEnforced(t *testing.T) {
	db := setupRepoDB(t)
	seedUsers(t, db, "alice")
	repo := NewFollowRepository(db)

	// 指向不存在用户的边被外键挡下
	_, err := repo.Create(context.Background(), "alice", "ghost")
	assert.Error(t, err)
}
