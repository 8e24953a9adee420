package cacheperf

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/database"
)

func setupReader(t *testing.T) (*FollowerReader, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewFollowerReader(db, rdb, time.Minute, 0), db
}

func seedCelebrity(t *testing.T, db *gorm.DB, followers int) {
	t.Helper()
	celeb := model.User{Username: "celeb", Fullname: "Celebrity", Email: "celeb@example.com", Filename: "celeb.jpg", Password: "x"}
	require.NoError(t, db.Create(&celeb).Error)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < followers; i++ {
		name := fmt.Sprintf("fan%04d", i)
		require.NoError(t, db.Create(&model.User{
			Username: name, Fullname: "Fan " + name, Email: name + "@example.com",
			Filename: name + ".jpg", Password: "x",
		}).Error)
		require.NoError(t, db.Create(&model.Follow{
			Username1: name, Username2: "celeb", Created: base.Add(time.Duration(i) * time.Second),
		}).Error)
	}
}

func TestStrategiesAgree(t *testing.T) {
	reader, db := setupReader(t)
	seedCelebrity(t, db, 45)
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		want, err := reader.FetchNoCache(ctx, "celeb", page, 20)
		require.NoError(t, err)

		naive, err := reader.FetchNaiveCache(ctx, "celeb", page, 20)
		require.NoError(t, err)
		assert.Equal(t, want, naive, "naive page %d", page)

		indexed, err := reader.FetchIndexed(ctx, "celeb", page, 20)
		require.NoError(t, err)
		assert.Equal(t, want, indexed, "indexed page %d", page)
	}

	// 最后一页是不满的
	last, err := reader.FetchNoCache(ctx, "celeb", 3, 20)
	require.NoError(t, err)
	assert.Len(t, last, 5)

	// 越界页为空
	empty, err := reader.FetchIndexed(ctx, "celeb", 10, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNaiveCacheSkipsSecondQuery(t *testing.T) {
	reader, db := setupReader(t)
	seedCelebrity(t, db, 10)
	ctx := context.Background()

	_, err := reader.FetchNaiveCache(ctx, "celeb", 1, 20)
	require.NoError(t, err)
	_, err = reader.FetchNaiveCache(ctx, "celeb", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), reader.Counters().PageQueries)
}

func TestIndexedCacheSharesIndexAcrossPages(t *testing.T) {
	reader, db := setupReader(t)
	seedCelebrity(t, db, 45)
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		_, err := reader.FetchIndexed(ctx, "celeb", page, 20)
		require.NoError(t, err)
	}
	// 索引只从主库装载一次，之后的页共享
	assert.Equal(t, int64(1), reader.Counters().IndexLoads)

	reader.ResetCounters()
	_, err := reader.FetchIndexed(ctx, "celeb", 1, 20)
	require.NoError(t, err)
	c := reader.Counters()
	assert.Equal(t, int64(0), c.IndexLoads)
	assert.Equal(t, int64(0), c.UserBulkLoad)
}
