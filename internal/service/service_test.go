package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

type services struct {
	db      *gorm.DB
	auth    AuthService
	rel     RelationshipService
	content ContentService
	feed    FeedService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	return &services{
		db:      db,
		auth:    NewAuthService(userRepo),
		rel:     NewRelationshipService(followRepo, userRepo),
		content: NewContentService(db, postRepo, commentRepo, likeRepo, userRepo),
		feed:    NewFeedService(userRepo, postRepo, commentRepo, likeRepo, followRepo),
	}
}

// seedFixture 灌入一份和线上演示数据等价的小数据集：
// 4 个用户、4 张帖子、4 条评论、6 个赞。
func seedFixture(t *testing.T, db *gorm.DB) {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	users := []model.User{
		{Username: "awdeorio", Fullname: "Andrew DeOrio", Email: "awdeorio@example.com",
			Filename: "e1a7c5c32973862ee15173b0259e3efdb6a391af.jpg", Password: HashPassword("chickens"), Created: base},
		{Username: "jflinn", Fullname: "Jason Flinn", Email: "jflinn@example.com",
			Filename: "505083b8b56c97429a728b68f31b0b2a089e5113.jpg", Password: HashPassword("password"), Created: base},
		{Username: "michjc", Fullname: "Michael Cafarella", Email: "michjc@example.com",
			Filename: "5ecde7677b83304132cb2871516ea50032ff7a4f.jpg", Password: HashPassword("password"), Created: base},
		{Username: "jag", Fullname: "H.V. Jagadish", Email: "jag@example.com",
			Filename: "73ab33bd357c3fd42292487b825880958c595655.jpg", Password: HashPassword("password"), Created: base},
	}
	require.NoError(t, db.Create(&users).Error)

	posts := []model.Post{
		{Owner: "awdeorio", Filename: "122a7d27ca1d7420a1072f695d9290fad4501a41.jpg", Created: base.Add(1 * time.Minute)},
		{Owner: "jflinn", Filename: "ad7790405c539894d25ab8dcf0b79eed3341e109.jpg", Created: base.Add(2 * time.Minute)},
		{Owner: "awdeorio", Filename: "9887e06812ef434d291e4936417d125cd594b38a.jpg", Created: base.Add(3 * time.Minute)},
		{Owner: "jag", Filename: "2ec7cf8ae158b3b1f40065abfb33e81143707842.jpg", Created: base.Add(4 * time.Minute)},
	}
	for i := range posts {
		require.NoError(t, db.Create(&posts[i]).Error)
		require.Equal(t, int64(i+1), posts[i].Postid)
	}

	follows := []model.Follow{
		{Username1: "awdeorio", Username2: "jflinn"},
		{Username1: "awdeorio", Username2: "michjc"},
		{Username1: "jflinn", Username2: "awdeorio"},
		{Username1: "jflinn", Username2: "michjc"},
		{Username1: "michjc", Username2: "awdeorio"},
		{Username1: "michjc", Username2: "jflinn"},
		{Username1: "michjc", Username2: "jag"},
		{Username1: "jag", Username2: "michjc"},
	}
	for i := range follows {
		follows[i].Created = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(&follows[i]).Error)
	}

	comments := []model.Comment{
		{Owner: "awdeorio", Postid: 3, Text: "#chickensofinstagram", Created: base.Add(5 * time.Minute)},
		{Owner: "jflinn", Postid: 3, Text: "I <3 chickens", Created: base.Add(6 * time.Minute)},
		{Owner: "michjc", Postid: 3, Text: "Cute overload!", Created: base.Add(7 * time.Minute)},
		{Owner: "awdeorio", Postid: 2, Text: "Sick #crossword", Created: base.Add(8 * time.Minute)},
	}
	for i := range comments {
		require.NoError(t, db.Create(&comments[i]).Error)
	}

	likes := []model.Like{
		{Owner: "awdeorio", Postid: 1},
		{Owner: "michjc", Postid: 1},
		{Owner: "jflinn", Postid: 1},
		{Owner: "awdeorio", Postid: 2},
		{Owner: "michjc", Postid: 2},
		{Owner: "awdeorio", Postid: 3},
	}
	for i := range likes {
		likes[i].Created = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(&likes[i]).Error)
	}
}
