package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/social-graph/config"
	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/logger"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 { return v }
	}
	return def
}

func main() {
	cfg := must(config.Load())
	_ = logger.Init(cfg.Log.Level, cfg.Server.Mode)
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	relSvc := service.NewRelationshipService(followRepo, userRepo)

	ctx := context.Background()
	N := envInt("N", 5000)     // 用户数
	EDGES := envInt("EDGES", 20000) // 随机关注边数

	// seed users
	users := make([]model.User, N)
	for i := range users {
		name := fmt.Sprintf("u%05d", i)
		users[i] = model.User{
			Username: name,
			Fullname: "bench user " + name,
			Email:    name + "@example.com",
			Filename: name + ".jpg",
			Password: "pbkdf2$bench$deadbeef",
		}
	}
	for i := 0; i < N; i += 1000 {
		end := i + 1000
		if end > N { end = N }
		sub := users[i:end]
		must(0, db.Create(&sub).Error)
	}

	// measure follow writes
	rnd := rand.New(rand.NewSource(42))
	writes := make([]time.Duration, 0, EDGES)
	for i := 0; i < EDGES; i++ {
		from := users[rnd.Intn(N)].Username
		to := users[rnd.Intn(N)].Username
		if from == to { continue }
		start := time.Now()
		_ = relSvc.Follow(ctx, from, to)
		writes = append(writes, time.Since(start))
	}

	// measure follower page reads against the hottest user
	hot := users[0].Username
	for i := 1; i < N; i++ {
		_ = relSvc.Follow(ctx, users[i].Username, hot)
	}
	reads := make([]time.Duration, 0, 2000)
	for i := 0; i < 2000; i++ {
		start := time.Now()
		must(relSvc.FollowersOf(ctx, hot))
		reads = append(reads, time.Since(start))
	}

	fmt.Printf("follow writes n=%d p50=%v p95=%v p99=%v\n",
		len(writes), pct(writes, 0.50), pct(writes, 0.95), pct(writes, 0.99))
	fmt.Printf("follower reads n=%d p50=%v p95=%v p99=%v\n",
		len(reads), pct(reads, 0.50), pct(reads, 0.95), pct(reads, 0.99))
}
