package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/config"
	"github.com/d60-Lab/social-graph/internal/cacheperf"
	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/database"
)

type request struct {
	page int
	size int
}

func main() {
	ctx := context.Background()

	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	// clean slate for a reproducible run
	mustDo(db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Follow{}).Error)
	mustDo(db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Like{}).Error)
	mustDo(db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Comment{}).Error)
	mustDo(db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Post{}).Error)
	mustDo(db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error)

	const followerCount = 10000

	fmt.Println("Seeding followers...")
	celeb := model.User{Username: "celeb", Fullname: "Celebrity", Email: "celeb@example.com", Filename: "celeb.jpg", Password: "pbkdf2$bench$deadbeef"}
	mustDo(db.Create(&celeb).Error)

	base := time.Now()
	users := make([]model.User, followerCount)
	edges := make([]model.Follow, followerCount)
	for i := 0; i < followerCount; i++ {
		name := fmt.Sprintf("fan_%05d", i)
		users[i] = model.User{
			Username: name,
			Fullname: "Fan " + name,
			Email:    name + "@example.com",
			Filename: name + ".jpg",
			Password: "pbkdf2$bench$deadbeef",
		}
		edges[i] = model.Follow{
			Username1: name,
			Username2: celeb.Username,
			Created:   base.Add(-time.Duration(i) * time.Second),
		}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)
	mustDo(db.CreateInBatches(&edges, 1000).Error)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("redis at %s: %v", cfg.Redis.Addr, err))
	}

	reader := cacheperf.NewFollowerReader(db, client, 10*time.Minute, 2*time.Millisecond)
	reqs := makeRequests(5000)

	noCache := runScenario(ctx, reader, client, reqs, false, func(ctx context.Context, r request) ([]cacheperf.FollowerSnapshot, error) {
		return reader.FetchNoCache(ctx, celeb.Username, r.page, r.size)
	})
	naive := runScenario(ctx, reader, client, reqs, true, func(ctx context.Context, r request) ([]cacheperf.FollowerSnapshot, error) {
		return reader.FetchNaiveCache(ctx, celeb.Username, r.page, r.size)
	})
	indexed := runScenario(ctx, reader, client, reqs, true, func(ctx context.Context, r request) ([]cacheperf.FollowerSnapshot, error) {
		return reader.FetchIndexed(ctx, celeb.Username, r.page, r.size)
	})

	fmt.Printf("\nFollower page latency (%d req, %d followers)\n", len(reqs), followerCount)
	report("no cache", noCache)
	report("naive page cache", naive)
	report("indexed cache", indexed)
}

type scenarioResult struct {
	durations []time.Duration
	counters  cacheperf.FollowerDBCounters
}

func report(name string, res scenarioResult) {
	fmt.Printf("%-18s avg=%v p95=%v p99=%v db_page=%d db_index=%d db_user_bulk=%d\n",
		name, avg(res.durations), pct(res.durations, 0.95), pct(res.durations, 0.99),
		res.counters.PageQueries, res.counters.IndexLoads, res.counters.UserBulkLoad)
}

func runScenario(ctx context.Context, reader *cacheperf.FollowerReader, client *redis.Client, reqs []request, warm bool, call func(context.Context, request) ([]cacheperf.FollowerSnapshot, error)) scenarioResult {
	client.FlushAll(ctx)
	reader.ResetCounters()

	if warm {
		for _, r := range reqs {
			if _, err := call(ctx, r); err != nil {
				panic(err)
			}
		}
	}

	out := make([]time.Duration, 0, len(reqs))
	for _, r := range reqs {
		start := time.Now()
		if _, err := call(ctx, r); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	return scenarioResult{durations: out, counters: reader.Counters()}
}

func makeRequests(n int) []request {
	sizes := []int{20, 40, 60}
	out := make([]request, n)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		size := sizes[rnd.Intn(len(sizes))]
		page := 1
		if rnd.Float64() > 0.72 {
			// simulate deep pagination
			page = 2 + rnd.Intn(120)
		}
		out[i] = request{page: page, size: size}
	}
	return out
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
