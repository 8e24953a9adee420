package cacheperf

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

// FollowerSnapshot contains the fields a followers page actually renders.
type FollowerSnapshot struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Filename string `json:"filename"`
}

// FollowerDBCounters tallies primary-store round trips per strategy.
type FollowerDBCounters struct {
	PageQueries  int64
	IndexLoads   int64
	UserBulkLoad int64
}

// FollowerReader compares read strategies for follower pages. Measurement
// tooling only: the serving path always recomputes follower sets from the
// relational store, nothing here feeds user-visible counts.
type FollowerReader struct {
	db      *gorm.DB
	cache   *redis.Client
	ttl     time.Duration
	dbDelay time.Duration

	pageQueries  atomic.Int64
	indexLoads   atomic.Int64
	userBulkLoad atomic.Int64
}

// NewFollowerReader builds a reader over the real schema plus a Redis client.
// dbDelay simulates the round-trip cost of hitting the primary store.
func NewFollowerReader(db *gorm.DB, cache *redis.Client, ttl, dbDelay time.Duration) *FollowerReader {
	return &FollowerReader{db: db, cache: cache, ttl: ttl, dbDelay: dbDelay}
}

// FetchNoCache always goes to the relational store.
func (r *FollowerReader) FetchNoCache(ctx context.Context, username string, page, size int) ([]FollowerSnapshot, error) {
	return r.queryFollowers(ctx, username, page, size)
}

// FetchNaiveCache caches whole rendered pages keyed by (user, page, size).
func (r *FollowerReader) FetchNaiveCache(ctx context.Context, username string, page, size int) ([]FollowerSnapshot, error) {
	key := fmt.Sprintf("followers:%s:%d:%d", username, page, size)
	if data, err := r.cache.Get(ctx, key).Bytes(); err == nil {
		var out []FollowerSnapshot
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			return out, nil
		}
	}

	rows, err := r.queryFollowers(ctx, username, page, size)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rows); err == nil {
		_ = r.cache.Set(ctx, key, payload, r.ttl).Err()
	}
	return rows, nil
}

// FetchIndexed keeps one Redis list of follower usernames per user plus
// per-user snapshot entries, so all pages share the cached index.
func (r *FollowerReader) FetchIndexed(ctx context.Context, username string, page, size int) ([]FollowerSnapshot, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	key := fmt.Sprintf("followers:index:%s", username)
	start := (page - 1) * size
	end := start + size - 1

	var names []string
	if exists, _ := r.cache.Exists(ctx, key).Result(); exists > 0 {
		names, _ = r.cache.LRange(ctx, key, int64(start), int64(end)).Result()
	}
	if len(names) == 0 {
		all, err := r.loadFollowerIndex(ctx, username)
		if err != nil {
			return nil, err
		}
		if start >= len(all) {
			return []FollowerSnapshot{}, nil
		}
		endIdx := start + size
		if endIdx > len(all) {
			endIdx = len(all)
		}
		names = all[start:endIdx]
	}
	return r.loadSnapshots(ctx, names)
}

// Counters returns the accumulated DB round-trip tallies.
func (r *FollowerReader) Counters() FollowerDBCounters {
	return FollowerDBCounters{
		PageQueries:  r.pageQueries.Load(),
		IndexLoads:   r.indexLoads.Load(),
		UserBulkLoad: r.userBulkLoad.Load(),
	}
}

func (r *FollowerReader) ResetCounters() {
	r.pageQueries.Store(0)
	r.indexLoads.Store(0)
	r.userBulkLoad.Store(0)
}

func (r *FollowerReader) queryFollowers(ctx context.Context, username string, page, size int) ([]FollowerSnapshot, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	time.Sleep(r.dbDelay)
	r.pageQueries.Add(1)

	var rows []FollowerSnapshot
	err := r.db.WithContext(ctx).
		Table("following").
		Select("users.username", "users.fullname", "users.filename").
		Joins("JOIN users ON following.username1 = users.username").
		Where("following.username2 = ?", username).
		Order("following.created").
		Offset((page - 1) * size).
		Limit(size).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *FollowerReader) loadFollowerIndex(ctx context.Context, username string) ([]string, error) {
	time.Sleep(r.dbDelay)
	r.indexLoads.Add(1)

	var names []string
	if err := r.db.WithContext(ctx).
		Table("following").
		Select("username1").
		Where("username2 = ?", username).
		Order("created").
		Scan(&names).Error; err != nil {
		return nil, err
	}

	key := fmt.Sprintf("followers:index:%s", username)
	if len(names) > 0 {
		pipe := r.cache.Pipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, interfaceSlice(names)...)
		pipe.Expire(ctx, key, r.ttl)
		_, _ = pipe.Exec(ctx)
	}
	return names, nil
}

func (r *FollowerReader) loadSnapshots(ctx context.Context, names []string) ([]FollowerSnapshot, error) {
	if len(names) == 0 {
		return []FollowerSnapshot{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = "follower:snap:" + name
	}
	cached := make(map[string]FollowerSnapshot, len(names))
	if vals, err := r.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var snap FollowerSnapshot
			if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
				cached[names[i]] = snap
			}
		}
	}

	missing := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := cached[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		r.userBulkLoad.Add(1)
		time.Sleep(r.dbDelay)

		var users []model.User
		if err := r.db.WithContext(ctx).Where("username IN ?", missing).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			snap := FollowerSnapshot{Username: u.Username, Fullname: u.Fullname, Filename: u.Filename}
			cached[u.Username] = snap
			if payload, err := json.Marshal(snap); err == nil {
				_ = r.cache.Set(ctx, "follower:snap:"+u.Username, payload, r.ttl).Err()
			}
		}
	}

	result := make([]FollowerSnapshot, 0, len(names))
	for _, name := range names {
		if snap, ok := cached[name]; ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
