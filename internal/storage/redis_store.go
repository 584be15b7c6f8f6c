package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"coinpulse/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore caches the latest analysis result per symbol so the report
// surface can render without re-running the pipeline. Entries expire; the
// pipeline itself never reads from here.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func resultKey(symbol string) string {
	return fmt.Sprintf("pulse:result:%s", strings.ToUpper(symbol))
}

const symbolsKey = "pulse:symbols"

// SaveResult stores the aggregate for its symbol and records the symbol in
// the recency set.
func (s *RedisStore) SaveResult(ctx context.Context, result *model.AnalysisResult, ttl time.Duration) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, resultKey(result.Symbol), b, ttl).Err(); err != nil {
		return err
	}
	z := redis.Z{Score: float64(result.StartedAt.Unix()), Member: strings.ToUpper(result.Symbol)}
	return s.rdb.ZAdd(ctx, symbolsKey, z).Err()
}

// LatestResult returns the cached aggregate for symbol, or nil when none
// is stored.
func (s *RedisStore) LatestResult(ctx context.Context, symbol string) (*model.AnalysisResult, error) {
	b, err := s.rdb.Get(ctx, resultKey(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.AnalysisResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentSymbols lists up to n symbols by last analysis time, newest first.
func (s *RedisStore) RecentSymbols(ctx context.Context, n int) ([]string, error) {
	return s.rdb.ZRevRange(ctx, symbolsKey, 0, int64(n-1)).Result()
}
