package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CallLog implements usecase.CallLimiter with a Redis sorted set per key.
// Each recorded call is a member scored by its unix timestamp, so counting
// the trailing window is a score-range query. Counting and recording stay
// separate operations; concurrent bursts from one caller may slightly
// overshoot the limit.
type CallLog struct {
	client *redis.Client
	prefix string
}

// NewCallLog creates a new CallLog.
func NewCallLog(client *redis.Client) *CallLog {
	return &CallLog{
		client: client,
		prefix: "ratelimit:",
	}
}

// CountRecent counts calls recorded for key within the trailing window.
// Entries older than the window are dropped first.
func (l *CallLog) CountRecent(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := l.prefix + key
	cutoff := time.Now().UTC().Add(-window).UnixMilli()

	if err := l.client.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return 0, err
	}

	return l.client.ZCard(ctx, fullKey).Result()
}

// Record appends one call at the given time. The key expires a window after
// the most recent call so idle keys clean themselves up.
func (l *CallLog) Record(ctx context.Context, key string, at time.Time, window time.Duration) error {
	fullKey := l.prefix + key
	ts := at.UnixMilli()

	if err := l.client.ZAdd(ctx, fullKey, redis.Z{
		Score:  float64(ts),
		Member: strconv.FormatInt(ts, 10) + ":" + strconv.FormatInt(int64(at.Nanosecond()), 10),
	}).Err(); err != nil {
		return err
	}

	return l.client.Expire(ctx, fullKey, window).Err()
}
