package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	ratelimiter "medremind/internal/core/domain/rate_limiter"
	"time"

	"github.com/go-redis/redis/v9"
)

// Redis counts calls per key in fixed windows of the limit interval.
type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, log: log, now: now}
}

func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	if limit.Interval.Duration() <= 0 {
		panic("invalid rate limiting interval")
	}
	k := fmt.Sprintf("%s::%s::%d", key, limit.Interval, limit.Interval.Window(r.now()))

	cmds, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, limit.Interval.Duration())
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return ratelimiter.NotAllowed()
	}
	if err != nil {
		r.log.Error(ctx, "Could not check rate limit due to Redis client error.", logging.Entry("err", err))
		return ratelimiter.Allowed()
	}
	intCmd := cmds[0].(*redis.IntCmd)
	if intCmd.Val() > int64(limit.Value) {
		return ratelimiter.NotAllowed()
	}
	return ratelimiter.Allowed()
}
