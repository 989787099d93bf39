package regenlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/markdave123-py/Coursely/internal/logger"
)

// Locker serialises content regeneration for a course across instances.
type Locker interface {
	// Acquire blocks until the lock for key is held or ctx ends. The
	// returned release func is never nil.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Noop is used when no Redis is configured; in-process dedup still applies.
type Noop struct{}

func (Noop) Acquire(ctx context.Context, _ string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	return func() {}, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Redis struct {
	rdb    *goredis.Client
	log    *logger.Logger
	ttl    time.Duration
	poll   time.Duration
	prefix string
}

func NewRedis(ctx context.Context, addr string, ttl time.Duration, log *logger.Logger) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		rdb:    rdb,
		log:    log.With("service", "RegenLock"),
		ttl:    ttl,
		poll:   200 * time.Millisecond,
		prefix: "coursely:regen:",
	}, nil
}

// Acquire polls SET NX until it wins. Redis failures degrade to running
// unlocked rather than failing the request.
func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := r.prefix + key

	for {
		ok, err := r.rdb.SetNX(ctx, redisKey, token, r.ttl).Result()
		switch {
		case err != nil && ctx.Err() != nil:
			return func() {}, ctx.Err()
		case err != nil:
			r.log.Warn("regen lock unavailable, continuing without it", "key", key, "error", err)
			return func() {}, nil
		case ok:
			return func() { r.release(redisKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

func (r *Redis) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := releaseScript.Run(ctx, r.rdb, []string{redisKey}, token).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		r.log.Warn("regen lock release failed", "key", redisKey, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
