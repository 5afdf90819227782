package joblock

import (
	"context"
	"time"

	"couponkeeper/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrAlreadyLocked = errs.New("job lock is held by another invocation")

// Locker serializes job invocations. The daily sweep is idempotent on the
// expiry transition but not on notification sends, so overlapping runs must
// be prevented.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), err error)
}

// RedisLocker implements Locker with SET NX. The lock token guards release so
// an expired holder cannot free a lock re-acquired by somebody else.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	key := "joblock:" + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, errs.Wrap(err, "failed to acquire job lock")
	}
	if !ok {
		return nil, ErrAlreadyLocked
	}

	release := func() {
		// Compare-and-delete so we never release a successor's lock.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		_ = l.client.Eval(context.Background(), script, []string{key}, token).Err()
	}
	return release, nil
}

// NopLocker is used when no Redis is configured; the deployment must then
// guarantee a single scheduler.
type NopLocker struct{}

func (NopLocker) Acquire(_ context.Context, _ string, _ time.Duration) (func(), error) {
	return func() {}, nil
}
