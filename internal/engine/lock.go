package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PathLocker serializes downloads that target the same output path.
// L1 is an in-process semaphore per path. L2 is a redis SET NX key so that
// several processes sharing a download directory also take turns.
type PathLocker struct {
	mu    sync.Mutex
	local map[string]*lockEntry
	rdb   *redis.Client // nil if Redis unavailable
	ttl   time.Duration
	poll  time.Duration
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// NewPathLocker sets up the locker. redisURL can be empty to disable L2.
func NewPathLocker(redisURL string, ttl time.Duration) *PathLocker {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	l := &PathLocker{local: make(map[string]*lockEntry), ttl: ttl, poll: 250 * time.Millisecond}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("lock: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("lock: redis unreachable, L2 disabled", slog.Any("error", err))
				_ = rdb.Close()
			} else {
				l.rdb = rdb
				slog.Info("lock: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}
	return l
}

// LockKey builds the redis key guarding path.
func LockKey(path string) string {
	hash := sha256.Sum256([]byte(path))
	return fmt.Sprintf("yt:lock:%x", hash[:12])
}

// Lock blocks until path is free or ctx is done. The returned func releases
// the lock and is safe to call once. A nil locker never blocks.
func (l *PathLocker) Lock(ctx context.Context, path string) (func(), error) {
	if l == nil {
		return func() {}, nil
	}

	l.mu.Lock()
	e := l.local[path]
	if e == nil {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.local[path] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	default:
		metrics.LockWaits.Add(1)
		slog.Debug("lock: waiting for path", slog.String("path", path))
		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			l.drop(path, e)
			return nil, ctx.Err()
		}
	}

	token, err := l.acquireRemote(ctx, path)
	if err != nil {
		<-e.sem
		l.drop(path, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.releaseRemote(path, token)
			<-e.sem
			l.drop(path, e)
		})
	}, nil
}

func (l *PathLocker) drop(path string, e *lockEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.local, path)
	}
	l.mu.Unlock()
}

// acquireRemote returns "" when L2 is disabled or redis failed mid-flight;
// the in-process lock still holds in that case.
func (l *PathLocker) acquireRemote(ctx context.Context, path string) (string, error) {
	if l.rdb == nil {
		return "", nil
	}
	key := LockKey(path)
	token := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Warn("lock: redis set failed, using local lock only", slog.Any("error", err))
			return "", nil
		}
		if ok {
			return token, nil
		}
		select {
		case <-time.After(l.poll):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (l *PathLocker) releaseRemote(path, token string) {
	if l.rdb == nil || token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{LockKey(path)}, token).Err(); err != nil {
		slog.Debug("lock: redis release failed", slog.Any("error", err))
	}
}
