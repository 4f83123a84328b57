package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"nub/pkg/core"
	"nub/pkg/storage"
	"nub/pkg/types"

	"github.com/redis/go-redis/v9"
)

// CachedStore 是一个装饰器，它为底层的 storage.Store 添加 Redis 存在性缓存
type CachedStore struct {
	backend   storage.Store
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

type Config struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 过期时间
	// Namespace 区分同一个 Redis 中的不同 Store (objects / commits)
	Namespace string
}

func NewCachedStore(backend storage.Store, cfg Config) (*CachedStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = "obj"
	}

	return &CachedStore{
		backend:   backend,
		client:    client,
		ttl:       cfg.TTL,
		namespace: ns,
	}, nil
}

func (s *CachedStore) cacheKey(hash types.Hash) string {
	return "nub:" + s.namespace + ":" + string(hash)
}

// Has 优先查 Redis
func (s *CachedStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	key := s.cacheKey(hash)

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		// Redis 故障时退化为无缓存模式，直接查底层存储
		slog.Warn("redis exists failed, falling back to backend", slog.String("hash", hash.String()), slog.Any("err", err))
	} else if val > 0 {
		return true, nil
	}

	found, err := s.backend.Has(ctx, hash)
	if err != nil {
		return false, err
	}

	// 缓存回填；命令结束前完成，进程只跑一次命令
	if found {
		if err := s.client.Set(ctx, key, "1", s.ttl).Err(); err != nil {
			slog.Warn("redis cache fill failed", slog.String("hash", hash.String()), slog.Any("err", err))
		}
	}

	return found, nil
}

// Put 利用 Has 的缓存能力进行预检
func (s *CachedStore) Put(ctx context.Context, obj core.Object) error {
	exists, err := s.Has(ctx, obj.ID())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.backend.Put(ctx, obj); err != nil {
		return err
	}

	// 只有底层写入成功了，才写 Redis
	if err := s.client.Set(ctx, s.cacheKey(obj.ID()), "1", s.ttl).Err(); err != nil {
		slog.Warn("redis set failed", slog.String("hash", obj.ID().String()), slog.Any("err", err))
	}
	return nil
}

// Get 透传 - 不缓存对象内容，只缓存存在性
func (s *CachedStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	return s.backend.Get(ctx, hash)
}

func (s *CachedStore) ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error) {
	return s.backend.ExpandHash(ctx, short)
}

func (s *CachedStore) Close() error {
	return s.client.Close()
}
