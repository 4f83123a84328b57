package cache

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"nub/pkg/core"
	"nub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// SpyStore 统计底层方法被调用的次数，验证请求是否穿透了缓存
// -----------------------------------------------------------------------------
type SpyStore struct {
	hasCount int32
	putCount int32
	objects  map[types.Hash][]byte
}

func NewSpyStore() *SpyStore {
	return &SpyStore{
		objects: make(map[types.Hash][]byte),
	}
}

func (s *SpyStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	atomic.AddInt32(&s.hasCount, 1)
	_, ok := s.objects[hash]
	return ok, nil
}

func (s *SpyStore) Put(ctx context.Context, obj core.Object) error {
	atomic.AddInt32(&s.putCount, 1)
	s.objects[obj.ID()] = obj.Bytes()
	return nil
}

func (s *SpyStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) { return nil, nil }
func (s *SpyStore) ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error) {
	return "", nil
}

func TestNewCachedStore_InvalidURL(t *testing.T) {
	_, err := NewCachedStore(NewSpyStore(), Config{RedisURL: "not a url"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}

func TestCachedStore_Integration(t *testing.T) {
	// 环境检查: 确保 Redis 在运行
	redisAddr := "localhost:6379"
	conn, err := net.DialTimeout("tcp", redisAddr, 1*time.Second)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	conn.Close()

	ctx := context.Background()
	spy := NewSpyStore()
	cachedStore, err := NewCachedStore(spy, Config{
		RedisURL:  fmt.Sprintf("redis://%s/0", redisAddr),
		TTL:       1 * time.Hour,
		Namespace: "test-" + t.Name(),
	})
	require.NoError(t, err)
	defer cachedStore.Close()

	obj := core.NewBlob([]byte("cached blob"))
	cachedStore.client.Del(ctx, cachedStore.cacheKey(obj.ID()))

	// --- Step 1: Cache Miss ---
	exists, err := cachedStore.Has(ctx, obj.ID())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.hasCount), "Backend Has() should be called on miss")

	// --- Step 2: Put (Write-Through) ---
	require.NoError(t, cachedStore.Put(ctx, obj))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.putCount), "Backend Put() should be called")

	redisVal, err := cachedStore.client.Exists(ctx, cachedStore.cacheKey(obj.ID())).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), redisVal, "Redis key should be set after Put")

	// --- Step 3: Cache Hit ---
	exists, err = cachedStore.Has(ctx, obj.ID())
	require.NoError(t, err)
	assert.True(t, exists)
	// Put 内部的预检调用了一次 Has，所以是 2；命中缓存后不应再增加
	assert.Equal(t, int32(2), atomic.LoadInt32(&spy.hasCount), "Backend Has() should NOT be called on hit")

	// --- Step 4: 重复 Put 不应穿透 ---
	require.NoError(t, cachedStore.Put(ctx, obj))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.putCount))
}
