package ingester

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"nub/pkg/core"
	"nub/pkg/storage"
	"nub/pkg/storage/disk"
	"nub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyStore 记录 Put 调用次数，并在内存中保存对象
type spyStore struct {
	mu      sync.Mutex
	puts    int
	objects map[types.Hash][]byte
	putErr  error
}

func newSpyStore() *spyStore {
	return &spyStore{objects: make(map[types.Hash][]byte)}
}

func (s *spyStore) Put(ctx context.Context, obj core.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	if _, ok := s.objects[obj.ID()]; !ok {
		s.objects[obj.ID()] = obj.Bytes()
	}
	return nil
}

func (s *spyStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[hash]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *spyStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[hash]
	return ok, nil
}

func (s *spyStore) ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error) {
	return "", storage.ErrNotFound
}

func TestIngestFlow(t *testing.T) {
	// 1. 准备环境
	tmpDir := t.TempDir()
	store, err := disk.NewAdapter(tmpDir)
	require.NoError(t, err)

	ing := NewIngester(store)
	ctx := context.Background()

	// 2. 执行 Ingest
	blob, err := ing.IngestFile(ctx, bytes.NewReader([]byte("hello")))
	require.NoError(t, err)

	// 3. Blob ID 就是原始内容的 SHA-256
	assert.Equal(t, types.Hash("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"), blob.ID())
	assert.Equal(t, int64(5), blob.Size())

	// 4. 数据已落地，且逐字节一致
	data, err := storage.ReadAll(ctx, store, blob.ID())
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestIngest_Dedup(t *testing.T) {
	spy := newSpyStore()
	ing := NewIngester(spy)
	ctx := context.Background()

	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.txt")
	p2 := filepath.Join(dir, "two.txt")
	require.NoError(t, os.WriteFile(p1, []byte("same"), 0644))
	require.NoError(t, os.WriteFile(p2, []byte("same"), 0644))

	b1, err := ing.IngestPath(ctx, p1)
	require.NoError(t, err)
	b2, err := ing.IngestPath(ctx, p2)
	require.NoError(t, err)

	assert.Equal(t, b1.ID(), b2.ID())
	assert.Len(t, spy.objects, 1, "相同内容只应存一个对象")
}

func TestIngest_EmptyFile(t *testing.T) {
	ing := NewIngester(newSpyStore())

	blob, err := ing.IngestFile(context.Background(), bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, types.Hash("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"), blob.ID())
}

func TestIngest_StoreFailure(t *testing.T) {
	spy := newSpyStore()
	spy.putErr = errors.New("disk full")
	ing := NewIngester(spy)

	_, err := ing.IngestFile(context.Background(), bytes.NewReader([]byte("x")))
	require.Error(t, err)
	assert.ErrorIs(t, err, spy.putErr)
}

func TestIngestPath_Missing(t *testing.T) {
	ing := NewIngester(newSpyStore())

	_, err := ing.IngestPath(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
