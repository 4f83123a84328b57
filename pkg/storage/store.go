package storage

import (
	"context"
	"errors"
	"io"

	"nub/pkg/core"
	"nub/pkg/types"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrAmbiguousHash  = errors.New("ambiguous hash prefix")
	ErrPrefixTooShort = errors.New("hash prefix too short")
)

// MinPrefixLen 是短哈希的最小长度
const MinPrefixLen = 4

// Store defines the interface for a content-addressed storage backend.
// Implementations can be local disk, cloud storage, or a caching decorator.
type Store interface {
	// Put 将一个核心对象持久化
	// Hash 已经在 core.Object 里了；对象已存在时必须是 no-op
	Put(ctx context.Context, obj core.Object) error

	// Get 根据 Hash 读取原始数据，不存在时返回 ErrNotFound
	Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error)

	// Has 检查对象是否存在 (用于去重逻辑)
	Has(ctx context.Context, hash types.Hash) (bool, error)

	// ExpandHash 将唯一前缀扩展为完整 Hash
	ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error)
}

// ReadAll 读取一个对象的全部字节
func ReadAll(ctx context.Context, s Store, hash types.Hash) ([]byte, error) {
	rc, err := s.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
