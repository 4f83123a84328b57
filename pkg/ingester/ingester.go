package ingester

import (
	"context"
	"fmt"
	"io"
	"os"

	"nub/pkg/core"
	"nub/pkg/storage"
)

type Ingester struct {
	store storage.Store
}

func NewIngester(store storage.Store) *Ingester {
	return &Ingester{store: store}
}

// IngestFile 读取一个文件流，整体作为 Blob 存储，并返回该 Blob
// 内容相同的文件得到同一个 Blob，Store 层的幂等 Put 保证只落盘一次
func (ing *Ingester) IngestFile(ctx context.Context, reader io.Reader) (*core.Blob, error) {
	// 1. 读取全部数据
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 2. 创建 Blob
	blob := core.NewBlob(data)

	// 3. 存储
	if err := ing.store.Put(ctx, blob); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	return blob, nil
}

// IngestPath 是 IngestFile 的便捷封装，直接打开磁盘上的文件
func (ing *Ingester) IngestPath(ctx context.Context, path string) (*core.Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ing.IngestFile(ctx, f)
}
