package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"nub/pkg/exporter"
	"nub/pkg/storage"
	"nub/pkg/types"
)

// Resolve 将短 Hash 展开为完整 Hash，同时在对象库和提交库中查找
// 返回命中的那个 Store
func (a *App) Resolve(ctx context.Context, prefix string) (types.Hash, storage.Store, error) {
	short := types.HashPrefix(prefix)

	var (
		found types.Hash
		store storage.Store
	)
	for _, s := range []storage.Store{a.Objects, a.Commits} {
		h, err := s.ExpandHash(ctx, short)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		if store != nil && h != found {
			return "", nil, fmt.Errorf("%w: %s", storage.ErrAmbiguousHash, prefix)
		}
		found, store = h, s
	}

	if store == nil {
		return "", nil, fmt.Errorf("%w: %s", storage.ErrNotFound, prefix)
	}
	return found, store, nil
}

// Cat 打印对象内容：Tree/Commit 格式化输出，Blob 原样输出
func (a *App) Cat(ctx context.Context, prefix string, w io.Writer) error {
	hash, store, err := a.Resolve(ctx, prefix)
	if err != nil {
		return err
	}
	return exporter.NewExporter(store).PrintObject(ctx, hash, w)
}
