package treebuilder

import (
	"context"
	"fmt"
	"maps"

	"nub/pkg/core"
	"nub/pkg/storage"
	"nub/pkg/types"
)

// Builder 负责将暂存区转换为不可变的 Tree 对象
type Builder struct {
	store storage.Store
}

func NewBuilder(store storage.Store) *Builder {
	return &Builder{store: store}
}

// Build 以父提交的树为底，叠加暂存区的每一条记录，生成完整快照
// base 可以为空 (第一次提交)。返回已经持久化的 Tree
func (b *Builder) Build(ctx context.Context, base, staged map[string]types.Hash) (*core.Tree, error) {
	merged := make(map[string]types.Hash, len(base)+len(staged))
	maps.Copy(merged, base)
	maps.Copy(merged, staged)

	// 当前只生成 blob 类型的叶子条目，名称是完整的相对路径
	entries := make([]core.TreeEntry, 0, len(merged))
	for path, hash := range merged {
		entries = append(entries, core.TreeEntry{
			Name: path,
			Kind: core.KindBlob,
			Hash: core.NewLink(hash),
		})
	}

	// NewTree 内部排序，保证 Hash 的确定性
	treeObj, err := core.NewTree(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree object: %w", err)
	}

	if err := b.store.Put(ctx, treeObj); err != nil {
		return nil, fmt.Errorf("failed to store tree: %w", err)
	}
	return treeObj, nil
}

// Flatten 从存储中读出 Tree，展开为 path -> hash
func Flatten(ctx context.Context, store storage.Store, treeHash types.Hash) (map[string]types.Hash, error) {
	data, err := storage.ReadAll(ctx, store, treeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", treeHash.Short(), err)
	}
	tree, err := core.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", treeHash.Short(), err)
	}
	return tree.Paths(), nil
}
