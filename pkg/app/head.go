package app

import (
	"context"
	"errors"
	"fmt"

	"nub/pkg/core"
	"nub/pkg/refs"
	"nub/pkg/storage"
	"nub/pkg/treebuilder"
	"nub/pkg/types"
)

// loadCommit 从提交库读出并解码一个 Commit
func (a *App) loadCommit(ctx context.Context, hash types.Hash) (*core.Commit, error) {
	data, err := storage.ReadAll(ctx, a.Commits, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash.Short(), err)
	}
	c, err := core.DecodeCommit(data)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash.Short(), err)
	}
	return c, nil
}

// headSnapshot 返回 HEAD 提交 (可能为 nil) 及其树的 path -> hash 视图
// 还没有任何提交时返回空 map
func (a *App) headSnapshot(ctx context.Context) (*core.Commit, map[string]types.Hash, error) {
	head, err := a.Refs.ResolveHead()
	if errors.Is(err, refs.ErrNoHead) {
		return nil, map[string]types.Hash{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	c, err := a.loadCommit(ctx, head)
	if err != nil {
		return nil, nil, err
	}
	tree, err := treebuilder.Flatten(ctx, a.Objects, c.TreeCid.Hash)
	if err != nil {
		return nil, nil, err
	}
	return c, tree, nil
}
