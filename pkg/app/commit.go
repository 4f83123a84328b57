package app

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"nub/pkg/config"
	"nub/pkg/core"
	"nub/pkg/treebuilder"
	"nub/pkg/types"
)

// Commit 把暂存区固化为一个新的提交，并移动当前分支
// 写入顺序: Tree -> Commit -> (元数据索引) -> 分支引用 -> 清空暂存区
func (a *App) Commit(ctx context.Context, message string) (types.Hash, error) {
	// 1. 检查暂存区是否为空
	if a.Index.IsEmpty() {
		return "", ErrNothingToCommit
	}

	// 2. 父提交及其快照 (第一次提交时为空)
	parent, base, err := a.headSnapshot(ctx)
	if err != nil {
		return "", err
	}

	// 3. 构建 Tree：父快照叠加暂存区
	tree, err := treebuilder.NewBuilder(a.Objects).Build(ctx, base, a.Index.Snapshot())
	if err != nil {
		return "", fmt.Errorf("failed to build tree: %w", err)
	}

	// 4. 作者信息来自仓库配置
	author, err := config.ReadUser(a.configPath())
	if err != nil {
		return "", err
	}

	var parentHash *types.Hash
	if parent != nil {
		h := parent.ID()
		parentHash = &h
	}

	// 5. 创建并存储 Commit 对象
	commitObj, err := core.NewCommit(tree.ID(), parentHash, author, message)
	if err != nil {
		return "", fmt.Errorf("failed to create commit object: %w", err)
	}
	if err := a.Commits.Put(ctx, commitObj); err != nil {
		return "", fmt.Errorf("failed to store commit: %w", err)
	}

	// 6. 元数据索引只服务于查询，失败不影响提交本身
	if a.Meta != nil {
		paths := slices.Sorted(maps.Keys(tree.Paths()))
		if err := a.Meta.IndexCommit(ctx, commitObj, paths); err != nil {
			slog.Warn("failed to index commit metadata", slog.String("commit", commitObj.ID().String()), slog.Any("err", err))
		}
	}

	// 7. 移动分支指针
	if err := a.Refs.UpdateHead(commitObj.ID()); err != nil {
		return "", fmt.Errorf("failed to update HEAD: %w", err)
	}

	// 8. 清空暂存区
	// 提交已经成功，清空失败只打印警告
	if err := a.Index.Clear(); err != nil {
		slog.Warn("failed to clear index", slog.Any("err", err))
	}

	slog.Debug("commit created",
		slog.String("commit", commitObj.ID().String()),
		slog.String("tree", tree.ID().String()),
		slog.Int("entries", len(tree.Entries)),
	)
	return commitObj.ID(), nil
}
