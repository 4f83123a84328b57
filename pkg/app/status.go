package app

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"nub/pkg/status"
	"nub/pkg/types"
	"nub/pkg/worktree"
)

// StatusReport 是 Status 的结果
type StatusReport struct {
	Branch string
	status.Report
}

// Status 对比工作区、暂存区与最后一次提交
func (a *App) Status(ctx context.Context) (*StatusReport, error) {
	branch, err := a.Refs.CurrentBranch()
	if err != nil {
		return nil, err
	}

	// 1. 最后一次提交：无法解析时按空处理
	_, committed, err := a.headSnapshot(ctx)
	if err != nil {
		slog.Warn("cannot read last commit, treating as empty", slog.Any("err", err))
		committed = nil
	}

	// 2. 工作区扫描
	working, err := worktree.Scan(ctx, a.Root, a.ignore)
	if err != nil {
		return nil, err
	}

	// 3. 已跟踪的文件不受忽略规则影响，扫描漏掉的单独补上
	staged := a.Index.Snapshot()
	missing := make(map[string]struct{})
	for _, m := range []map[string]types.Hash{committed, staged} {
		for p := range m {
			if _, ok := working[p]; !ok {
				missing[p] = struct{}{}
			}
		}
	}
	if len(missing) > 0 {
		tracked, err := worktree.HashExisting(ctx, a.Root, slices.Sorted(maps.Keys(missing)))
		if err != nil {
			return nil, err
		}
		maps.Copy(working, tracked)
	}

	return &StatusReport{
		Branch: branch,
		Report: status.Classify(committed, staged, working),
	}, nil
}

// Reset 清空暂存区，不动工作区和历史
func (a *App) Reset() error {
	return a.Index.Clear()
}
