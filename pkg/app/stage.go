package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"nub/pkg/ingester"
	"nub/pkg/types"
	"nub/pkg/worktree"
)

// StagedPath 是一次暂存操作中真正被写入暂存区的路径
type StagedPath struct {
	Path string
	Hash types.Hash
}

// Stage 把给定的文件或目录加入暂存区
// 返回本次新暂存的路径；空结果表示没有任何变化
func (a *App) Stage(ctx context.Context, paths []string) ([]StagedPath, error) {
	// 1. 展开所有参数。任何一个不存在都在写入之前失败
	seen := make(map[string]struct{})
	var files []string
	for _, arg := range paths {
		target := arg
		if !filepath.IsAbs(target) {
			target = filepath.Join(a.WorkDir, target)
		}

		found, err := worktree.Collect(a.Root, target, a.ignore)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: arg}
		}
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	sort.Strings(files)

	// 2. 最后一次提交的视图，用于判断文件是否真的变了
	_, committed, err := a.headSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	// 3. 逐个写入 Blob 并比较
	ing := ingester.NewIngester(a.Objects)
	var staged []StagedPath
	changed := false
	for _, rel := range files {
		blob, err := ing.IngestPath(ctx, filepath.Join(a.Root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", rel, err)
		}
		hash := blob.ID()

		// 已暂存的以暂存区为准，否则以提交为准
		prev, isStaged := a.Index.Get(rel)
		switch {
		case isStaged && prev == hash:
			continue
		case committed[rel] == hash:
			// 改回了提交时的内容：撤销暂存记录，不算新暂存
			if isStaged {
				a.Index.Remove(rel)
				changed = true
			}
			continue
		}

		a.Index.Add(rel, hash)
		staged = append(staged, StagedPath{Path: rel, Hash: hash})
		changed = true
	}

	// 4. 只有变化时才落盘
	if changed {
		if err := a.Index.Save(); err != nil {
			return nil, fmt.Errorf("failed to save index: %w", err)
		}
	}
	return staged, nil
}
