package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nub/pkg/core"
	"nub/pkg/refs"
	"nub/pkg/types"
)

// LogEntry 是历史中的一条提交
type LogEntry struct {
	Hash    types.Hash
	Parent  types.Hash
	Tree    types.Hash
	Author  core.Author
	Time    time.Time
	Message string
}

func entryFromCommit(c *core.Commit) LogEntry {
	return LogEntry{
		Hash:    c.ID(),
		Parent:  c.ParentHash(),
		Tree:    c.TreeCid.Hash,
		Author:  c.Author,
		Time:    c.Time(),
		Message: c.Message,
	}
}

// walk 从 HEAD 沿 parent 向前遍历，fn 返回 false 时停止
func (a *App) walk(ctx context.Context, fn func(*core.Commit) bool) error {
	current, err := a.Refs.ResolveHead()
	if errors.Is(err, refs.ErrNoHead) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}

	for current != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := a.loadCommit(ctx, current)
		if err != nil {
			return err
		}
		if !fn(c) {
			return nil
		}
		current = c.ParentHash()
	}
	return nil
}

// Log 返回从 HEAD 开始的历史，最新的在前；limit <= 0 表示全部
func (a *App) Log(ctx context.Context, limit int) ([]LogEntry, error) {
	var out []LogEntry
	err := a.walk(ctx, func(c *core.Commit) bool {
		out = append(out, entryFromCommit(c))
		return limit <= 0 || len(out) < limit
	})
	return out, err
}

// LogByAuthor 只返回指定作者的提交
// 启用了元数据库时直接查询，否则遍历提交链过滤
func (a *App) LogByAuthor(ctx context.Context, name string, limit int) ([]LogEntry, error) {
	if a.Meta != nil {
		models, err := a.Meta.FindCommitsByAuthor(ctx, name, limit)
		if err != nil {
			return nil, err
		}
		out := make([]LogEntry, 0, len(models))
		for _, m := range models {
			out = append(out, LogEntry{
				Hash:    types.Hash(m.Hash),
				Parent:  types.Hash(m.Parent),
				Tree:    types.Hash(m.TreeHash),
				Author:  core.Author{Name: m.AuthorName, Email: m.AuthorEmail},
				Time:    time.Unix(m.Timestamp, 0).UTC(),
				Message: m.Message,
			})
		}
		return out, nil
	}

	var out []LogEntry
	err := a.walk(ctx, func(c *core.Commit) bool {
		if c.Author.Name == name {
			out = append(out, entryFromCommit(c))
		}
		return limit <= 0 || len(out) < limit
	})
	return out, err
}
