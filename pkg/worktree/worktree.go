// Package worktree 负责遍历工作区：收集待暂存的文件、扫描并计算整个工作区的 Hash。
package worktree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"nub/pkg/core"
	"nub/pkg/ignore"
	"nub/pkg/types"

	"golang.org/x/sync/errgroup"
)

var ErrOutsideRepo = errors.New("path is outside repository")

// RelPath 把绝对路径转换为相对仓库根目录、以 "/" 分隔的路径
func RelPath(root, abs string) (string, error) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRepo, abs)
	}
	return filepath.ToSlash(rel), nil
}

func inMetaDir(rel string) bool {
	return rel == ignore.MetaDir || strings.HasPrefix(rel, ignore.MetaDir+"/")
}

// Collect 展开一个用户给出的路径
// 文件直接返回；目录递归收集其中所有普通文件 (跳过元数据目录和被忽略的路径)
// target 必须是绝对路径，不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)
func Collect(root, target string, m *ignore.Matcher) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	rel, err := RelPath(root, target)
	if err != nil {
		return nil, err
	}
	if inMetaDir(rel) {
		return nil, nil
	}

	if !info.IsDir() {
		return []string{rel}, nil
	}

	var files []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		r, err := RelPath(root, path)
		if err != nil {
			return err
		}
		if r == "." {
			return nil
		}
		if inMetaDir(r) || m.Matches(r) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", rel, err)
	}
	return files, nil
}

// Walk 列出工作区中所有被跟踪候选的普通文件，结果已排序
func Walk(root string, m *ignore.Matcher) ([]string, error) {
	files, err := Collect(root, root, m)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// HashFile 读取文件并计算 Blob Hash
func HashFile(path string) (types.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return core.CalculateBlobHash(data), nil
}

// Scan 扫描整个工作区，返回 path -> blob hash
// 哈希计算是并行的，但结果是 map，所以输出与调度顺序无关
func Scan(ctx context.Context, root string, m *ignore.Matcher) (map[string]types.Hash, error) {
	files, err := Walk(root, m)
	if err != nil {
		return nil, err
	}
	return hashAll(ctx, root, files)
}

// HashExisting 计算给定路径中仍以普通文件存在的那部分
// 用于补齐被忽略规则挡住、但已被跟踪的文件
func HashExisting(ctx context.Context, root string, paths []string) (map[string]types.Hash, error) {
	var files []string
	for _, rel := range paths {
		if inMetaDir(rel) {
			continue
		}
		info, err := os.Lstat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if info.Mode().IsRegular() {
			files = append(files, rel)
		}
	}
	return hashAll(ctx, root, files)
}

func hashAll(ctx context.Context, root string, files []string) (map[string]types.Hash, error) {
	hashes := make([]types.Hash, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := HashFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("hash %s: %w", rel, err)
			}
			hashes[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]types.Hash, len(files))
	for i, rel := range files {
		out[rel] = hashes[i]
	}
	return out, nil
}
