// pkg/index/index.go
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"nub/pkg/types"
)

// Entry 代表暂存区中的一条记录，也是 index 文件的存储格式
type Entry struct {
	Path string     `json:"path"` // 相对路径 (如 "src/main.go")
	Hash types.Hash `json:"hash"` // Blob 的 Hash
}

// Index 管理暂存区状态
type Index struct {
	path    string // 物理文件路径 (.nub-vcs/index)
	entries map[string]types.Hash
	mu      sync.RWMutex
}

// Load 加载 index 文件
// 文件不存在或无法解析都视为空暂存区：空仓库是合法状态，不是错误
func Load(indexPath string) *Index {
	idx := &Index{
		path:    indexPath,
		entries: make(map[string]types.Hash),
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("index unreadable, treating as empty", slog.String("path", indexPath), slog.Any("err", err))
		}
		return idx
	}

	var list []Entry
	if err := json.Unmarshal(data, &list); err != nil {
		slog.Warn("index corrupted, treating as empty", slog.String("path", indexPath), slog.Any("err", err))
		return idx
	}
	for _, e := range list {
		if e.Path == "" || e.Hash.IsZero() {
			continue
		}
		idx.entries[CleanPath(e.Path)] = e.Hash
	}

	slog.Debug("index loaded", slog.String("path", indexPath), slog.Int("entries", len(idx.entries)))
	return idx
}

// Get 返回某个路径已暂存的 Hash
func (i *Index) Get(path string) (types.Hash, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	h, ok := i.entries[CleanPath(path)]
	return h, ok
}

// Add 插入或覆盖一条记录
func (i *Index) Add(path string, hash types.Hash) {
	key := CleanPath(path)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries[key] = hash
}

func (i *Index) Remove(path string) {
	key := CleanPath(path)
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.entries, key)
}

// Entries 返回按路径排序的记录列表
func (i *Index) Entries() []Entry {
	i.mu.RLock()
	defer i.mu.RUnlock()

	list := make([]Entry, 0, len(i.entries))
	for p, h := range i.entries {
		list = append(list, Entry{Path: p, Hash: h})
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Path < list[b].Path })
	return list
}

// Save 将暂存区整体写回磁盘 (一次原子写入)
func (i *Index) Save() error {
	data, err := json.MarshalIndent(i.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("write index: marshal: %w", err)
	}

	dir := filepath.Dir(i.path)
	tmp, err := os.CreateTemp(dir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}
	if err := os.Rename(tmpName, i.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}

// Snapshot 返回当前 path -> hash 的副本
func (i *Index) Snapshot() map[string]types.Hash {
	i.mu.RLock()
	defer i.mu.RUnlock()

	snap := make(map[string]types.Hash, len(i.entries))
	maps.Copy(snap, i.entries)
	return snap
}

func (i *Index) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]types.Hash)
}

// Clear 等价于 Reset + Save(空)
func (i *Index) Clear() error {
	i.Reset()
	return i.Save()
}

// IsEmpty 检查暂存区是否有内容
func (i *Index) IsEmpty() bool {
	return i.Len() == 0
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

func CleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
