package disk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nub/pkg/core"
	"nub/pkg/storage"
	"nub/pkg/types"
)

// Adapter 实现了 storage.Store 接口
// 布局是扁平的：文件名就是完整的 hex Hash
type Adapter struct {
	rootPath string // 比如: /home/user/project/.nub-vcs/objects
}

// NewAdapter 创建一个新的磁盘存储适配器
func NewAdapter(root string) (*Adapter, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage dir: %w", err)
	}
	return &Adapter{rootPath: root}, nil
}

func (s *Adapter) layout(hash types.Hash) string {
	return filepath.Join(s.rootPath, string(hash))
}

func (s *Adapter) Put(ctx context.Context, obj core.Object) error {
	hash := obj.ID()
	if !hash.IsValid() {
		return fmt.Errorf("refusing to store object with invalid hash %q", hash)
	}
	targetPath := s.layout(hash)

	// 1. 幂等性：已经存在就跳过 (CAS 的好处)
	if _, err := os.Stat(targetPath); err == nil {
		return nil
	}

	// 2. 原子写入：先写临时文件，再 Rename
	// 这样保证要么文件不存在，要么文件是完整的
	tempFile, err := os.CreateTemp(s.rootPath, "temp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(obj.Bytes()); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		return err
	}

	slog.Debug("object stored", slog.String("type", string(obj.Type())), slog.String("hash", hash.String()))
	return nil
}

func (s *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	if !hash.IsValid() {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, hash)
	}
	f, err := os.Open(s.layout(hash))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	if !hash.IsValid() {
		return false, nil
	}
	_, err := os.Stat(s.layout(hash))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ExpandHash 在目录中查找唯一匹配前缀的对象
func (s *Adapter) ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error) {
	prefix := strings.ToLower(string(short))
	if len(prefix) < storage.MinPrefixLen {
		return "", fmt.Errorf("%w: %q", storage.ErrPrefixTooShort, prefix)
	}

	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return "", err
	}

	var match types.Hash
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) != 64 || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %q", storage.ErrAmbiguousHash, prefix)
		}
		match = types.Hash(name)
	}

	if match == "" {
		return "", fmt.Errorf("%w: %q", storage.ErrNotFound, prefix)
	}
	return match, nil
}
