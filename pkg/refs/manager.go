package refs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nub/pkg/types"
)

// ErrNoHead 表示当前分支还没有任何提交
var ErrNoHead = errors.New("HEAD not found (clean repo)")

const (
	DefaultBranch = "main"
	headsPrefix   = "refs/heads/"
	symrefPrefix  = "ref: "
)

// Manager 负责管理引用：HEAD 与 refs/heads/<branch>
type Manager struct {
	rootPath string // .nub-vcs
}

func NewManager(rootPath string) *Manager {
	return &Manager{rootPath: rootPath}
}

func (m *Manager) headPath() string {
	return filepath.Join(m.rootPath, "HEAD")
}

func (m *Manager) branchPath(ref string) string {
	return filepath.Join(m.rootPath, filepath.FromSlash(ref))
}

// InitHead 写入符号引用 "ref: refs/heads/<branch>"
func (m *Manager) InitHead(branch string) error {
	return writeFileAtomic(m.headPath(), []byte(symrefPrefix+headsPrefix+branch))
}

// HeadRef 返回 HEAD 指向的引用，例如 "refs/heads/main"
func (m *Manager) HeadRef() (string, error) {
	data, err := os.ReadFile(m.headPath())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	ref := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(data)), symrefPrefix))
	if !strings.HasPrefix(ref, headsPrefix) || ref == headsPrefix {
		return "", fmt.Errorf("HEAD is not a branch reference: %q", strings.TrimSpace(string(data)))
	}
	return ref, nil
}

// CurrentBranch 返回当前分支名
func (m *Manager) CurrentBranch() (string, error) {
	ref, err := m.HeadRef()
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(ref, headsPrefix), nil
}

// ResolveHead 通过 HEAD 间接找到当前分支的最新提交
// 分支文件不存在（还没提交过）时返回 ErrNoHead
func (m *Manager) ResolveHead() (types.Hash, error) {
	ref, err := m.HeadRef()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(m.branchPath(ref))
	if os.IsNotExist(err) {
		return "", ErrNoHead
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", ref, err)
	}

	// 清理换行符 (vim 编辑时可能会自动加 \n)
	hash := types.Hash(strings.TrimSpace(string(data)))
	if hash.IsZero() {
		return "", ErrNoHead
	}
	return hash, nil
}

// UpdateBranch 把分支指针改写为新的提交
func (m *Manager) UpdateBranch(branch string, commitHash types.Hash) error {
	path := m.branchPath(headsPrefix + branch)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(commitHash))
}

// UpdateHead 更新 HEAD 当前指向的分支
func (m *Manager) UpdateHead(commitHash types.Hash) error {
	branch, err := m.CurrentBranch()
	if err != nil {
		return err
	}
	return m.UpdateBranch(branch, commitHash)
}

// 单进程假设下没有锁，只保证文件内容要么是旧值要么是新值
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ref-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
