package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// setupRepo 在临时目录里初始化并打开一个仓库
func setupRepo(t *testing.T) *App {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := t.TempDir()
	_, err := Init(root)
	require.NoError(t, err)

	return openRepo(t, root)
}

// openRepo 重新打开仓库，模拟一次新的命令调用
func openRepo(t *testing.T, root string) *App {
	t.Helper()
	a, err := Open(context.Background(), root)
	require.NoError(t, err)
	a.WorkDir = a.Root
	t.Cleanup(func() { a.Close() })
	return a
}

// writeFile 在工作区写入文件，自动创建父目录
func writeFile(t *testing.T, a *App, rel, content string) {
	t.Helper()
	p := filepath.Join(a.Root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

// mustStage 暂存并返回新暂存的路径名
func mustStage(t *testing.T, a *App, paths ...string) []string {
	t.Helper()
	staged, err := a.Stage(context.Background(), paths)
	require.NoError(t, err)
	var names []string
	for _, s := range staged {
		names = append(names, s.Path)
	}
	return names
}

// countFiles 统计目录下的文件数
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}
