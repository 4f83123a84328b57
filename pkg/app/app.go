// pkg/app/app.go
package app

import (
	"errors"
	"io"
	"path/filepath"

	"nub/pkg/ignore"
	"nub/pkg/index"
	"nub/pkg/meta"
	"nub/pkg/refs"
	"nub/pkg/storage"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// 一个 App 对应一个已打开的仓库，生命周期等于一次命令调用
type App struct {
	// Root 是工作区根目录，RepoPath 是其中的 .nub-vcs
	Root     string
	RepoPath string

	// WorkDir 是调用者所在目录，用于解析相对路径参数
	WorkDir string

	// Objects 存放 Blob 与 Tree，Commits 单独存放提交
	Objects storage.Store
	Commits storage.Store

	Index *index.Index
	Refs  *refs.Manager

	// Meta 为 nil 表示未启用元数据库
	Meta *meta.Repository

	ignore  *ignore.Matcher
	closers []io.Closer
}

func (a *App) indexPath() string  { return filepath.Join(a.RepoPath, "index") }
func (a *App) configPath() string { return filepath.Join(a.RepoPath, "config") }

// Close 释放缓存连接、数据库连接等外部资源
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
