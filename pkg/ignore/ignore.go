package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// MetaDir 是仓库元数据目录
const MetaDir = ".nub-vcs"

// FileName 是用户自定义忽略规则文件
const FileName = ".nubignore"

// Matcher 判断一个文件是否应该被忽略
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 初始化忽略匹配器
// rootPath: 仓库根目录（用于查找 .nubignore 文件）
func NewMatcher(rootPath string) (*Matcher, error) {
	// 强制生效的规则：绝对禁止索引仓库元数据目录
	defaultRules := []string{
		MetaDir,
	}

	var ignorer *gitignore.GitIgnore
	var err error

	ignoreFilePath := filepath.Join(rootPath, FileName)
	if _, errStat := os.Stat(ignoreFilePath); errStat == nil {
		// 用户规则和默认规则合并编译
		ignorer, err = gitignore.CompileIgnoreFileAndLines(ignoreFilePath, defaultRules...)
	} else {
		ignorer = gitignore.CompileIgnoreLines(defaultRules...)
	}

	if err != nil {
		return nil, err
	}

	return &Matcher{ignorer: ignorer}, nil
}

// Matches 检查给定的路径是否匹配忽略规则
// path: 相对于仓库根目录的路径，使用 "/" 分隔 (例如 "data/model.bin")
func (m *Matcher) Matches(path string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(path)
}
