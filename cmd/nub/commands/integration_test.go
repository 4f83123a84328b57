package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nub/pkg/app"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegrationEnv 在临时目录里模拟一个用户的工作区
func setupIntegrationEnv(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// run 模拟一次命令行调用，返回 stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// cobra 不会在两次执行之间重置 flag 变量
	commitMsg = ""
	logLimit = 0
	logAuthor = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "nub %s", strings.Join(args, " "))
	return out
}

func TestIntegration_CommitFlow(t *testing.T) {
	dir := setupIntegrationEnv(t)

	// 1. nub init
	out := mustRun(t, "init")
	assert.Contains(t, out, "Initialized empty nub repository")

	// 重复 init 是错误
	_, err := run(t, "init")
	assert.ErrorIs(t, err, app.ErrRepositoryAlreadyExists)

	// 2. echo hello > a.txt; nub status
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644))
	out = mustRun(t, "status")
	assert.Contains(t, out, "On branch main")
	assert.Contains(t, out, "Untracked files:\n\ta.txt")

	// 3. nub add a.txt
	out = mustRun(t, "add", "a.txt")
	assert.Equal(t, "staged: a.txt (2cf24dba)\n", out)

	out = mustRun(t, "add", "a.txt")
	assert.Equal(t, "No changes to stage.\n", out)

	// 4. nub commit
	_, err = run(t, "commit")
	assert.Error(t, err, "commit without message must fail")

	out = mustRun(t, "commit", "-m", "first")
	assert.Regexp(t, `^\[main [0-9a-f]{8}\] first\n$`, out)

	out = mustRun(t, "commit", "-m", "again")
	assert.Equal(t, "nothing to commit, working tree clean\n", out)

	out = mustRun(t, "status")
	assert.Contains(t, out, "nothing to commit, working tree clean")

	// 5. 修改后 status 显示 modified
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("world"), 0644))
	out = mustRun(t, "status")
	assert.Contains(t, out, "Changes not staged for commit:\n\ta.txt")

	// 6. 暂存后 reset
	mustRun(t, "add", ".")
	out = mustRun(t, "status")
	assert.Contains(t, out, "Changes to be committed:\n\ta.txt")
	mustRun(t, "reset")
	out = mustRun(t, "status")
	assert.Contains(t, out, "Changes not staged for commit:\n\ta.txt")

	// 7. 第二次提交，然后看历史
	mustRun(t, "add", "a.txt")
	mustRun(t, "commit", "-m", "second")

	out = mustRun(t, "log")
	assert.Equal(t, 2, strings.Count(out, "commit "))
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first"), "最新的提交在前")
	assert.Contains(t, out, "Author: NUB User <user@nub.local>")

	out = mustRun(t, "log", "-n", "1")
	assert.Equal(t, 1, strings.Count(out, "commit "))

	out = mustRun(t, "log", "--author", "nobody")
	assert.Equal(t, "No commits yet.\n", out)

	// 8. nub cat 读回 Blob
	out = mustRun(t, "cat", "486ea462")
	assert.Equal(t, "world", out)
	assert.Nil(t, Nub)
}

func TestIntegration_AddMissingFile(t *testing.T) {
	setupIntegrationEnv(t)
	mustRun(t, "init")

	_, err := run(t, "add", "ghost.txt")
	var notFound *app.FileNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Nil(t, Nub, "失败的命令也要释放仓库")
}

func TestIntegration_OutsideRepository(t *testing.T) {
	setupIntegrationEnv(t)

	_, err := run(t, "status")
	assert.ErrorIs(t, err, app.ErrRepositoryNotFound)
}

func TestIntegration_SubdirectoryInvocation(t *testing.T) {
	dir := setupIntegrationEnv(t)
	mustRun(t, "init")

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "main.go"), []byte("package main"), 0644))
	t.Chdir(sub)

	// 路径参数相对于当前目录，报告里的路径相对于仓库根目录
	out := mustRun(t, "add", "main.go")
	assert.Contains(t, out, "staged: src/main.go")
}
