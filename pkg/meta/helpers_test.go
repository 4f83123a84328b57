package meta

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"nub/pkg/core"
	"nub/pkg/types"

	"github.com/stretchr/testify/require"
)

// mockHash 生成合法的测试用 Hash
func mockHash(input string) types.Hash {
	sum := sha256.Sum256([]byte(input))
	return types.Hash(hex.EncodeToString(sum[:]))
}

// mustNewCommit 创建 Commit，如果失败直接终止测试
func mustNewCommit(t *testing.T, treeHash types.Hash, parent *types.Hash, author, msg string, msgAndArgs ...any) *core.Commit {
	t.Helper()
	c, err := core.NewCommit(treeHash, parent, core.Author{Name: author, Email: author + "@example.com"}, msg)
	require.NoError(t, err, msgAndArgs...)
	return c
}

// mustIndexCommit 强制索引 Commit，失败则终止
func mustIndexCommit(t *testing.T, repo *Repository, c *core.Commit, paths []string, msgAndArgs ...any) {
	t.Helper()
	err := repo.IndexCommit(context.Background(), c, paths)
	require.NoError(t, err, msgAndArgs...)
}
