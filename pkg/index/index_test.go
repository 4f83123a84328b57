package index

import (
	"os"
	"path/filepath"
	"testing"

	"nub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Persistence_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	indexPath := filepath.Join(tmpDir, "index")

	idx1 := Load(indexPath)
	assert.True(t, idx1.IsEmpty(), "不存在的 index 应视为空")

	idx1.Add("src/main.go", "hash-123")
	idx1.Add("readme.md", "hash-abc")
	require.NoError(t, idx1.Save())

	// 重新加载 (模拟第二次运行程序)
	idx2 := Load(indexPath)
	assert.Equal(t, 2, idx2.Len())

	h, ok := idx2.Get("src/main.go")
	assert.True(t, ok)
	assert.Equal(t, types.Hash("hash-123"), h)
}

func TestIndex_FileFormat(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "index")

	idx := Load(indexPath)
	idx.Add("b.txt", "hb")
	idx.Add("a.txt", "ha")
	require.NoError(t, idx.Save())

	data, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"path":"a.txt","hash":"ha"},{"path":"b.txt","hash":"hb"}]`, string(data))
}

func TestIndex_CorruptedIsEmpty(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "index")
	require.NoError(t, os.WriteFile(indexPath, []byte("{not json"), 0644))

	idx := Load(indexPath)
	assert.True(t, idx.IsEmpty(), "损坏的 index 不应导致失败")

	// 仍然可以正常写回
	idx.Add("a", "h")
	require.NoError(t, idx.Save())
	assert.Equal(t, 1, Load(indexPath).Len())
}

func TestIndex_Concurrency(t *testing.T) {
	idx := Load(filepath.Join(t.TempDir(), "index"))

	done := make(chan bool)
	for range 10 {
		go func() {
			idx.Add("file", "hash")
			done <- true
		}()
	}
	for range 10 {
		<-done
	}

	assert.Equal(t, 1, idx.Len())
}

func TestIndex_Lifecycle(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "index")
	idx := Load(indexPath)

	assert.True(t, idx.IsEmpty())
	idx.Add("src/main.go", "hash1")
	assert.False(t, idx.IsEmpty())

	// Add 覆盖已有记录
	idx.Add("./src/main.go", "hash2")
	h, _ := idx.Get("src/main.go")
	assert.Equal(t, types.Hash("hash2"), h)
	assert.Equal(t, 1, idx.Len())

	idx.Remove("src/main.go")
	_, exists := idx.Get("src/main.go")
	assert.False(t, exists, "Entry should be removed")

	idx.Remove("ghost.file") // Should not panic

	idx.Add("a", "h1")
	idx.Add("b", "h2")
	require.NoError(t, idx.Clear())
	assert.True(t, idx.IsEmpty(), "Index should be empty after Clear")

	data, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data), "Clear 应写出空列表")
}

func TestIndex_SnapshotIsCopy(t *testing.T) {
	idx := Load(filepath.Join(t.TempDir(), "index"))
	idx.Add("a", "h1")

	snap := idx.Snapshot()
	snap["b"] = "h2"

	assert.Equal(t, 1, idx.Len())
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a/b/c", "a/b/c"},
		{"./a/b", "a/b"},
		{"a//b", "a/b"},
		{"a/../b", "b"},
		{".", "."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanPath(tt.input))
	}
}
