package core

import (
	"fmt"
	"sort"

	"nub/pkg/types"
)

type EntryKind string

const (
	KindBlob EntryKind = "blob"
	// KindTree 预留给未来的目录嵌套，当前的 Builder 不会生成
	KindTree EntryKind = "tree"
)

type TreeEntry struct {
	Name string    `cbor:"n"` // 相对仓库根目录的路径，统一使用 "/"
	Kind EntryKind `cbor:"k"`
	Hash Link      `cbor:"h"`
}

type Tree struct {
	hash     types.Hash `cbor:"-"`
	rawBytes []byte     `cbor:"-"`

	TypeVal ObjectType  `cbor:"t"`
	Entries []TreeEntry `cbor:"e"`
}

// NewTree 创建一个新的树节点
// 条目按名称排序后再计算 Hash，重名条目直接报错
func NewTree(entries []TreeEntry) (*Tree, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Name == sorted[i-1].Name {
			return nil, fmt.Errorf("duplicate tree entry %q", sorted[i].Name)
		}
	}

	t := &Tree{
		TypeVal: TypeTree,
		Entries: sorted,
	}
	h, b, err := CalculateHash(t)
	if err != nil {
		return nil, err
	}
	t.hash = h
	t.rawBytes = b
	return t, nil
}

// DecodeTree 从存储的字节还原 Tree，ID 取自原始字节
func DecodeTree(data []byte) (*Tree, error) {
	var t Tree
	if err := DecodeObject(data, &t); err != nil {
		return nil, err
	}
	if t.TypeVal != TypeTree {
		return nil, fmt.Errorf("%w: object is not a tree, got %q", ErrSerialization, t.TypeVal)
	}
	t.hash = CalculateBlobHash(data)
	t.rawBytes = data
	return &t, nil
}

// Paths 将条目展开为 path -> hash
func (t *Tree) Paths() map[string]types.Hash {
	out := make(map[string]types.Hash, len(t.Entries))
	for _, e := range t.Entries {
		if e.Kind == KindBlob {
			out[e.Name] = e.Hash.Hash
		}
	}
	return out
}

func (t *Tree) Type() ObjectType { return TypeTree }
func (t *Tree) ID() types.Hash   { return t.hash }
func (t *Tree) Bytes() []byte    { return t.rawBytes }
