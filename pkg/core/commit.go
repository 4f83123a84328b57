package core

import (
	"fmt"
	"time"

	"nub/pkg/types"
)

// Author 对应仓库配置里的 user 段
type Author struct {
	Name  string `cbor:"n"`
	Email string `cbor:"e"`
}

func (a Author) String() string {
	if a.Email == "" {
		return a.Name
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

type Commit struct {
	hash     types.Hash `cbor:"-"`
	rawBytes []byte     `cbor:"-"`

	TypeVal ObjectType `cbor:"t"`

	TreeCid Link `cbor:"th"`
	// 分支上的第一个提交没有父节点
	Parent *Link `cbor:"p,omitempty"`

	Author  Author `cbor:"a"`
	Message string `cbor:"m"`

	// UTC Unix 秒
	Timestamp int64 `cbor:"ts"`
}

func NewCommit(treeHash types.Hash, parent *types.Hash, author Author, msg string) (*Commit, error) {
	return newCommitAt(treeHash, parent, author, msg, time.Now().UTC())
}

func newCommitAt(treeHash types.Hash, parent *types.Hash, author Author, msg string, at time.Time) (*Commit, error) {
	c := &Commit{
		TypeVal:   TypeCommit,
		TreeCid:   NewLink(treeHash),
		Author:    author,
		Message:   msg,
		Timestamp: at.Unix(),
	}
	if parent != nil && !parent.IsZero() {
		l := NewLink(*parent)
		c.Parent = &l
	}

	h, b, err := CalculateHash(c)
	if err != nil {
		return nil, err
	}
	c.hash = h
	c.rawBytes = b
	return c, nil
}

// DecodeCommit 从存储的字节还原 Commit
func DecodeCommit(data []byte) (*Commit, error) {
	var c Commit
	if err := DecodeObject(data, &c); err != nil {
		return nil, err
	}
	if c.TypeVal != TypeCommit {
		return nil, fmt.Errorf("%w: object is not a commit, got %q", ErrSerialization, c.TypeVal)
	}
	c.hash = CalculateBlobHash(data)
	c.rawBytes = data
	return &c, nil
}

// ParentHash 返回父提交，没有时为空
func (c *Commit) ParentHash() types.Hash {
	if c.Parent == nil {
		return ""
	}
	return c.Parent.Hash
}

func (c *Commit) Time() time.Time { return time.Unix(c.Timestamp, 0).UTC() }

func (c *Commit) Type() ObjectType { return TypeCommit }
func (c *Commit) ID() types.Hash   { return c.hash }
func (c *Commit) Bytes() []byte    { return c.rawBytes }
