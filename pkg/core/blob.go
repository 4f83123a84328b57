package core

import "nub/pkg/types"

// Blob 是某个文件在某一时刻的完整内容
// 存储时不加任何头部，所以 ID 就是原始字节的 SHA-256
type Blob struct {
	hash types.Hash
	data []byte
}

func NewBlob(data []byte) *Blob {
	return &Blob{
		hash: CalculateBlobHash(data),
		data: data,
	}
}

func (b *Blob) Type() ObjectType { return TypeBlob }
func (b *Blob) ID() types.Hash   { return b.hash }
func (b *Blob) Bytes() []byte    { return b.data }
func (b *Blob) Size() int64      { return int64(len(b.data)) }
