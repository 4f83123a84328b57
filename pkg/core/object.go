package core

import "nub/pkg/types"

// ObjectType 定义了 nub 中的对象类型
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"   // 文件内容 (原始字节)
	TypeTree   ObjectType = "tree"   // 路径快照
	TypeCommit ObjectType = "commit" // 历史节点
)

// Object 是所有可存储节点的通用接口
type Object interface {
	// Type 返回对象类型
	Type() ObjectType

	// ID 返回对象的哈希值，等于 Bytes() 的 SHA-256
	ID() types.Hash

	// Bytes 返回对象的序列化数据 (用于存储)
	Bytes() []byte
}
