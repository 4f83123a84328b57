package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"nub/pkg/types"

	"github.com/fxamacker/cbor/v2"
)

// ErrSerialization 包装所有编码/解码失败
var ErrSerialization = errors.New("serialization error")

// 定义符合 DAG-CBOR 规范的编码选项
var encOptions = cbor.EncOptions{
	// 1. 强制 Map Key 排序 (Canonical)
	// 保证相同的对象生成唯一的 Hash
	Sort: cbor.SortCanonical,

	// 2. 浮点数必须使用64位表示
	ShortestFloat: cbor.ShortestFloatNone,

	// 3. 时间格式化为 Unix 整数
	Time:    cbor.TimeUnix,
	TimeTag: cbor.EncTagNone,

	// 4. 禁止不定长编码 (Indefinite Length)
	IndefLength: cbor.IndefLengthForbidden,

	BigIntConvert: cbor.BigIntConvertShortest,
}

// 全局复用的编码模式
var em, _ = encOptions.EncMode()

// 定义符合 DAG-CBOR 规范的解码选项
var decOptions = cbor.DecOptions{
	// 限制容器元素数量和嵌套深度
	// Tree 是扁平的，条目数等于被跟踪的文件数，所以数组上限放宽
	MaxArrayElements: 1 << 20,
	MaxMapPairs:      10000,
	MaxNestedLevels:  100,

	IndefLength: cbor.IndefLengthForbidden,

	// 强制检查 Map Key 重复
	DupMapKey: cbor.DupMapKeyEnforcedAPF,

	BignumTag: cbor.BignumTagForbidden,
	TimeTag:   cbor.DecTagIgnored,
}

var dm, _ = decOptions.DecMode()

// CalculateHash 计算结构化对象的 Hash 和序列化数据
func CalculateHash(v any) (types.Hash, []byte, error) {
	data, err := em.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to marshal object: %w", ErrSerialization, err)
	}
	return CalculateBlobHash(data), data, nil
}

// CalculateBlobHash 计算原始字节的 Hash
func CalculateBlobHash(data []byte) types.Hash {
	hashBytes := sha256.Sum256(data)
	return types.Hash(hex.EncodeToString(hashBytes[:]))
}

// DecodeObject 通用的解码函数 (供外部使用)
func DecodeObject(data []byte, v any) error {
	if err := dm.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return nil
}

// PeekType 探测序列化数据的对象类型
// 原始 Blob 没有类型头，返回 false
func PeekType(data []byte) (ObjectType, bool) {
	var header struct {
		TypeVal ObjectType `cbor:"t"`
	}
	if err := dm.Unmarshal(data, &header); err != nil {
		return "", false
	}
	switch header.TypeVal {
	case TypeTree, TypeCommit:
		return header.TypeVal, true
	}
	return "", false
}
