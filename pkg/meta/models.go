package meta

import (
	"time"

	"gorm.io/datatypes"
)

// CommitModel 是 core.Commit 在关系型数据库中的投影 (索引)
// 对象库里的 Commit 才是事实来源，这张表只服务于查询 (nub log --author)
type CommitModel struct {
	// Hash 是主键
	Hash string `gorm:"primaryKey;type:char(64)"`

	AuthorName  string `gorm:"index;type:varchar(100)"`
	AuthorEmail string `gorm:"type:varchar(255)"`
	Message     string `gorm:"type:text"`
	Timestamp   int64  `gorm:"index"` // unix 秒，方便范围查询和排序

	TreeHash string `gorm:"type:char(64);not null"`

	// Parent 为空表示根提交
	Parent string `gorm:"type:char(64)"`

	// Paths: 该提交快照中的全部路径 ["a.txt", "src/main.go"]
	Paths datatypes.JSON

	CreatedAt time.Time
}

// TableName 强制指定表名
func (CommitModel) TableName() string {
	return "commits"
}
