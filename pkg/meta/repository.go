package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"nub/pkg/core"
	"nub/pkg/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCommitNotFound = errors.New("commit not found in metadata")

// Repository 封装所有对 SQL 数据库的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// IndexCommit 将 core.Commit 对象“投影”到 SQL 数据库中
// paths 是该提交树中的全部路径
func (r *Repository) IndexCommit(ctx context.Context, c *core.Commit, paths []string) error {
	// 1. 路径列表排序后转 JSON，保证同一提交的投影稳定
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	if sorted == nil {
		sorted = []string{}
	}
	pathsJSON, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("failed to marshal paths: %w", err)
	}

	// 2. 构造 Model
	model := CommitModel{
		Hash:        c.ID().String(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		Message:     c.Message,
		Timestamp:   c.Timestamp,
		TreeHash:    c.TreeCid.Hash.String(),
		Parent:      c.ParentHash().String(),
		Paths:       datatypes.JSON(pathsJSON),
		CreatedAt:   time.Unix(c.Timestamp, 0).UTC(),
	}

	// 3. 写入数据库 (幂等写入)
	// 如果 Hash 已存在，则什么都不做 (Do Nothing)
	err = r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hash"}}, // 冲突列
			DoNothing: true,                            // 忽略
		}).
		Create(&model).Error

	if err != nil {
		return fmt.Errorf("failed to index commit: %w", err)
	}
	return nil
}

func (r *Repository) GetCommit(ctx context.Context, hash types.Hash) (*CommitModel, error) {
	var commit CommitModel
	// 因为 Hash 是主键，查询非常快
	err := r.db.GetConn().WithContext(ctx).
		Where("hash = ?", hash.String()).
		First(&commit).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &commit, nil
}

// FindCommitsByAuthor 按作者名查询，最新的在前；limit <= 0 表示不限
func (r *Repository) FindCommitsByAuthor(ctx context.Context, author string, limit int) ([]CommitModel, error) {
	var commits []CommitModel
	q := r.db.GetConn().WithContext(ctx).
		Where("author_name = ?", author).
		Order("timestamp DESC").
		Order("hash")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&commits).Error
	return commits, err
}

// PathList 解出 Paths 列
func (m *CommitModel) PathList() ([]string, error) {
	var paths []string
	if len(m.Paths) == 0 {
		return paths, nil
	}
	if err := json.Unmarshal(m.Paths, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}
