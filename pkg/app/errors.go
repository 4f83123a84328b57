package app

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryAlreadyExists = errors.New("repository already exists")
	ErrRepositoryNotFound      = errors.New("not a nub repository (or any of the parent directories)")
	ErrInvalidRepository       = errors.New("invalid repository")
	ErrNothingToCommit         = errors.New("nothing to commit")
)

// FileNotFoundError 表示用户要求暂存的路径不存在
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("pathspec '%s' did not match any files", e.Path)
}
