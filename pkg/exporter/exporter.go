package exporter

import (
	"context"
	"fmt"
	"io"

	"nub/pkg/storage"
	"nub/pkg/types"
)

type Exporter struct {
	store storage.Store
}

func NewExporter(store storage.Store) *Exporter {
	return &Exporter{store: store}
}

// ExportBlob 将 Blob 原始内容流式写入 writer
func (e *Exporter) ExportBlob(ctx context.Context, hash types.Hash, writer io.Writer) error {
	reader, err := e.store.Get(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to get blob %s: %w", hash.Short(), err)
	}
	defer reader.Close()

	if _, err := io.Copy(writer, reader); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", hash.Short(), err)
	}
	return nil
}

// PrintObject 读取对象：结构化对象 (Tree/Commit) 打印为可读文本，Blob 原样输出
func (e *Exporter) PrintObject(ctx context.Context, hash types.Hash, writer io.Writer) error {
	// 1. 读取原始字节
	data, err := storage.ReadAll(ctx, e.store, hash)
	if err != nil {
		return err
	}

	// 2. 探测类型并分发
	printed, err := PrintStructure(data, writer)
	if err != nil {
		return err
	}
	if printed {
		return nil
	}

	// 3. Blob: 原样输出，方便 `nub cat <hash> > file`
	_, err = writer.Write(data)
	return err
}
