package exporter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"nub/pkg/core"
)

// PrintStructure 解析并打印结构化对象 (Commit/Tree)
// 如果是原始数据(Blob)，返回 false，由调用者决定如何展示
func PrintStructure(data []byte, w io.Writer) (bool, error) {
	typ, ok := core.PeekType(data)
	if !ok {
		return false, nil
	}

	switch typ {
	case core.TypeCommit:
		return true, printCommit(data, w)
	case core.TypeTree:
		return true, printTree(data, w)
	default:
		return false, nil
	}
}

func printCommit(data []byte, w io.Writer) error {
	c, err := core.DecodeCommit(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Type:    Commit\n")
	fmt.Fprintf(w, "Hash:    %s\n", c.ID())
	fmt.Fprintf(w, "Tree:    %s\n", c.TreeCid.Hash)
	if p := c.ParentHash(); p != "" {
		fmt.Fprintf(w, "Parent:  %s\n", p)
	}
	fmt.Fprintf(w, "Author:  %s\n", c.Author)
	fmt.Fprintf(w, "Time:    %s\n", c.Time().Format(time.RFC3339))
	fmt.Fprintf(w, "\n%s\n", c.Message)
	return nil
}

func printTree(data []byte, w io.Writer) error {
	t, err := core.DecodeTree(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Type: Tree\n\n")

	// 使用 tabwriter 对齐输出 (像 git ls-tree)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "TYPE\tHASH\tNAME\n")
	for _, entry := range t.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Kind, entry.Hash.Hash.Short(), entry.Name)
	}
	return tw.Flush()
}
