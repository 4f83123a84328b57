// Package status 实现三方对比：工作区、暂存区、最后一次提交。
//
// Classify 是纯函数，不做任何 I/O，方便在没有文件系统的情况下测试。
// 每个路径至多出现在一个分类里，优先级 staged > modified > untracked。
package status

import (
	"sort"

	"nub/pkg/types"
)

// Report 是三个互不相交的路径集合，各自已排序
type Report struct {
	Staged    []string
	Modified  []string
	Untracked []string
}

// IsClean 表示工作区、暂存区与最后一次提交完全一致
func (r Report) IsClean() bool {
	return len(r.Staged) == 0 && len(r.Modified) == 0 && len(r.Untracked) == 0
}

// Classify 对三个来源的键并集逐个分类
//
//   - Staged: 在暂存区中，且提交里没有或 Hash 不同。暂存后又被删除的文件也算在这里。
//   - Modified: 在工作区中，没被判为 Staged，且与权威 Hash 不同
//     (有暂存记录时以暂存区为准，否则以提交为准)。
//   - Untracked: 在工作区中，暂存区和提交里都没有。
func Classify(committed, staged, working map[string]types.Hash) Report {
	paths := make(map[string]struct{}, len(committed)+len(staged)+len(working))
	for _, m := range []map[string]types.Hash{committed, staged, working} {
		for p := range m {
			paths[p] = struct{}{}
		}
	}

	r := Report{
		Staged:    []string{},
		Modified:  []string{},
		Untracked: []string{},
	}

	for p := range paths {
		s, inStaged := staged[p]
		c, inCommitted := committed[p]
		w, inWorking := working[p]

		if inStaged && (!inCommitted || s != c) {
			r.Staged = append(r.Staged, p)
			continue
		}
		if !inWorking {
			continue
		}

		var authoritative types.Hash
		switch {
		case inStaged:
			authoritative = s
		case inCommitted:
			authoritative = c
		default:
			r.Untracked = append(r.Untracked, p)
			continue
		}

		if w != authoritative {
			r.Modified = append(r.Modified, p)
		}
	}

	sort.Strings(r.Staged)
	sort.Strings(r.Modified)
	sort.Strings(r.Untracked)
	return r
}
