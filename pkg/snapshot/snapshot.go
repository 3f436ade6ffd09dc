// pkg/snapshot/snapshot.go
package snapshot

import (
	"maps"
	"path/filepath"
	"slices"

	"dirsnap/pkg/types"
)

// Delimiter 分隔文本格式中的路径与摘要
const Delimiter = "|"

// Snapshot 是某一时刻目录内容的状态: 绝对路径 -> 文件摘要
// 顺序无关；只有最近一次 commit 的快照会被持久化
type Snapshot map[string]types.Digest

func New() Snapshot {
	return make(Snapshot)
}

// Add 记录一个文件的摘要，路径会被统一清洗
func (s Snapshot) Add(path string, digest types.Digest) {
	s[CleanPath(path)] = digest
}

// Lookup 返回 path 的上一次摘要
func (s Snapshot) Lookup(path string) (types.Digest, bool) {
	d, ok := s[CleanPath(path)]
	return d, ok
}

// Paths 返回排序后的所有路径，用于稳定输出
func (s Snapshot) Paths() []string {
	return slices.Sorted(maps.Keys(s))
}

func CleanPath(p string) string {
	return filepath.Clean(p)
}
