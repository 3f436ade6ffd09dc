package snapshot

// ChangeType 描述一个文件相对上一次快照的状态
type ChangeType int

const (
	NoChanges ChangeType = iota
	Edited
	Added
	Deleted
)

func (c ChangeType) String() string {
	switch c {
	case Edited:
		return "Edited"
	case Added:
		return "New"
	case Deleted:
		return "Deleted"
	default:
		return "No changes"
	}
}

// Change 是报告中的一行
type Change struct {
	Path string
	Type ChangeType
}

// Status 只遍历当前存在的文件，给出两态报告:
// 上一次快照里有同路径且摘要不同 -> Edited，其余一律 NoChanges。
// 没有基线 (或基线摘要为空) 的文件不算 Edited，已删除的文件不出现。
func Status(prev, curr Snapshot) []Change {
	paths := curr.Paths()
	result := make([]Change, 0, len(paths))

	for _, path := range paths {
		c := Change{Path: path, Type: NoChanges}
		if old, ok := prev.Lookup(path); ok && !old.IsZero() && old != curr[path] {
			c.Type = Edited
		}
		result = append(result, c)
	}
	return result
}

// Diff 给出严格的四态报告 (New / Edited / Deleted / No changes)
// 对两边排序后的路径做一次归并
func Diff(prev, curr Snapshot) []Change {
	prevPaths := prev.Paths()
	currPaths := curr.Paths()
	result := make([]Change, 0, max(len(prevPaths), len(currPaths)))

	i, j := 0, 0
	for i < len(prevPaths) && j < len(currPaths) {
		p, c := prevPaths[i], currPaths[j]

		switch {
		case p == c:
			t := NoChanges
			switch old := prev[p]; {
			case old.IsZero():
				t = Added // 空摘要等同于没有基线
			case old != curr[c]:
				t = Edited
			}
			result = append(result, Change{Path: c, Type: t})
			i++
			j++
		case p < c:
			result = append(result, Change{Path: p, Type: Deleted})
			i++
		default:
			result = append(result, Change{Path: c, Type: Added})
			j++
		}
	}

	for ; i < len(prevPaths); i++ {
		result = append(result, Change{Path: prevPaths[i], Type: Deleted})
	}
	for ; j < len(currPaths); j++ {
		result = append(result, Change{Path: currPaths[j], Type: Added})
	}

	return result
}
