package meta

import "time"

// SnapshotEntry 是快照中一条 path -> digest 记录
// 整张表就是唯一的那份快照，每次 commit 整表替换
type SnapshotEntry struct {
	// Path 是主键 (绝对路径)
	Path string `gorm:"primaryKey;type:varchar(4096)"`

	Digest string `gorm:"type:char(32);not null"`

	CreatedAt time.Time
}

// TableName 强制指定表名
func (SnapshotEntry) TableName() string {
	return "snapshot_entries"
}
