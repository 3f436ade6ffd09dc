package meta

import (
	"context"
	"fmt"
	"time"

	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/types"

	"gorm.io/gorm"
)

// insertBatchSize 限制单条 INSERT 的参数数量 (SQLite 上限 32766)
const insertBatchSize = 500

// Repository 用一张 SQL 表实现 storage.Store
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Load 读取整张表
func (r *Repository) Load(ctx context.Context) (snapshot.Snapshot, error) {
	var rows []SnapshotEntry
	if err := r.db.GetConn().WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	s := snapshot.New()
	for _, row := range rows {
		s[row.Path] = types.Digest(row.Digest)
	}
	return s, nil
}

// Save 在一个事务里清空旧快照并写入新快照
// 失败时回滚，旧快照保持不变
func (r *Repository) Save(ctx context.Context, snap snapshot.Snapshot) error {
	now := time.Now()
	rows := make([]SnapshotEntry, 0, len(snap))
	for _, path := range snap.Paths() {
		rows = append(rows, SnapshotEntry{
			Path:      path,
			Digest:    snap[path].String(),
			CreatedAt: now,
		})
	}

	return r.db.GetConn().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 无条件删除需要 AllowGlobalUpdate
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SnapshotEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		return nil
	})
}
