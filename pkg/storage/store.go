package storage

import (
	"context"

	"dirsnap/pkg/snapshot"
)

// Store defines the interface for a snapshot backend.
// Exactly one snapshot is kept; implementations can be a local file,
// a SQL table, a Redis hash or an object in S3.
type Store interface {
	// Load 读取上一次保存的快照
	// 从未保存过时返回空快照，而不是错误
	Load(ctx context.Context) (snapshot.Snapshot, error)

	// Save 用 snap 完整覆盖已保存的快照
	Save(ctx context.Context, snap snapshot.Snapshot) error
}
