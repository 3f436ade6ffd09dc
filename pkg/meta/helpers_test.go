package meta

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"testing"

	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/types"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// -----------------------------------------------------------------------------
// 通用辅助函数 (Helpers)
// -----------------------------------------------------------------------------

// mockDigest 生成合法的测试用摘要
func mockDigest(input string) types.Digest {
	sum := md5.Sum([]byte(input))
	return types.Digest(hex.EncodeToString(sum[:]))
}

// setupTestRepo 构建隔离的测试环境 (每个测试一个内存库)
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	metaDB := NewWithConn(db)
	require.NoError(t, metaDB.AutoMigrate(&SnapshotEntry{}))

	return NewRepository(metaDB)
}

// mustSave 保存快照，失败则终止
func mustSave(t *testing.T, repo *Repository, s snapshot.Snapshot, msgAndArgs ...any) {
	t.Helper()
	err := repo.Save(context.Background(), s)
	require.NoError(t, err, msgAndArgs...)
}
