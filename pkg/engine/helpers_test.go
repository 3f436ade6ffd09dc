package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dirsnap/pkg/hasher"
	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/storage/disk"

	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 辅助工具
// -----------------------------------------------------------------------------

// testEnv 模拟原始布局: <project>/test 是根目录，<project>/snapshot.txt 是快照
type testEnv struct {
	root      string
	storePath string
	store     *disk.Adapter
	engine    *Engine
}

func setupEnv(t *testing.T, workers int) *testEnv {
	t.Helper()
	project := t.TempDir()
	root := filepath.Join(project, "test")
	require.NoError(t, os.MkdirAll(root, 0755))

	storePath := filepath.Join(project, "snapshot.txt")
	store, err := disk.NewAdapter(storePath, snapshot.FormatText)
	require.NoError(t, err)

	eng, err := New(Config{Root: root, StorePath: storePath, Workers: workers}, store, hasher.New(0))
	require.NoError(t, err)

	// 引擎会解析符号链接 (例如 macOS 的 /var -> /private/var)，测试统一使用解析后的路径
	return &testEnv{root: eng.Root(), storePath: eng.cfg.StorePath, store: store, engine: eng}
}

// write 在根目录下创建文件 (自动创建父目录)
func (env *testEnv) write(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(env.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (env *testEnv) mustCommit(t *testing.T) *CommitResult {
	t.Helper()
	res, err := env.engine.Commit(context.Background())
	require.NoError(t, err)
	return res
}

// report 把 Status 结果转换为 相对路径 -> 状态 文本
func (env *testEnv) report(t *testing.T, changes []snapshot.Change) map[string]string {
	t.Helper()
	out := make(map[string]string, len(changes))
	for _, c := range changes {
		out[env.engine.Rel(c.Path)] = c.Type.String()
	}
	return out
}

func (env *testEnv) mustStatus(t *testing.T) map[string]string {
	t.Helper()
	changes, err := env.engine.Status(context.Background())
	require.NoError(t, err)
	return env.report(t, changes)
}
