package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"dirsnap/pkg/config"
	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/storage"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MetricStore 组合真正的 Store，只统计调用次数
type MetricStore struct {
	storage.Store
	loads int32
	saves int32
}

func (m *MetricStore) Load(ctx context.Context) (snapshot.Snapshot, error) {
	atomic.AddInt32(&m.loads, 1)
	return m.Store.Load(ctx)
}

func (m *MetricStore) Save(ctx context.Context, snap snapshot.Snapshot) error {
	atomic.AddInt32(&m.saves, 1)
	return m.Store.Save(ctx, snap)
}

// TestWorkflow_AllBackends 对每种后端跑一遍 commit -> edit -> status
func TestWorkflow_AllBackends(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{"DiskText", func(t *testing.T) {
			viper.Set(config.KeyStoreType, "disk")
		}},
		{"DiskCBOR", func(t *testing.T) {
			viper.Set(config.KeyStoreType, "disk")
			viper.Set(config.KeyStoreFormat, "cbor")
		}},
		{"SQLite", func(t *testing.T) {
			viper.Set(config.KeyStoreType, "sql")
			viper.Set("store.sql.driver", "sqlite")
		}},
		{"Redis", func(t *testing.T) {
			redisAddr := "localhost:6379"
			conn, err := net.DialTimeout("tcp", redisAddr, time.Second)
			if err != nil {
				t.Skip("Skipping: Redis not available")
			}
			conn.Close()
			viper.Set(config.KeyStoreType, "redis")
			viper.Set("store.redis.url", fmt.Sprintf("redis://%s/0", redisAddr))
			viper.Set("store.redis.key", "snap:test:"+t.Name())
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()

			project := t.TempDir()
			root := filepath.Join(project, "test")
			require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
			viper.Set(config.KeyRootPath, root)
			viper.Set(config.KeyHashWorkers, 4)
			tc.setup(t)

			a, err := NewApp(context.Background())
			require.NoError(t, err)
			defer a.Close()

			write := func(rel, content string) {
				require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0644))
			}
			write("a.txt", "hello")
			write("sub/b.txt", "world")

			ctx := context.Background()
			res, err := a.Engine.Commit(ctx)
			require.NoError(t, err)
			require.Len(t, res.Files, 2)

			// 重新加载应得到完全相同的快照
			loaded, err := a.Store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, res.Snapshot, loaded)

			write("a.txt", "hello, again")

			changes, err := a.Engine.Status(ctx)
			require.NoError(t, err)
			got := map[string]snapshot.ChangeType{}
			for _, c := range changes {
				got[a.Engine.Rel(c.Path)] = c.Type
			}
			assert.Equal(t, map[string]snapshot.ChangeType{
				"a.txt":     snapshot.Edited,
				"sub/b.txt": snapshot.NoChanges,
			}, got)
		})
	}
}

func TestWorkflow_StatusDoesNotSave(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	project := t.TempDir()
	root := filepath.Join(project, "test")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0644))
	viper.Set(config.KeyRootPath, root)

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	// 替换为监控层，再组装引擎
	spy := &MetricStore{Store: a.Store}
	eng, err := newEngineFor(a.Root, a.StorePath, spy)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = eng.Status(ctx)
	require.NoError(t, err)
	_, err = eng.Commit(ctx)
	require.NoError(t, err)
	_, err = eng.Status(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&spy.loads))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.saves), "只有 commit 会写快照")
}
