// pkg/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"dirsnap/pkg/config"
	"dirsnap/pkg/engine"
	"dirsnap/pkg/hasher"
	"dirsnap/pkg/meta"
	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/storage"
	"dirsnap/pkg/storage/disk"
	"dirsnap/pkg/storage/redisstore"
	"dirsnap/pkg/storage/s3"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrUnsupportedStore = errors.New("unsupported storage type")

// App 是整个应用程序的依赖容器 (Dependency Container)
type App struct {
	Engine    *engine.Engine
	Store     storage.Store
	Root      string
	StorePath string // 仅 disk 存储有意义

	closers []io.Closer
}

// NewApp 是工厂函数，负责组装这一台机器
// 它遵循 Viper 的配置，但不知道具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	// 1. 确定根目录 (Single Source of Truth)
	root, err := config.ResolveRoot()
	if err != nil {
		return nil, err
	}

	// 2. 初始化存储层
	store, closer, err := initStore(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	a := &App{Store: store, Root: root}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	if d, ok := store.(*disk.Adapter); ok {
		a.StorePath = d.Path()
	}

	// 3. 组装引擎
	a.Engine, err = newEngineFor(root, a.StorePath, store)
	if err != nil {
		a.Close()
		return nil, err
	}

	log.Debug().
		Str("root", root).
		Str("store", viper.GetString(config.KeyStoreType)).
		Msg("app initialized")

	return a, nil
}

// newEngineFor 用 hash.* 和 ignore 配置组装引擎
func newEngineFor(root, storePath string, store storage.Store) (*engine.Engine, error) {
	h := hasher.New(viper.GetInt(config.KeyHashChunkSize))
	return engine.New(engine.Config{
		Root:      root,
		StorePath: storePath,
		Workers:   viper.GetInt(config.KeyHashWorkers),
		Ignore:    viper.GetStringSlice(config.KeyIgnore),
	}, store, h)
}

// Close 释放存储连接
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// initStore 根据 store.type 选择后端
func initStore(ctx context.Context, root string) (storage.Store, io.Closer, error) {
	storeType := viper.GetString(config.KeyStoreType)

	switch storeType {
	case "", "disk":
		format, err := snapshot.ParseFormat(viper.GetString(config.KeyStoreFormat))
		if err != nil {
			return nil, nil, err
		}
		store, err := disk.NewAdapter(config.StorePath(root), format)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case "sql":
		dsn := viper.GetString("store.sql.dsn")
		if dsn == "" {
			dsn = filepath.Join(filepath.Dir(root), "snapshot.db")
		}
		db, err := meta.NewDB(ctx, meta.Config{
			Driver:   viper.GetString("store.sql.driver"),
			DSN:      dsn,
			Host:     viper.GetString("store.sql.host"),
			Port:     viper.GetInt("store.sql.port"),
			User:     viper.GetString("store.sql.user"),
			Password: viper.GetString("store.sql.password"),
			DBName:   viper.GetString("store.sql.dbname"),
			SSLMode:  viper.GetString("store.sql.sslmode"),
		})
		if err != nil {
			return nil, nil, err
		}
		return meta.NewRepository(db), db, nil

	case "redis":
		store, err := redisstore.NewStore(ctx, redisstore.Config{
			RedisURL: viper.GetString("store.redis.url"),
			Key:      viper.GetString("store.redis.key"),
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case "s3":
		bucket := viper.GetString("store.s3.bucket")
		if bucket == "" {
			return nil, nil, fmt.Errorf("store.s3.bucket is required for s3 storage")
		}
		store, err := s3.NewAdapter(ctx, s3.Config{
			Endpoint:        viper.GetString("store.s3.endpoint"),
			Region:          viper.GetString("store.s3.region"),
			Bucket:          bucket,
			Key:             viper.GetString("store.s3.key"),
			AccessKeyID:     viper.GetString("store.s3.access_key_id"),
			SecretAccessKey: viper.GetString("store.s3.secret_access_key"),
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, storeType)
	}
}
