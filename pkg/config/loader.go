package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// 配置键
const (
	KeyRootPath   = "root.path"
	KeyRootMarker = "root.marker"
	KeyRootSubdir = "root.subdir"

	KeyStoreType   = "store.type"
	KeyStorePath   = "store.path"
	KeyStoreFormat = "store.format"

	KeyHashChunkSize = "hash.chunk_size"
	KeyHashWorkers   = "hash.workers"

	KeyIgnore   = "ignore"
	KeyLogLevel = "log.level"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.snap -> ~/.snap
		viper.AddConfigPath(".")
		viper.AddConfigPath(".snap")
		viper.AddConfigPath(filepath.Join(home, ".snap"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (SNAP_STORE_TYPE 等)
	viper.SetEnvPrefix("SNAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 只是没找到配置文件，可能有环境变量，不算错
		// 但如果是配置文件格式错，那就是错
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug().Msg("no config file found, using defaults/env vars")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}

	return nil
}

func setDefaults() {
	// 根目录发现: 向上查找包含 *.csproj 的目录，然后进入 test 子目录
	viper.SetDefault(KeyRootMarker, DefaultMarker)
	viper.SetDefault(KeyRootSubdir, DefaultSubdir)

	// 存储默认值: 根目录旁边的 snapshot.txt
	viper.SetDefault(KeyStoreType, "disk")
	viper.SetDefault(KeyStoreFormat, "text")

	viper.SetDefault("store.sql.driver", "sqlite")
	viper.SetDefault("store.sql.host", "localhost")
	viper.SetDefault("store.sql.port", 5432)
	viper.SetDefault("store.sql.dbname", "dirsnap")
	viper.SetDefault("store.sql.sslmode", "disable")

	viper.SetDefault("store.redis.url", "redis://localhost:6379/0")
	viper.SetDefault("store.redis.key", "snap:snapshot")

	viper.SetDefault("store.s3.region", "us-east-1")
	viper.SetDefault("store.s3.key", "snapshot.txt")

	viper.SetDefault(KeyHashChunkSize, 8*1024)
	viper.SetDefault(KeyHashWorkers, 1)

	viper.SetDefault(KeyLogLevel, "info")
}

// ResolveRoot 返回被跟踪的根目录
// 显式配置的 root.path 优先，否则从可执行文件所在目录开始向上查找标记
func ResolveRoot() (string, error) {
	if p := viper.GetString(KeyRootPath); p != "" {
		return filepath.Abs(p)
	}

	marker := viper.GetString(KeyRootMarker)
	subdir := viper.GetString(KeyRootSubdir)

	var starts []string
	if exe, err := os.Executable(); err == nil {
		starts = append(starts, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		starts = append(starts, wd)
	}

	var lastErr error = ErrMarkerNotFound
	for _, start := range starts {
		root, err := FindRoot(start, marker, subdir)
		if err == nil {
			return root, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("cannot resolve root directory (set --root or %s): %w", KeyRootPath, lastErr)
}

// StorePath 返回快照文件路径，未配置时放在根目录的父目录
func StorePath(root string) string {
	if p := viper.GetString(KeyStorePath); p != "" {
		return p
	}
	return DefaultStorePath(root)
}

func DefaultStorePath(root string) string {
	return filepath.Join(filepath.Dir(root), "snapshot.txt")
}
