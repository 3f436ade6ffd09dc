package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"dirsnap/pkg/app"
	"dirsnap/pkg/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	SNAP *app.App
)

var rootCmd = &cobra.Command{
	Use:           "snap",
	Short:         "dirsnap: snapshot a directory and report what changed",
	SilenceUsage:  true,
	SilenceErrors: true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(viper.GetString(config.KeyLogLevel)); err != nil {
			return err
		}

		// 测试里可能已经注入了 SNAP
		if SNAP != nil {
			return nil
		}

		var err error
		SNAP, err = app.NewApp(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to initialize dirsnap: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if SNAP == nil {
			return nil
		}
		return SNAP.Close()
	},
}

// Execute 是入口
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// 全局参数，既可以在 yaml 里写，也可以用 flag 覆盖
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.snap/config.yaml)")
	rootCmd.PersistentFlags().String("root", "", "directory to snapshot (default: <dir with *.csproj>/test)")
	rootCmd.PersistentFlags().String("store-path", "", "snapshot file (default: snapshot.txt next to the root directory)")
	rootCmd.PersistentFlags().String("store-type", "", "snapshot backend: disk, sql, redis or s3")
	rootCmd.PersistentFlags().Int("workers", 0, "number of files hashed in parallel")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	bindings := map[string]string{
		config.KeyRootPath:    "root",
		config.KeyStorePath:   "store-path",
		config.KeyStoreType:   "store-type",
		config.KeyHashWorkers: "workers",
		config.KeyLogLevel:    "log-level",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Println("Failed to bind flag:", err)
			os.Exit(1)
		}
	}
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(lvl)
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
