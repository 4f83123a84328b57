package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"nub/pkg/app"
	"nub/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	Nub *app.App
)

var rootCmd = &cobra.Command{
	Use:           "nub",
	Short:         "nub: a minimal content-addressed version control system",
	SilenceUsage:  true,
	SilenceErrors: true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init 命令就是去创建仓库的，跳过
		if cmd.Name() == "init" {
			return nil
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := app.Find(wd)
		if err != nil {
			if errors.Is(err, app.ErrRepositoryNotFound) {
				return fmt.Errorf("%w\n(Did you run 'nub init'?)", err)
			}
			return err
		}

		Nub, err = app.Open(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("failed to open repository: %w", err)
		}
		return nil
	},
}

// Execute 是入口
// 无论命令成功与否都关闭仓库
func Execute() error {
	err := rootCmd.Execute()
	if Nub != nil {
		if closeErr := Nub.Close(); err == nil {
			err = closeErr
		}
		Nub = nil
	}
	return err
}

func init() {
	// 在初始化时，加载配置
	cobra.OnInitialize(initConfig)

	// 1. 定义全局参数 --config
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./nub.yaml, .nub-vcs/nub.yaml or $HOME/.nub/nub.yaml)")

	// 2. 定义 storage.type 参数，并绑定到 Viper
	// 这样用户既可以在 yaml 里写，也可以用 --storage-type 覆盖
	rootCmd.PersistentFlags().String("storage-type", "", "object storage backend (disk|s3)")
	if err := viper.BindPFlag("storage.type", rootCmd.PersistentFlags().Lookup("storage-type")); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to bind flag:", err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to bind flag:", err)
		os.Exit(1)
	}
}

// initConfig 读取配置文件和环境变量，然后安装日志处理器
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "Config error:", err)
		os.Exit(1)
	}

	level := config.ParseLevel(viper.GetString("log.level"))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
