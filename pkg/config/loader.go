package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		// 如果用户指定了文件，直接使用
		viper.SetConfigFile(cfgFile)
	} else {
		// 搜索顺序：
		// 1. 当前目录
		viper.AddConfigPath(".")
		// 2. 当前目录下的 .nub-vcs
		viper.AddConfigPath(".nub-vcs")
		// 3. 用户主目录下的 .nub (拿不到 HOME 时跳过)
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".nub"))
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName("nub") // 找 nub.yaml
	}

	// 3. 读取环境变量 (NUB_STORAGE_TYPE, NUB_CACHE_REDIS_URL 等)
	viper.SetEnvPrefix("NUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错，还有默认值和环境变量
		// 但如果是配置文件格式错，那就是错
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("no config file found, using defaults/env vars")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else {
		slog.Debug("using config file", slog.String("path", viper.ConfigFileUsed()))
	}

	return nil
}

func setDefaults() {
	// 存储默认值
	viper.SetDefault("storage.type", "disk")
	viper.SetDefault("storage.s3.region", "us-east-1")

	// 缓存默认关闭
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", 24*time.Hour)

	// 元数据库默认关闭
	viper.SetDefault("database.driver", "")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("log.level", "warn")
}

// ParseLevel 把配置里的日志级别字符串转换为 slog.Level，无法识别时退回 Warn
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return level
}
