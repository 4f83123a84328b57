package config

import (
	"encoding/json"
	"fmt"
	"os"

	"nub/pkg/core"

	"github.com/spf13/viper"
)

const (
	DefaultUserName  = "NUB User"
	DefaultUserEmail = "user@nub.local"
)

// repoFile 是 .nub-vcs/config 的磁盘格式
type repoFile struct {
	User struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// WriteDefault 写出仓库级默认配置
func WriteDefault(path string) error {
	var f repoFile
	f.User.Name = DefaultUserName
	f.User.Email = DefaultUserEmail

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadUser 读取仓库级配置中的作者信息
// 使用独立的 viper 实例，避免与全局工具配置互相覆盖
// 文件缺失时使用默认作者；NUB_USER_NAME / NUB_USER_EMAIL 优先级最高
func ReadUser(path string) (core.Author, error) {
	v := viper.New()
	v.SetDefault("user.name", DefaultUserName)
	v.SetDefault("user.email", DefaultUserEmail)

	v.SetConfigFile(path)
	v.SetConfigType("json")

	_ = v.BindEnv("user.name", "NUB_USER_NAME")
	_ = v.BindEnv("user.email", "NUB_USER_EMAIL")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return core.Author{}, fmt.Errorf("read repository config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return core.Author{}, err
	}

	return core.Author{
		Name:  v.GetString("user.name"),
		Email: v.GetString("user.email"),
	}, nil
}
