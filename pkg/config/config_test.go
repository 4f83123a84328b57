package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfgPath := filepath.Join(t.TempDir(), "nub.yaml")
	content := `
storage:
  type: s3
  s3:
    bucket: my-bucket
cache:
  redis_url: redis://localhost:6379/0
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	require.NoError(t, Load(cfgPath))

	assert.Equal(t, "s3", viper.GetString("storage.type"))
	assert.Equal(t, "my-bucket", viper.GetString("storage.s3.bucket"))
	assert.Equal(t, "redis://localhost:6379/0", viper.GetString("cache.redis_url"))
	// 未写的键落回默认值
	assert.Equal(t, "disable", viper.GetString("database.sslmode"))
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("NUB_STORAGE_TYPE", "s3")

	cfgPath := filepath.Join(t.TempDir(), "nub.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  type: disk\n"), 0644))

	require.NoError(t, Load(cfgPath))
	assert.Equal(t, "s3", viper.GetString("storage.type"))
}

func TestLoad_BrokenFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfgPath := filepath.Join(t.TempDir(), "nub.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage: [unclosed"), 0644))

	assert.Error(t, Load(cfgPath))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("nonsense"))
}

func TestReadUser(t *testing.T) {
	t.Run("Defaults When Missing", func(t *testing.T) {
		author, err := ReadUser(filepath.Join(t.TempDir(), "config"))
		require.NoError(t, err)
		assert.Equal(t, DefaultUserName, author.Name)
		assert.Equal(t, DefaultUserEmail, author.Email)
	})

	t.Run("Default File Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, WriteDefault(path))

		author, err := ReadUser(path)
		require.NoError(t, err)
		assert.Equal(t, "NUB User <user@nub.local>", author.String())
	})

	t.Run("Custom User", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, os.WriteFile(path, []byte(`{"user":{"name":"Ada","email":"ada@example.com"}}`), 0644))

		author, err := ReadUser(path)
		require.NoError(t, err)
		assert.Equal(t, "Ada", author.Name)
		assert.Equal(t, "ada@example.com", author.Email)
	})

	t.Run("Env Override", func(t *testing.T) {
		t.Setenv("NUB_USER_NAME", "Env Person")
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, WriteDefault(path))

		author, err := ReadUser(path)
		require.NoError(t, err)
		assert.Equal(t, "Env Person", author.Name)
		assert.Equal(t, DefaultUserEmail, author.Email)
	})

	t.Run("Corrupt File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := ReadUser(path)
		assert.Error(t, err)
	})
}
