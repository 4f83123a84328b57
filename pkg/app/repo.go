package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nub/pkg/config"
	"nub/pkg/ignore"
	"nub/pkg/index"
	"nub/pkg/meta"
	"nub/pkg/refs"
	"nub/pkg/storage"
	"nub/pkg/storage/cache"
	"nub/pkg/storage/disk"
	"nub/pkg/storage/s3"

	"github.com/spf13/viper"
)

const (
	objectsDir = "objects"
	commitsDir = "commits"
	headsDir   = "refs/heads"
)

// Init 在 root 下创建一个空仓库
func Init(root string) (string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	repoPath := filepath.Join(root, ignore.MetaDir)

	// 1. 检查是否已存在
	if _, err := os.Stat(repoPath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrRepositoryAlreadyExists, repoPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	// 2. 创建目录结构
	for _, dir := range []string{objectsDir, commitsDir, headsDir} {
		if err := os.MkdirAll(filepath.Join(repoPath, filepath.FromSlash(dir)), 0755); err != nil {
			return "", fmt.Errorf("failed to create repo directory: %w", err)
		}
	}

	// 3. HEAD 指向默认分支，分支文件在第一次提交时才出现
	if err := refs.NewManager(repoPath).InitHead(refs.DefaultBranch); err != nil {
		return "", fmt.Errorf("failed to write HEAD: %w", err)
	}

	// 4. 空暂存区与默认配置
	if err := index.Load(filepath.Join(repoPath, "index")).Save(); err != nil {
		return "", fmt.Errorf("failed to write index: %w", err)
	}
	if err := config.WriteDefault(filepath.Join(repoPath, "config")); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	slog.Debug("repository initialized", slog.String("path", repoPath))
	return repoPath, nil
}

// Find 从 start 开始逐级向上查找包含 .nub-vcs 的目录
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ignore.MetaDir))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRepositoryNotFound
		}
		dir = parent
	}
}

// validate 检查仓库结构是否完整
func validate(repoPath string) error {
	for _, dir := range []string{objectsDir, commitsDir, headsDir} {
		info, err := os.Stat(filepath.Join(repoPath, filepath.FromSlash(dir)))
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: missing %s/", ErrInvalidRepository, dir)
		}
	}
	info, err := os.Stat(filepath.Join(repoPath, "HEAD"))
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: missing HEAD", ErrInvalidRepository)
	}
	return nil
}

// Open 打开 root 下的仓库，并按照 Viper 配置组装存储、缓存与元数据库
func Open(ctx context.Context, root string) (*App, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	repoPath := filepath.Join(root, ignore.MetaDir)

	// 1. 结构校验
	if info, err := os.Stat(repoPath); err != nil || !info.IsDir() {
		return nil, ErrRepositoryNotFound
	}
	if err := validate(repoPath); err != nil {
		return nil, err
	}

	a := &App{
		Root:     root,
		RepoPath: repoPath,
		WorkDir:  root,
		Refs:     refs.NewManager(repoPath),
	}
	if wd, err := os.Getwd(); err == nil {
		a.WorkDir = wd
	}

	// 2. 初始化存储层
	if a.Objects, err = a.openStore(ctx, objectsDir); err != nil {
		a.Close()
		return nil, err
	}
	if a.Commits, err = a.openStore(ctx, commitsDir); err != nil {
		a.Close()
		return nil, err
	}

	// 3. 暂存区 (缺失或损坏都视为空)
	a.Index = index.Load(a.indexPath())

	// 4. 忽略规则
	if a.ignore, err = ignore.NewMatcher(root); err != nil {
		a.Close()
		return nil, err
	}

	// 5. 元数据库 (可选)
	if err := a.openMeta(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// openStore 初始化存储后端，并在配置了 Redis 时套上缓存
func (a *App) openStore(ctx context.Context, kind string) (storage.Store, error) {
	store, err := initStore(ctx, a.RepoPath, kind)
	if err != nil {
		return nil, err
	}

	redisURL := viper.GetString("cache.redis_url")
	if redisURL == "" {
		return store, nil
	}

	cached, err := cache.NewCachedStore(store, cache.Config{
		RedisURL:  redisURL,
		TTL:       viper.GetDuration("cache.ttl"),
		Namespace: kind,
	})
	if err != nil {
		// 缓存只是加速层，连不上就直接用底层存储
		slog.Warn("redis cache unavailable, continuing without cache", slog.Any("err", err))
		return store, nil
	}
	a.closers = append(a.closers, cached)
	return cached, nil
}

// initStore 根据 storage.type 选择存储后端
// kind 是 "objects" 或 "commits"：磁盘上是子目录，S3 上是 key 前缀
func initStore(ctx context.Context, repoPath, kind string) (storage.Store, error) {
	storageType := viper.GetString("storage.type")

	switch storageType {
	case "", "disk":
		store, err := disk.NewAdapter(filepath.Join(repoPath, kind))
		if err != nil {
			return nil, fmt.Errorf("failed to init disk storage: %w", err)
		}
		return store, nil

	case "s3":
		store, err := s3.NewAdapter(ctx, s3.Config{
			Endpoint:        viper.GetString("storage.s3.endpoint"),
			Region:          viper.GetString("storage.s3.region"),
			Bucket:          viper.GetString("storage.s3.bucket"),
			AccessKeyID:     viper.GetString("storage.s3.access_key"),
			SecretAccessKey: viper.GetString("storage.s3.secret_key"),
			Prefix:          kind + "/",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

func (a *App) openMeta(ctx context.Context) error {
	driver := viper.GetString("database.driver")
	if driver == "" {
		return nil
	}

	cfg := meta.Config{
		Driver:   driver,
		Path:     viper.GetString("database.path"),
		Host:     viper.GetString("database.host"),
		Port:     viper.GetInt("database.port"),
		User:     viper.GetString("database.user"),
		Password: viper.GetString("database.password"),
		DBName:   viper.GetString("database.name"),
		SSLMode:  viper.GetString("database.sslmode"),
	}
	// sqlite 默认放在仓库目录里
	if driver == "sqlite" && cfg.Path == "" {
		cfg.Path = filepath.Join(a.RepoPath, "meta.db")
	}

	db, err := meta.NewDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open metadata database: %w", err)
	}
	a.closers = append(a.closers, db)
	a.Meta = meta.NewRepository(db)
	return nil
}
