package main

import (
	"flag"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/seed"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "seed.yml", "种子数据文件路径")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	fixture, err := seed.LoadFile(file)
	if err != nil {
		stdLog.Fatalf("Failed to load seed file: %v", err)
	}

	container := provider.NewContainer(cfg)
	result, err := seed.NewLoader(container).Apply(fixture)
	if err != nil {
		stdLog.Fatalf("Failed to apply seed data: %v", err)
	}
	logger.Infow("seed_completed", "file", file, "created", result.Created, "skipped", result.Skipped)
	_ = logger.Sync()
}
