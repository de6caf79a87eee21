package app

import (
	"context"
	"log"
	"time"

	"cv-forge/internal/config"
	"cv-forge/internal/database"
	"cv-forge/internal/database/migration"
	dbpostgres "cv-forge/internal/database/postgres"
	"cv-forge/internal/infrastructure/cache"
)

// Container owns the process-lifetime resources: the connection pool and the
// optional cache. It is built once in main and handed to the delivery layer.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{FS: migration.Files}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewRedis(log.Default()),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
