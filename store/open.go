package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"task-manager/config"
)

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.Postgres.DSN())
	case config.DriverMongo:
		return NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	case config.DriverFirestore:
		return NewFirestore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsPath)
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s, err := NewRedis(ctx, client, cfg.Redis.Prefix)
		if err != nil {
			client.Close()
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}
