// Package testinfra starts throwaway Postgres and Redis containers for
// integration tests.
package testinfra

import (
	"context"
	"os"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StartPostgres returns a gorm handle on a fresh Postgres 16 database. If
// SOCIETYHUB_TEST_PG_DSN is set, that database is reused instead.
func StartPostgres(ctx context.Context) (*gorm.DB, func(), error) {
	dsn := os.Getenv("SOCIETYHUB_TEST_PG_DSN")
	stop := func() {}

	if dsn == "" {
		pgC, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("societyhub"),
			postgres.WithUsername("societyhub"),
			postgres.WithPassword("societyhub"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			return nil, nil, err
		}
		dsn, err = pgC.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = pgC.Terminate(ctx)
			return nil, nil, err
		}
		stop = func() { _ = pgC.Terminate(context.Background()) }
	}

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		stop()
		return nil, nil, err
	}
	closeAll := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		stop()
	}
	return db, closeAll, nil
}

// StartRedis returns a redis:// URL for a fresh Redis 7 instance.
func StartRedis(ctx context.Context) (string, func(), error) {
	if url := os.Getenv("SOCIETYHUB_TEST_REDIS_URL"); url != "" {
		return url, func() {}, nil
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		return "", nil, err
	}
	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		_ = c.Terminate(ctx)
		return "", nil, err
	}
	return "redis://" + endpoint + "/0", func() { _ = c.Terminate(context.Background()) }, nil
}
