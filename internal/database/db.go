package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/justsurfingit/jobly/internal/config"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/justsurfingit/jobly/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Querier is what the services need to run SQL. *sql.DB and *sql.Tx both
// satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Connect opens the Postgres connection and applies the pool limits.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logging.Info().Int("max_open_conns", cfg.MaxOpenConns).Msg("database connection established")
	return db, nil
}

// Migrate creates or updates the tables the services query.
func Migrate(db *gorm.DB) error {
	logging.Info().Msg("running migrations")
	// Order matters: referenced tables first.
	return db.AutoMigrate(&models.Company{}, &models.Job{}, &models.User{}, &models.Application{})
}

// SQL returns the pooled database/sql handle behind db.
func SQL(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlDB, nil
}
