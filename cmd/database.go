package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// sqlDriverName maps the configured driver onto the registered database/sql driver.
func sqlDriverName(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

// gooseDialect maps the configured driver onto a goose dialect.
func gooseDialect(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	driver := sqlDriverName(cfg.Driver)

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.Driver == "sqlite" {
		if _, err := dbConn.Exec(`PRAGMA busy_timeout=5000`); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB, driver string, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if driver == "sqlite" {
		dialector = sqlite.New(sqlite.Config{Conn: db.DB})
	} else {
		dialector = postgres.New(postgres.Config{Conn: db.DB})
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	logger.Info("database connected", "driver", driver)
	return gdb, nil
}
