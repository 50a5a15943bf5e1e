package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/config"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
)

var DB *gorm.DB

// Connect opens the configured database and stores it in DB.
func Connect(cfg config.Database) error {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// In-memory databases are per connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	DB = db
	logs.LogJSON("INFO", "Database connected", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return nil
}

// Close releases the pool behind DB.
func Close() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logs.LogJSON("ERROR", "Error getting sql.DB to close", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := sqlDB.Close(); err != nil {
		logs.LogJSON("ERROR", "Error closing database", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
