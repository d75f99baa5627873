package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/axellelanca/shortlinks/internal/config"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteBusyTimeoutMs = 5000

// Open connects to the configured store and tunes its pool.
//
// SQLite allows a single writer, so the pool is capped at one connection and
// concurrent requests queue in database/sql instead of failing with SQLITE_BUSY.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.Name)), gormCfg)
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql database: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().
		Str("driver", driverName(cfg.Driver)).
		Msg("database connection established")

	return db, nil
}

// Migrate creates or updates the links and clicks tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Link{}, &models.Click{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(name string) string {
	if strings.Contains(name, "_pragma=") {
		return name
	}
	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", name, sep, sqliteBusyTimeoutMs)
}

func driverName(driver string) string {
	if driver == "" {
		return "sqlite"
	}
	return driver
}
