package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// SchemaVersion is bumped whenever the report schema changes
const SchemaVersion = 1

const schemaVersionKey = "schema_version"

// DB wraps the gorm connection
type DB struct {
	*gorm.DB
}

// Open opens the SQLite database at path with the given pool limits
func Open(path string, maxOpenConns, maxIdleConns int) (*DB, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &DB{gormDB}, nil
}

// NewDBFromGorm wraps an existing gorm connection
func NewDBFromGorm(gormDB *gorm.DB) *DB {
	return &DB{gormDB}
}

// Migrate creates the report tables and records the schema version
func (db *DB) Migrate() error {
	if err := db.AutoMigrate(&Report{}, &Metadata{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	meta := Metadata{Key: schemaVersionKey, Value: strconv.Itoa(SchemaVersion)}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	return nil
}

// GetSchemaVersion returns the current schema version, 0 before the first migration
func (db *DB) GetSchemaVersion() (int, error) {
	if !db.Migrator().HasTable(&Metadata{}) {
		return 0, nil
	}

	var meta Metadata
	err := db.Where(&Metadata{Key: schemaVersionKey}).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(meta.Value)
}

// Ping checks that the database is reachable
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
