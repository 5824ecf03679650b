package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mangrove-registry/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the process-wide connection opened by Initialize
var DB *gorm.DB

// Models lists every table managed by AutoMigrate, parents first
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectDocument{},
		&models.ActionLog{},
	}
}

// Options selects and tunes the database connection
type Options struct {
	// DatabaseURL is a postgres URL; when empty, or prefixed with
	// "sqlite:", SQLitePath (or the remainder of the URL) is used instead.
	DatabaseURL string
	SQLitePath  string
	Logger      *zap.Logger
	LogLevel    logger.LogLevel
}

// Initialize sets up the GORM database connection and migrates the schema
func Initialize(opts Options) error {
	db, err := Open(opts)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	DB = db
	return nil
}

// Open connects to postgres or sqlite according to opts
func Open(opts Options) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(opts.DatabaseURL, opts.SQLitePath)
	if err != nil {
		return nil, err
	}

	zl := opts.Logger
	if zl == nil {
		zl = zap.NewNop()
	}
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	// Configure GORM logger
	gormLogger := logger.New(
		zap.NewStdLog(zl.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	if isSQLite {
		// SQLite allows one writer; a single connection keeps transactions
		// from failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

func dialectorFor(databaseURL, sqlitePath string) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return sqlite.Open(SQLiteDSN(strings.TrimPrefix(databaseURL, "sqlite:"))), true, nil
	case databaseURL != "":
		return postgres.Open(databaseURL), false, nil
	case sqlitePath != "":
		return sqlite.Open(SQLiteDSN(sqlitePath)), true, nil
	}
	return nil, false, errors.New("database URL cannot be empty")
}

// SQLiteDSN enables foreign keys (needed for ON DELETE CASCADE / SET NULL)
// and a busy timeout on a sqlite file path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
