package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/mangrove-registry/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConnection represents a named database connection
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	DbURL  string
	Models []interface{}
	log    *zap.Logger
}

// NewDBConnection creates a new database connection
func NewDBConnection(name, dbURL string, zl *zap.Logger) (*DBConnection, error) {
	if dbURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}
	if zl == nil {
		zl = zap.NewNop()
	}

	db, err := Open(Options{DatabaseURL: dbURL, Logger: zl})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}

	zl.Info("connected to database", zap.String("name", name), zap.String("dialect", db.Dialector.Name()))

	return &DBConnection{
		DB:     db,
		Name:   name,
		DbURL:  dbURL,
		Models: Models(),
		log:    zl,
	}, nil
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	c.log.Info("migrating database schema", zap.String("name", c.Name))
	if err := c.DB.AutoMigrate(c.Models...); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	return nil
}

// CopyStats counts the rows copied per table
type CopyStats struct {
	Users     int
	Projects  int
	Documents int
	Actions   int
}

// MigrateDataBetweenDatabases copies all rows from source to target in
// foreign key order. The target writes run in one transaction, so a failed
// copy leaves the target unchanged.
func MigrateDataBetweenDatabases(ctx context.Context, source, target *DBConnection) (CopyStats, error) {
	var stats CopyStats

	users, err := repositories.NewUserRepository(source.DB).FindAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch users: %w", err)
	}
	projects, err := repositories.NewProjectRepository(source.DB).FindAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch projects: %w", err)
	}
	documents, err := repositories.NewDocumentRepository(source.DB).FindAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch documents: %w", err)
	}
	actions, err := repositories.NewActionLogRepository(source.DB).FindAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch action logs: %w", err)
	}

	target.log.Info("copying rows",
		zap.Int("users", len(users)),
		zap.Int("projects", len(projects)),
		zap.Int("documents", len(documents)),
		zap.Int("actions", len(actions)),
	)

	err = target.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return fmt.Errorf("failed to migrate users: %w", err)
			}
		}
		if len(projects) > 0 {
			if err := tx.Omit("CreatedBy", "Documents", "Actions").Create(&projects).Error; err != nil {
				return fmt.Errorf("failed to migrate projects: %w", err)
			}
		}
		if len(documents) > 0 {
			if err := tx.Create(&documents).Error; err != nil {
				return fmt.Errorf("failed to migrate documents: %w", err)
			}
		}
		if len(actions) > 0 {
			if err := tx.Omit("User").Create(&actions).Error; err != nil {
				return fmt.Errorf("failed to migrate action logs: %w", err)
			}
		}
		return resetSequences(tx)
	})
	if err != nil {
		return stats, err
	}

	stats = CopyStats{
		Users:     len(users),
		Projects:  len(projects),
		Documents: len(documents),
		Actions:   len(actions),
	}
	return stats, nil
}

// resetSequences moves postgres serial sequences past the copied ids.
// SQLite derives the next rowid from the table itself.
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"project_documents", "action_logs"} {
		stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s", table)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", table, err)
		}
	}
	return nil
}
