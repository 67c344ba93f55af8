package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/pressly/goose/v3"
)

// DefaultDir is the on-disk root used by create and validate. Each dialect
// keeps its own subdirectory.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedded embed.FS

var dialectDirs = map[string]string{
	db.DialectSQLite:   "sqlite",
	db.DialectPostgres: "postgres",
}

// SourceDir returns the directory holding migrations for dialect under root.
func SourceDir(root, dialect string) (string, error) {
	sub, ok := dialectDirs[dialect]
	if !ok {
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	return filepath.Join(root, sub), nil
}

func prepare(dialect string) (string, error) {
	sub, ok := dialectDirs[dialect]
	if !ok {
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return path.Join("migrations", sub), nil
}

// Run executes a goose command against the embedded migrations for dialect.
func Run(ctx context.Context, sqlDB *sql.DB, dialect string, command string, args ...string) error {
	if sqlDB == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	if err := goose.RunContext(ctx, command, sqlDB, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Version reports the currently applied migration version.
func Version(sqlDB *sql.DB, dialect string) (int64, error) {
	if sqlDB == nil {
		return 0, fmt.Errorf("db is required")
	}
	if _, err := prepare(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(sqlDB)
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, sqlDB *sql.DB, dialect string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, sqlDB, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, sqlDB, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
