package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaStep is one embedded SQL file, named <version>_<name>.sql.
type schemaStep struct {
	version int
	name    string
	sql     string
}

// migrate brings the schema up to the newest embedded step. The current
// version lives in SQLite's user_version pragma, so no bookkeeping table
// is needed.
func migrate(ctx context.Context, db *sql.DB) error {
	steps, err := schemaSteps(migrationsFS)
	if err != nil {
		return err
	}

	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if err := applyStep(ctx, db, step); err != nil {
			return err
		}
	}

	return nil
}

// schemaSteps reads the embedded steps in version order. fs.Glob returns
// lexical order, so versions must also increase lexically (zero-padded).
func schemaSteps(fsys fs.FS) ([]schemaStep, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	steps := make([]schemaStep, 0, len(files))
	for _, file := range files {
		version, name, err := parseStepName(strings.TrimPrefix(file, "migrations/"))
		if err != nil {
			return nil, err
		}
		if n := len(steps); n > 0 && version <= steps[n-1].version {
			return nil, fmt.Errorf("migration %s: version %d does not follow %d", file, version, steps[n-1].version)
		}

		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		steps = append(steps, schemaStep{version: version, name: name, sql: string(content)})
	}

	return steps, nil
}

func parseStepName(filename string) (int, string, error) {
	version, name, ok := strings.Cut(strings.TrimSuffix(filename, ".sql"), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}

	v, err := strconv.Atoi(version)
	if err != nil || v <= 0 {
		return 0, "", fmt.Errorf("invalid migration version in %q", filename)
	}

	return v, name, nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// applyStep runs one step and bumps user_version in the same transaction.
func applyStep(ctx context.Context, db *sql.DB, step schemaStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d_%s: %w", step.version, step.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, step.sql); err != nil {
		return fmt.Errorf("failed to apply migration %d_%s: %w", step.version, step.name, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, step.version)); err != nil {
		return fmt.Errorf("failed to record migration %d_%s: %w", step.version, step.name, err)
	}

	return tx.Commit()
}
