// Package migrations holds the embedded schema for every supported driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const createVersions = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

// Versions lists the migrations available for driver in apply order.
func Versions(driver database.Driver) ([]string, error) {
	entries, err := fs.ReadDir(files, string(driver))
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %s: %w", driver, err)
	}

	var versions []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			versions = append(versions, strings.TrimSuffix(name, ".up.sql"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Apply runs every migration conn has not seen yet. Each migration commits
// together with its schema_migrations row.
func Apply(ctx context.Context, conn database.Connection) error {
	driver := conn.Driver()
	versions, err := Versions(driver)
	if err != nil {
		return err
	}

	if _, err := conn.Exec(ctx, createVersions); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := Applied(ctx, conn)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, version := range versions {
		if done[version] {
			continue
		}
		if err := apply(ctx, conn, version); err != nil {
			return err
		}
	}
	return nil
}

// Applied returns the recorded migration versions in order.
func Applied(ctx context.Context, conn database.Connection) ([]string, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func apply(ctx context.Context, conn database.Connection, version string) error {
	driver := conn.Driver()
	script, err := files.ReadFile(string(driver) + "/" + version + ".up.sql")
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", version, err)
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(script)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", version, err)
	}

	record := fmt.Sprintf(`INSERT INTO schema_migrations (version, applied_at) VALUES (%s, %s)`,
		driver.Placeholder(1), driver.Placeholder(2))
	if _, err := tx.Exec(ctx, record, version, database.FormatTime(time.Now())); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}

	return tx.Commit(ctx)
}
