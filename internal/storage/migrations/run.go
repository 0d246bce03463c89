// Package migrations holds the embedded schema for both storage backends.
// Migration files apply in lexical order and are expected to be idempotent.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Execer is the minimal statement executor both pgx pools and clickhouse
// connections can satisfy through a thin adapter.
type Execer interface {
	ExecSQL(ctx context.Context, sql string) error
}

// ExecFunc adapts a function to the Execer interface.
type ExecFunc func(ctx context.Context, sql string) error

func (f ExecFunc) ExecSQL(ctx context.Context, sql string) error { return f(ctx, sql) }

// RunPostgres applies all embedded PostgreSQL migrations in lexical order.
func RunPostgres(ctx context.Context, exec Execer) error {
	return run(ctx, exec, PostgresFS, "postgres")
}

// RunClickhouse applies all embedded ClickHouse migrations in lexical order.
func RunClickhouse(ctx context.Context, exec Execer) error {
	return run(ctx, exec, ClickhouseFS, "clickhouse")
}

// run executes each migration file statement by statement. Neither backend
// accepts multi-statement scripts through a prepared exec, so files are
// split on ";". The schema files keep ";" out of string literals.
func run(ctx context.Context, exec Execer, fsys embed.FS, dir string) error {
	entries, err := files(fsys, dir)
	if err != nil {
		return err
	}
	for _, file := range entries {
		data, err := fs.ReadFile(fsys, dir+"/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		for _, stmt := range strings.Split(string(data), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if err := exec.ExecSQL(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", file, err)
			}
		}
	}
	return nil
}

func files(fsys embed.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s migrations: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
