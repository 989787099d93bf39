package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed scripts/*.sql
var bootstrapFS embed.FS

// bootstrapLockID keys the advisory lock held while migrating, so instances
// starting together apply each script once.
const bootstrapLockID = 0x636f7572

const metaDDL = `
CREATE TABLE IF NOT EXISTS coursely_meta (
    version     INT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE coursely_meta ADD COLUMN IF NOT EXISTS name TEXT NOT NULL DEFAULT ''`

// migration is one numbered script under scripts/, named NNNN_name.sql.
type migration struct {
	version int
	name    string
	file    string
}

// loadMigrations lists the scripts in fsys ordered by version. Versions
// must start at 1 and have no gaps.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "scripts/*.sql")
	if err != nil {
		return nil, err
	}

	var out []migration
	for _, f := range files {
		base := strings.TrimSuffix(path.Base(f), ".sql")
		num, name, ok := strings.Cut(base, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("migration %s: want NNNN_name.sql", f)
		}
		v, err := strconv.Atoi(num)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("migration %s: bad version %q", f, num)
		}
		out = append(out, migration{version: v, name: name, file: f})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	for i, m := range out {
		if m.version != i+1 {
			return nil, fmt.Errorf("migration %s: expected version %d", m.file, i+1)
		}
	}
	return out, nil
}

// pendingMigrations returns the migrations newer than current.
func pendingMigrations(all []migration, current int) []migration {
	for i, m := range all {
		if m.version > current {
			return all[i:]
		}
	}
	return nil
}

// EnsureBootstrapped brings the schema up to the newest embedded script.
// Every pending script and its coursely_meta row commit together.
func EnsureBootstrapped(ctx context.Context, db *sql.DB) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	all, err := loadMigrations(bootstrapFS)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctxBoot, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctxBoot, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockID); err != nil {
		return fmt.Errorf("bootstrap lock: %w", err)
	}
	if _, err := tx.ExecContext(ctxBoot, metaDDL); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	var current int
	if err := tx.QueryRowContext(ctxBoot, `SELECT COALESCE(MAX(version), 0) FROM coursely_meta`).Scan(&current); err != nil {
		return fmt.Errorf("meta version check failed: %w", err)
	}
	if current > len(all) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(all))
	}

	pending := pendingMigrations(all, current)
	for _, m := range pending {
		script, err := bootstrapFS.ReadFile(m.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", m.file, err)
		}
		if _, err := tx.ExecContext(ctxBoot, string(script)); err != nil {
			return fmt.Errorf("apply %s: %w", m.file, err)
		}
		if _, err := tx.ExecContext(ctxBoot, `INSERT INTO coursely_meta (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
			return fmt.Errorf("record %s: %w", m.file, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}
