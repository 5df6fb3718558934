package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"talent-bridge/internal/logger"
)

// lockKey serialises concurrent migrators through pg_advisory_lock.
const lockKey int64 = 746295114

// Runner applies migrations from Dir when set, otherwise from FS.
type Runner struct {
	FS     fs.FS
	Dir    string
	Logger logger.Logger
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

type appliedMigration struct {
	Version  int64
	Checksum string
}

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// Run applies every pending migration in version order. An applied migration
// whose file content changed aborts the run.
func (r Runner) Run(ctx context.Context, db *sql.DB) (int, error) {
	if db == nil {
		return 0, errors.New("nil db")
	}

	migs, err := r.load()
	if err != nil {
		return 0, err
	}
	if len(migs) == 0 {
		return 0, nil
	}

	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return 0, err
	}

	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return 0, err
	}
	defer func() {
		_, _ = db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	pending, err := pendingOf(ctx, db, migs)
	if err != nil {
		return 0, err
	}

	for _, m := range pending {
		start := time.Now()
		if err := applyOne(ctx, db, m); err != nil {
			return 0, err
		}
		r.log().Info("migration applied", map[string]interface{}{
			"version":  m.Version,
			"file":     m.Filename,
			"duration": time.Since(start).String(),
		})
	}
	return len(pending), nil
}

// Pending lists migrations present on disk but not yet applied.
func (r Runner) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	migs, err := r.load()
	if err != nil {
		return nil, err
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, err
	}
	return pendingOf(ctx, db, migs)
}

func (r Runner) load() ([]Migration, error) {
	if strings.TrimSpace(r.Dir) != "" {
		return LoadDir(r.Dir)
	}
	if r.FS == nil {
		return nil, nil
	}
	return Load(r.FS)
}

func (r Runner) log() logger.Logger {
	if r.Logger == nil {
		return logger.NewNop()
	}
	return r.Logger
}

func pendingOf(ctx context.Context, db *sql.DB, migs []Migration) ([]Migration, error) {
	applied, err := getApplied(ctx, db)
	if err != nil {
		return nil, err
	}

	out := make([]Migration, 0, len(migs))
	for _, m := range migs {
		a, ok := applied[m.Version]
		if !ok {
			out = append(out, m)
			continue
		}
		if a.Checksum != m.Checksum {
			return nil, fmt.Errorf("migration checksum mismatch: version=%d name=%s", m.Version, m.Name)
		}
	}
	return out, nil
}

// LoadDir reads migrations from a directory on disk. A missing directory
// yields no migrations.
func LoadDir(dir string) ([]Migration, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return Load(os.DirFS(dir))
}

// Load reads V<version>__<name>.sql files from the root of fsys, ordered by
// version. Other files are ignored.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migs []Migration
	seen := make(map[int64]string, len(entries))
	for _, e := range entries {
		parts := fileRe.FindStringSubmatch(e.Name())
		if e.IsDir() || parts == nil {
			continue
		}
		m, err := parseMigration(fsys, e.Name(), parts)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("duplicate migration version: %d (%s, %s)", m.Version, prev, m.Filename)
		}
		seen[m.Version] = m.Filename
		migs = append(migs, m)
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

func parseMigration(fsys fs.FS, filename string, parts []string) (Migration, error) {
	version, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Migration{}, fmt.Errorf("invalid migration version: %s", filename)
	}
	raw, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return Migration{}, err
	}
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return Migration{}, fmt.Errorf("empty migration file: %s", filename)
	}
	sum := sha256.Sum256([]byte(body))
	return Migration{
		Version:  version,
		Name:     parts[2],
		Filename: filename,
		SQL:      body,
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

func getApplied(ctx context.Context, db *sql.DB) (map[int64]appliedMigration, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]appliedMigration{}
	for rows.Next() {
		var a appliedMigration
		if err := rows.Scan(&a.Version, &a.Checksum); err != nil {
			return nil, err
		}
		out[a.Version] = a
	}
	return out, rows.Err()
}

func applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply migration failed: version=%d file=%s: %w", m.Version, m.Filename, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)`,
		m.Version, m.Name, m.Checksum, time.Now().UTC(),
	); err != nil {
		return err
	}

	return tx.Commit()
}
