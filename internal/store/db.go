package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"labattend/internal/model"
)

// DB wraps the SQLite handle shared by every request.
type DB struct {
	Client *sqlx.DB
}

// NewDB opens the database file at path, creating its directory if needed.
func NewDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=off")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Foreign keys stay unenforced so deleting a session leaves its attendance in place.
	// SQLite serializes writers itself; one connection keeps that ordering visible.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{Client: db}, nil
}

// Ping checks the database is still usable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Client.PingContext(ctx)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// Migrate creates any missing tables and indexes. Existing data is kept.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema(true) {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	log.Printf("database ready: %s", tableList())
	return nil
}

// Recreate drops every table and creates them again. All data is lost.
func (d *DB) Recreate(ctx context.Context) error {
	tx, err := d.Client.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, k := range model.Kinds {
		for _, table := range []string{k.AttendanceTable, k.Table} {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
	}
	for _, stmt := range schema(false) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("database recreated: %s", tableList())
	return nil
}

func schema(ifNotExists bool) []string {
	guard := ""
	if ifNotExists {
		guard = "IF NOT EXISTS "
	}
	var stmts []string
	for _, k := range model.Kinds {
		stmts = append(stmts,
			fmt.Sprintf(`CREATE TABLE %s%s (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				subject     TEXT NOT NULL DEFAULT '%s',
				date        TEXT NOT NULL DEFAULT CURRENT_DATE,
				time        TEXT NOT NULL DEFAULT '%s',
				capacity    INTEGER NOT NULL DEFAULT %d,
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, guard, k.Table, model.DefaultSubject, model.DefaultTime, k.DefaultCapacity),
			fmt.Sprintf(`CREATE TABLE %s%s (
				id            TEXT PRIMARY KEY,
				%s            TEXT NOT NULL REFERENCES %s(id),
				student_name  TEXT NOT NULL,
				student_id    TEXT NOT NULL,
				status        TEXT NOT NULL CHECK(status IN ('present', 'absent', 'late')),
				date          TEXT NOT NULL,
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, guard, k.AttendanceTable, k.ForeignKey, k.Table),
			fmt.Sprintf(`CREATE INDEX %sidx_%s_created ON %s(created_at)`, guard, k.Table, k.Table),
			fmt.Sprintf(`CREATE INDEX %sidx_%s_created ON %s(created_at)`, guard, k.AttendanceTable, k.AttendanceTable),
			fmt.Sprintf(`CREATE INDEX %sidx_%s_session ON %s(%s)`, guard, k.AttendanceTable, k.AttendanceTable, k.ForeignKey),
			fmt.Sprintf(`CREATE INDEX %sidx_%s_date ON %s(date)`, guard, k.AttendanceTable, k.AttendanceTable),
		)
	}
	return stmts
}

func tableList() string {
	var names []string
	for _, k := range model.Kinds {
		names = append(names, k.Table, k.AttendanceTable)
	}
	return strings.Join(names, ", ")
}
