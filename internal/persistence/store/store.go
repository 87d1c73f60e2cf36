// Package store keeps named city saves in SQLite. Each name holds exactly one
// current snapshot; saving again replaces it under a fresh save id.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"urban-ca/internal/persistence/snapshot"
)

// ErrNotFound is returned when no save exists under a name.
var ErrNotFound = errors.New("save not found")

// Info describes a save without its cell data.
type Info struct {
	Name       string    `db:"name"`
	SaveID     string    `db:"save_id"`
	Generation uint64    `db:"generation"`
	Size       int       `db:"size"`
	Seed       int64     `db:"seed"`
	Layout     string    `db:"layout"`
	Population int       `db:"population"`
	SavedAt    time.Time `db:"-"`

	SavedAtMillis int64 `db:"saved_at"`
}

// DB wraps a SQLite connection holding city saves.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cities (
		name TEXT PRIMARY KEY,
		save_id TEXT NOT NULL,
		generation INTEGER NOT NULL,
		size INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		layout TEXT NOT NULL,
		population INTEGER NOT NULL,
		saved_at INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cities_saved_at ON cities(saved_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save stores snap as the current save for name and returns its save id.
func (db *DB) Save(ctx context.Context, name string, snap snapshot.SnapshotV1) (string, error) {
	if name == "" {
		return "", errors.New("save name is empty")
	}
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snap); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	population := 0
	for _, c := range snap.Cells {
		population += c.Population
	}
	id := uuid.NewString()
	row := map[string]any{
		"name":       name,
		"save_id":    id,
		"generation": int64(snap.Header.Generation),
		"size":       snap.Header.Size,
		"seed":       snap.Header.Seed,
		"layout":     snap.Header.Layout,
		"population": population,
		"saved_at":   db.now().UnixMilli(),
		"data":       buf.Bytes(),
	}
	_, err := db.conn.NamedExecContext(ctx, `INSERT INTO cities
		(name, save_id, generation, size, seed, layout, population, saved_at, data)
		VALUES (:name, :save_id, :generation, :size, :seed, :layout, :population, :saved_at, :data)
		ON CONFLICT(name) DO UPDATE SET
			save_id = excluded.save_id,
			generation = excluded.generation,
			size = excluded.size,
			seed = excluded.seed,
			layout = excluded.layout,
			population = excluded.population,
			saved_at = excluded.saved_at,
			data = excluded.data`, row)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	slog.Debug("city saved", "name", name, "save_id", id, "generation", snap.Header.Generation, "bytes", buf.Len())
	return id, nil
}

// Load returns the current snapshot saved under name.
func (db *DB) Load(ctx context.Context, name string) (snapshot.SnapshotV1, Info, error) {
	var rec struct {
		Info
		Data []byte `db:"data"`
	}
	err := db.conn.GetContext(ctx, &rec, `SELECT name, save_id, generation, size, seed, layout,
		population, saved_at, data FROM cities WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.SnapshotV1{}, Info{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return snapshot.SnapshotV1{}, Info{}, fmt.Errorf("load %s: %w", name, err)
	}
	snap, err := snapshot.Decode(bytes.NewReader(rec.Data))
	if err != nil {
		return snapshot.SnapshotV1{}, Info{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return snap, rec.Info.withTime(), nil
}

// List returns every save, most recent first.
func (db *DB) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	err := db.conn.SelectContext(ctx, &infos, `SELECT name, save_id, generation, size, seed, layout,
		population, saved_at FROM cities ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		infos[i] = infos[i].withTime()
	}
	return infos, nil
}

// Delete removes the save stored under name.
func (db *DB) Delete(ctx context.Context, name string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM cities WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (i Info) withTime() Info {
	i.SavedAt = time.UnixMilli(i.SavedAtMillis).UTC()
	return i
}
