package docfile

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    last_opened INTEGER NOT NULL
);
`

// Entry is one remembered document.
type Entry struct {
	Path       string
	Mode       Mode
	LastOpened time.Time
}

// Registry persists the recently opened documents across sessions, so
// the application can reopen the last document without asking again.
// Only the path and requested mode are durable; permission grants are
// re-probed on every open.
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens (creating if needed) the registry database.
func OpenRegistry(dbPath string) (*Registry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Registry{db: db}, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}

// Remember records that path was opened now with the given mode.
func (r *Registry) Remember(path string, mode Mode) error {
	_, err := r.db.Exec(
		`INSERT INTO documents (path, mode, last_opened) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mode = excluded.mode, last_opened = excluded.last_opened`,
		path, string(mode), time.Now().Unix(),
	)
	return err
}

// Last returns the most recently opened document.
func (r *Registry) Last() (Entry, error) {
	var e Entry
	var mode string
	var opened int64

	err := r.db.QueryRow(
		"SELECT path, mode, last_opened FROM documents ORDER BY last_opened DESC, path LIMIT 1",
	).Scan(&e.Path, &mode, &opened)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}

	e.Mode = Mode(mode)
	e.LastOpened = time.Unix(opened, 0)
	return e, nil
}

// Recent returns up to limit remembered documents, most recent first.
func (r *Registry) Recent(limit int) ([]Entry, error) {
	rows, err := r.db.Query(
		"SELECT path, mode, last_opened FROM documents ORDER BY last_opened DESC, path LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var mode string
		var opened int64
		if err := rows.Scan(&e.Path, &mode, &opened); err != nil {
			return nil, err
		}
		e.Mode = Mode(mode)
		e.LastOpened = time.Unix(opened, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Forget removes a remembered document. Forgetting an unknown path is
// a no-op.
func (r *Registry) Forget(path string) error {
	_, err := r.db.Exec("DELETE FROM documents WHERE path = ?", path)
	return err
}
