package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS programs (
	name TEXT PRIMARY KEY,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clauses (
	program TEXT NOT NULL,
	position INTEGER NOT NULL,
	doc TEXT NOT NULL,
	PRIMARY KEY(program, position),
	FOREIGN KEY(program) REFERENCES programs(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS learning_runs (
	id TEXT PRIMARY KEY,
	program TEXT NOT NULL,
	target TEXT NOT NULL,
	clauses TEXT NOT NULL,
	positives INTEGER NOT NULL,
	negatives INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_program ON learning_runs(program, created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveProgram replaces every clause stored under name
func (s *sqliteStore) SaveProgram(ctx context.Context, name string, p logic.Program) error {
	if name == "" {
		return fmt.Errorf("save program: empty name: %w", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := touchProgram(ctx, tx, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clauses WHERE program=?`, name); err != nil {
		return err
	}
	if err := insertClauses(ctx, tx, name, 0, p.Clauses()); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendClauses adds clauses after the last stored position
func (s *sqliteStore) AppendClauses(ctx context.Context, name string, clauses ...logic.Clause) error {
	if name == "" {
		return fmt.Errorf("append clauses: empty name: %w", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := touchProgram(ctx, tx, name); err != nil {
		return err
	}
	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position)+1, 0) FROM clauses WHERE program=?`, name).Scan(&next)
	if err != nil {
		return err
	}
	if err := insertClauses(ctx, tx, name, next, clauses); err != nil {
		return err
	}
	return tx.Commit()
}

func touchProgram(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO programs (name, updated_at) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET updated_at=excluded.updated_at;
`, name, time.Now().UTC().Format(time.RFC3339))
	return err
}

func insertClauses(ctx context.Context, tx *sql.Tx, name string, start int, clauses []logic.Clause) error {
	if len(clauses) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO clauses (program, position, doc) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range clauses {
		doc, err := json.Marshal(logic.EncodeClause(c))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, name, start+i, string(doc)); err != nil {
			return err
		}
	}
	return nil
}

// GetProgram loads clauses in stored order
func (s *sqliteStore) GetProgram(ctx context.Context, name string) (logic.Program, bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM programs WHERE name=?`, name).Scan(&exists)
	if err != nil {
		return logic.Program{}, false, err
	}
	if exists == 0 {
		return logic.Program{}, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM clauses WHERE program=? ORDER BY position`, name)
	if err != nil {
		return logic.Program{}, false, err
	}
	defer rows.Close()

	var clauses []logic.Clause
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return logic.Program{}, false, err
		}
		c, err := decodeClause(raw)
		if err != nil {
			return logic.Program{}, false, fmt.Errorf("program %s: %w", name, err)
		}
		clauses = append(clauses, c)
	}
	if err := rows.Err(); err != nil {
		return logic.Program{}, false, err
	}
	return logic.NewProgram(clauses...), true, nil
}

// ListPrograms returns stored program names in sorted order
func (s *sqliteStore) ListPrograms(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM programs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveRun records a learning run
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	targetJSON, err := json.Marshal(logic.EncodeLiteral(r.Target))
	if err != nil {
		return err
	}
	clausesJSON, err := json.Marshal(logic.EncodeProgram(logic.NewProgram(r.Clauses...)))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO learning_runs (id, program, target, clauses, positives, negatives, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`, r.ID, r.Program, string(targetJSON), string(clausesJSON), r.Positives, r.Negatives,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return fmt.Errorf("save run %s: %w", r.ID, internalerr.ErrDuplicate)
	}
	return err
}

// GetRun loads a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, program, target, clauses, positives, negatives, created_at
FROM learning_runs WHERE id=?;
`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// RunsForProgram returns the newest runs first
func (s *sqliteStore) RunsForProgram(ctx context.Context, program string, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, program, target, clauses, positives, negatives, created_at
FROM learning_runs
WHERE program = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, program, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var r store.Run
	var targetJSON, clausesJSON, createdAt string
	if err := sc.Scan(&r.ID, &r.Program, &targetJSON, &clausesJSON, &r.Positives, &r.Negatives, &createdAt); err != nil {
		return store.Run{}, err
	}

	var target logic.LiteralDoc
	if err := json.Unmarshal([]byte(targetJSON), &target); err != nil {
		return store.Run{}, err
	}
	lit, err := logic.DecodeLiteral(target)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s target: %w", r.ID, err)
	}
	r.Target = lit

	var docs []logic.ClauseDoc
	if err := json.Unmarshal([]byte(clausesJSON), &docs); err != nil {
		return store.Run{}, err
	}
	p, err := logic.DecodeProgram(docs)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	r.Clauses = p.Clauses()

	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func decodeClause(raw string) (logic.Clause, error) {
	var doc logic.ClauseDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return logic.Clause{}, err
	}
	return logic.DecodeClause(doc)
}
