package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/okian/rolematch/internal/domain/model"
	_ "modernc.org/sqlite"
)

// database/sql driver names.
const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

const defaultTable = "jobs"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// SQLSource reads postings from a table with combined_features and
// target_role columns, ordered by id.
type SQLSource struct {
	db     *sql.DB
	driver string
	table  string
}

var _ Source = (*SQLSource)(nil)

// OpenSQLSource opens and pings the database.
func OpenSQLSource(ctx context.Context, driver, dsn string, opts ...Option) (*SQLSource, error) {
	if driver != DriverSQLite && driver != DriverPgx {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	s := &SQLSource{driver: driver, table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if !identPattern.MatchString(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	s.db = db
	return s, nil
}

// Load reads every posting.
func (s *SQLSource) Load(ctx context.Context) ([]model.JobPosting, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	q := fmt.Sprintf("SELECT combined_features, target_role FROM %s ORDER BY id", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []model.JobPosting
	for rows.Next() {
		var p model.JobPosting
		if err := rows.Scan(&p.CombinedFeatures, &p.TargetRole); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return out, nil
}

// Migrate creates the postings table when it does not exist.
func (s *SQLSource) Migrate(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPgx {
		id = "BIGSERIAL PRIMARY KEY"
	}
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id %s,
	combined_features TEXT NOT NULL,
	target_role TEXT NOT NULL
)`, s.table, id)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("migrate %s: %w", s.table, err)
	}
	return nil
}

// Insert appends postings in one transaction, preserving their order.
func (s *SQLSource) Insert(ctx context.Context, postings []model.JobPosting) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ph1, ph2 := "?", "?"
	if s.driver == DriverPgx {
		ph1, ph2 = "$1", "$2"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (combined_features, target_role) VALUES (%s, %s)", s.table, ph1, ph2))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range postings {
		if _, err := stmt.ExecContext(ctx, p.CombinedFeatures, p.TargetRole); err != nil {
			return fmt.Errorf("insert posting %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database handle. Subsequent calls return ErrClosed.
func (s *SQLSource) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}
