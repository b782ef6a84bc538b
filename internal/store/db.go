package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/logger"
)

// sqlitePragmas are applied on every pooled connection by the driver.
var sqlitePragmas = []string{
	"_pragma=journal_mode(WAL)",
	"_pragma=busy_timeout(30000)",
	"_pragma=foreign_keys(1)",
}

type DB struct {
	*sqlx.DB
	driver       string
	rankedSearch bool
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	Logger       *logger.Logger
}

// Open connects to driver/dsn, applies the schema and probes optional features.
func Open(ctx context.Context, driver, dsn string, opts Options) (*DB, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	log := opts.Logger.WithComponent("store")

	switch driver {
	case constants.DriverSQLite:
		dsn = withPragmas(dsn)
	case constants.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
		conn.SetMaxIdleConns(opts.MaxOpenConns)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	db := &DB{DB: conn, driver: driver}

	schema := sqliteSchema
	if driver == constants.DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	db.rankedSearch = db.probeRankedSearch(ctx)
	log.Info("Database ready", "driver", driver, "ranked_search", db.rankedSearch)

	return db, nil
}

// NewSQLiteDB opens a SQLite database file with default options.
func NewSQLiteDB(path string) (*DB, error) {
	return Open(context.Background(), constants.DriverSQLite, path, Options{})
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(sqlitePragmas, "&")
}

// probeRankedSearch runs once at open. SQLite needs FTS5 compiled in;
// Postgres needs a search_verses function installed by the operator.
func (db *DB) probeRankedSearch(ctx context.Context) bool {
	if db.driver == constants.DriverPostgres {
		var exists bool
		err := db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM pg_proc WHERE proname = 'search_verses')`)
		return err == nil && exists
	}
	_, err := db.ExecContext(ctx, sqliteFTS)
	return err == nil
}

// Driver returns the driver name the database was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// SupportsRankedSearch reports whether RankedSearch can be used.
func (db *DB) SupportsRankedSearch() bool {
	return db.rankedSearch
}

// RunInTx runs fn inside a transaction, rolling back when it returns an error.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// contains returns a dialect specific "haystack contains needle" predicate
// with one placeholder for the needle.
func (db *DB) contains(column string) string {
	if db.driver == constants.DriverPostgres {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}

// Stats counts rows in the main tables.
type Stats struct {
	Surahs    int `json:"surahs" db:"surahs"`
	Verses    int `json:"verses" db:"verses"`
	Bookmarks int `json:"bookmarks" db:"bookmarks"`
}

func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := db.GetContext(ctx, &s, `SELECT
		(SELECT COUNT(*) FROM surahs) AS surahs,
		(SELECT COUNT(*) FROM verses) AS verses,
		(SELECT COUNT(*) FROM bookmarks) AS bookmarks`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count rows: %w", err)
	}
	return s, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
