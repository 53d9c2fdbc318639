// Package mysql stores collections in MySQL tables holding JSON payloads.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/talent"
)

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PoolConfig holds connection pool limits. Zero values fall back to defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if pool.MaxOpenConns <= 0 {
		pool.MaxOpenConns = 20
	}
	if pool.MaxIdleConns <= 0 {
		pool.MaxIdleConns = 5
	}
	if pool.ConnMaxLifetime <= 0 {
		pool.ConnMaxLifetime = time.Hour
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return db, nil
}

var _ store.Collection[talent.Profile] = (*Collection[talent.Profile])(nil)

// Collection keeps one row per record; the auto-increment seq column keeps insertion order.
type Collection[T talent.Record] struct {
	db    *sql.DB
	table string
}

func NewCollection[T talent.Record](ctx context.Context, db *sql.DB, table string) (*Collection[T], error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	id VARCHAR(64) NOT NULL UNIQUE,
	owner_id VARCHAR(255) NOT NULL,
	payload JSON NOT NULL,
	INDEX idx_%s_owner (owner_id)
)`, table, table)

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}

	return &Collection[T]{db: db, table: table}, nil
}

func (c *Collection[T]) Append(ctx context.Context, record T) error {
	if err := store.Validate(record); err != nil {
		return err
	}
	return c.insert(ctx, c.db, record)
}

func (c *Collection[T]) ReplaceByOwner(ctx context.Context, owner string, record T) error {
	if owner == "" {
		return store.ErrEmptyOwner
	}
	if err := store.Validate(record); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE owner_id = ?", c.table), owner); err != nil {
		return fmt.Errorf("delete records of %s: %w", owner, err)
	}

	if err := c.insert(ctx, tx, record); err != nil {
		return err
	}

	return tx.Commit()
}

func (c *Collection[T]) ListAll(ctx context.Context) ([]T, error) {
	return c.query(ctx, fmt.Sprintf("SELECT payload FROM %s ORDER BY seq", c.table))
}

func (c *Collection[T]) ListByOwner(ctx context.Context, owner string) ([]T, error) {
	return c.query(ctx, fmt.Sprintf("SELECT payload FROM %s WHERE owner_id = ? ORDER BY seq", c.table), owner)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c *Collection[T]) insert(ctx context.Context, db execer, record T) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", record.RecordID(), err)
	}

	query := fmt.Sprintf("INSERT INTO %s (id, owner_id, payload) VALUES (?, ?, ?)", c.table)
	if _, err := db.ExecContext(ctx, query, record.RecordID(), record.Owner(), payload); err != nil {
		return fmt.Errorf("insert record %s: %w", record.RecordID(), err)
	}

	return nil
}

func (c *Collection[T]) query(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record T
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, record)
	}

	return out, rows.Err()
}
