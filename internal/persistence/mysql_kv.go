package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlCreateTable = `CREATE TABLE IF NOT EXISTS drafts (
	` + "`key`" + ` VARCHAR(255) NOT NULL PRIMARY KEY,
	value LONGTEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// MySQLKV stores drafts in a MySQL drafts table.
type MySQLKV struct {
	db *sql.DB
}

// NewMySQLKV opens the database, verifies the connection and creates the
// drafts table if it does not exist.
func NewMySQLKV(ctx context.Context, dsn string) (*MySQLKV, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}
	if _, err := db.ExecContext(ctx, mysqlCreateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create drafts table: %w", err)
	}
	return &MySQLKV{db: db}, nil
}

// Get returns the value stored under key.
func (m *MySQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, "SELECT value FROM drafts WHERE `key` = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get draft %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (m *MySQLKV) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT INTO drafts (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (m *MySQLKV) Delete(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM drafts WHERE `key` = ?", key); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}

// Close closes the database handle.
func (m *MySQLKV) Close() error {
	return m.db.Close()
}
