package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Config holds SQLite connection configuration
type Config struct {
	Path string // database file path, or ":memory:" for tests
}

// Client represents a SQLite database client
type Client struct {
	db     *sqlx.DB
	config *Config
	logger *slog.Logger
}

// NewClient opens the database file, creating parent directories as needed
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	dsn := config.Path
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = config.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1"
	}

	logger.Debug("Opening SQLite database",
		slog.String("path", config.Path),
	)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		logger.Error("Failed to open SQLite database",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite permits one writer at a time
	db.SetMaxOpenConns(1)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// GetDB returns the underlying sqlx.DB instance
func (c *Client) GetDB() *sqlx.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close SQLite database",
				slog.Any("error", err),
			)
			return err
		}
	}

	c.logger.Debug("SQLite database closed")
	return nil
}
