package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"headliner/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

const openTimeout = 30 * time.Second

// filePragmas apply to on-disk databases only; an in-memory database has no
// journal to tune.
var filePragmas = []string{
	"PRAGMA busy_timeout = 30000",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
}

type Client struct {
	db     *sql.DB
	memory bool
}

// New opens a snapshot store from a sqlite://path or sqlite://:memory: DSN.
func New(ctx context.Context, dsn string) (*Client, error) {
	path, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	c := &Client{db: db, memory: path == memoryPath}
	if c.memory {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := c.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite: %w", err)
	}
	if c.memory {
		return nil
	}
	for _, pragma := range filePragmas {
		if _, err := c.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("setting %q: %w", pragma, err)
		}
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
