package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

const (
	applicationName    = "pr-dupcheck"
	defaultDialTimeout = 5 * time.Second
	defaultMaxConns    = 4
)

// Config describes the archive connection. The archive is written once per
// run, so the pool stays small.
type Config struct {
	DSN         string
	Debug       bool
	DialTimeout time.Duration
	MaxConns    int
}

// Database is the handle to the detection archive.
type Database struct {
	bun *bun.DB
}

// Open connects to the archive and pings it, so an unreachable or
// misconfigured postgres_url fails before any detection work starts.
func Open(ctx context.Context, cfg Config) (*Database, error) {
	database, err := newDatabase(cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout(cfg))
	defer cancel()
	if err := database.Ping(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	return database, nil
}

func newDatabase(cfg Config) (*Database, error) {
	if cfg.DSN == "" {
		return nil, errors.New("archive database DSN is empty")
	}
	connector, err := newConnector(cfg)
	if err != nil {
		return nil, err
	}
	sqldb := sql.OpenDB(connector)
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	sqldb.SetMaxOpenConns(maxConns)
	sqldb.SetMaxIdleConns(maxConns)

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		bunDB.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Database{bun: bunDB}, nil
}

// newConnector turns the panic pgdriver raises on a malformed DSN into an
// error.
func newConnector(cfg Config) (connector *pgdriver.Connector, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid archive DSN: %v", r)
		}
	}()
	timeout := dialTimeout(cfg)
	return pgdriver.NewConnector(
		pgdriver.WithApplicationName(applicationName),
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithDialTimeout(timeout),
		pgdriver.WithReadTimeout(timeout),
		pgdriver.WithWriteTimeout(timeout),
	), nil
}

func dialTimeout(cfg Config) time.Duration {
	if cfg.DialTimeout > 0 {
		return cfg.DialTimeout
	}
	return defaultDialTimeout
}

func (d *Database) Bun() *bun.DB {
	return d.bun
}

func (d *Database) Close() error {
	return d.bun.Close()
}

func (d *Database) Ping(ctx context.Context) error {
	return d.bun.PingContext(ctx)
}
