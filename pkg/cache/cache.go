package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS cached_laps (
	session    TEXT    NOT NULL,
	driver     TEXT    NOT NULL,
	lap        INTEGER NOT NULL,
	points     INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (session, driver, lap)
);
CREATE TABLE IF NOT EXISTS lap_telemetry (
	session  TEXT    NOT NULL,
	driver   TEXT    NOT NULL,
	lap      INTEGER NOT NULL,
	idx      INTEGER NOT NULL,
	distance REAL    NOT NULL,
	speed    REAL    NOT NULL,
	x        REAL    NOT NULL,
	y        REAL    NOT NULL,
	PRIMARY KEY (session, driver, lap, idx)
);
`

var ErrNoSession = errors.New("cache session not set")

type (
	Options struct {
		Session     string
		BusyTimeout time.Duration
		Logger      *log.Logger
	}
	OptionsFunc func(o *Options)

	// Stats describes the cache content and the hit ratio of this process.
	Stats struct {
		Sessions int
		Laps     int
		Points   int
		Hits     int64
		Misses   int64
	}
)

// WithSession scopes all entries to a session key, usually the event name.
func WithSession(session string) OptionsFunc {
	return func(o *Options) {
		o.Session = session
	}
}

func WithBusyTimeout(d time.Duration) OptionsFunc {
	return func(o *Options) {
		o.BusyTimeout = d
	}
}

func WithLogger(l *log.Logger) OptionsFunc {
	return func(o *Options) {
		o.Logger = l
	}
}

// Cache persists lap telemetry in a SQLite file.
type Cache struct {
	db     *sql.DB
	opts   Options
	hits   atomic.Int64
	misses atomic.Int64
}

func Open(path string, opts ...OptionsFunc) (*Cache, error) {
	o := Options{BusyTimeout: 5 * time.Second, Logger: log.Default().Named("cache")}
	for _, opt := range opts {
		opt(&o)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, o.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	o.Logger.Debug("Cache opened", log.String("path", path), log.String("session", o.Session))
	return &Cache{db: db, opts: o}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Session() string {
	return c.opts.Session
}

func (c *Cache) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load returns the cached points of a lap. The bool reports whether the lap
// was cached at all.
func (c *Cache) Load(ctx context.Context, driver string, lap int) (
	[]telemetry.Point, bool, error,
) {
	if c.opts.Session == "" {
		return nil, false, ErrNoSession
	}
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT points FROM cached_laps WHERE session = ? AND driver = ? AND lap = ?`,
		c.opts.Session, driver, lap).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT distance, speed, x, y FROM lap_telemetry
		 WHERE session = ? AND driver = ? AND lap = ? ORDER BY idx`,
		c.opts.Session, driver, lap)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	ret := make([]telemetry.Point, 0, n)
	for rows.Next() {
		var p telemetry.Point
		if err := rows.Scan(&p.Distance, &p.Speed, &p.X, &p.Y); err != nil {
			return nil, false, err
		}
		ret = append(ret, p)
	}
	return ret, true, rows.Err()
}

// Store replaces the cached points of a lap.
func (c *Cache) Store(ctx context.Context, driver string, lap int, points []telemetry.Point) error {
	if c.opts.Session == "" {
		return ErrNoSession
	}
	return c.transaction(ctx, func(tx *sql.Tx) error {
		if err := deleteLap(ctx, tx, c.opts.Session, driver, lap); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO lap_telemetry (session, driver, lap, idx, distance, speed, x, y)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, p := range points {
			if _, err := stmt.ExecContext(ctx,
				c.opts.Session, driver, lap, i, p.Distance, p.Speed, p.X, p.Y); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cached_laps (session, driver, lap, points, fetched_at)
			 VALUES (?, ?, ?, ?, ?)`,
			c.opts.Session, driver, lap, len(points), time.Now().Unix())
		return err
	})
}

func deleteLap(ctx context.Context, tx *sql.Tx, session, driver string, lap int) error {
	for _, table := range []string{"lap_telemetry", "cached_laps"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE session = ? AND driver = ? AND lap = ?",
			session, driver, lap); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes the entries of the current session. Without a session all
// entries are removed.
func (c *Cache) Clear(ctx context.Context) error {
	return c.transaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"lap_telemetry", "cached_laps"} {
			var err error
			if c.opts.Session == "" {
				_, err = tx.ExecContext(ctx, "DELETE FROM "+table)
			} else {
				_, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session = ?",
					c.opts.Session)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats counts the cached entries. A session limits the counts to it.
func (c *Cache) Stats(ctx context.Context) (*Stats, error) {
	ret := &Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	where, args := "", []any{}
	if c.opts.Session != "" {
		where, args = " WHERE session = ?", []any{c.opts.Session}
	}
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT session), COUNT(*), COALESCE(SUM(points), 0) FROM cached_laps"+where,
		args...).Scan(&ret.Sessions, &ret.Laps, &ret.Points)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Wrap returns a provider that serves laps from the cache and falls back to
// upstream on a miss. Non-empty upstream results are stored.
func (c *Cache) Wrap(upstream telemetry.Provider) telemetry.Provider {
	return telemetry.ProviderFunc(func(ctx context.Context, driver string, lap int) (
		[]telemetry.Point, error,
	) {
		points, ok, err := c.Load(ctx, driver, lap)
		if err != nil {
			c.opts.Logger.Warn("cache lookup failed",
				log.String("driver", driver), log.Int("lap", lap), log.ErrorField(err))
		}
		if ok {
			c.hits.Add(1)
			return points, nil
		}
		c.misses.Add(1)
		points, err = upstream.FetchLap(ctx, driver, lap)
		if err != nil {
			return nil, err
		}
		if len(points) > 0 {
			if err := c.Store(ctx, driver, lap, points); err != nil {
				c.opts.Logger.Warn("cache store failed",
					log.String("driver", driver), log.Int("lap", lap), log.ErrorField(err))
			}
		}
		return points, nil
	})
}
