// Package managed executes statements with the driver's generic transaction
// helpers and collects each result into column maps.
package managed

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/executors/internal/neo4jconn"
)

// Name is the registered executor name.
const Name = "managed"

//nolint:gochecknoinits // Executor self-registration pattern
func init() {
	moviegraph.RegisterExecutor(Name, func(ctx context.Context, cfg moviegraph.ConnectionConfig) (moviegraph.Executor, error) {
		e, err := New(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return e, nil
	})
}

// Executor runs neo4j.ExecuteRead / neo4j.ExecuteWrite on a fresh session.
type Executor struct {
	driver    neo4j.DriverWithContext
	cfg       moviegraph.ConnectionConfig
	bookmarks neo4j.BookmarkManager
}

// New connects to the server described by cfg.
func New(ctx context.Context, cfg moviegraph.ConnectionConfig) (*Executor, error) {
	driver, err := neo4jconn.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("managed: %w", err)
	}

	return &Executor{
		driver:    driver,
		cfg:       cfg,
		bookmarks: driver.ExecuteQueryBookmarkManager(),
	}, nil
}

// Name returns the executor identifier.
func (e *Executor) Name() string {
	return Name
}

// Execute runs query in a typed transaction function.
func (e *Executor) Execute(ctx context.Context, access moviegraph.AccessMode, query string, params map[string]any) (*moviegraph.Cursor, error) {
	sess := e.driver.NewSession(ctx, neo4jconn.SessionConfig(e.cfg, access, e.bookmarks))
	defer func() { _ = sess.Close(ctx) }()

	work := func(tx neo4j.ManagedTransaction) ([]moviegraph.Record, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]moviegraph.Record, 0, len(recs))
		for _, rec := range recs {
			out = append(out, rec.AsMap())
		}

		return out, nil
	}

	var (
		records []moviegraph.Record
		err     error
	)

	if access == moviegraph.AccessWrite {
		records, err = neo4j.ExecuteWrite[[]moviegraph.Record](ctx, sess, work)
	} else {
		records, err = neo4j.ExecuteRead[[]moviegraph.Record](ctx, sess, work)
	}

	if err != nil {
		return nil, fmt.Errorf("managed: %s transaction: %w", access, err)
	}

	return moviegraph.NewCursor(records), nil
}

// Close releases the driver.
func (e *Executor) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}

	if err := e.driver.Close(ctx); err != nil {
		return fmt.Errorf("managed: close driver: %w", err)
	}

	return nil
}

var _ moviegraph.Executor = (*Executor)(nil)
