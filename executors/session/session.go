// Package session executes statements through explicit driver sessions and
// managed transaction functions, reading the driver cursor record by record.
package session

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/executors/internal/neo4jconn"
)

// Name is the registered executor name.
const Name = "session"

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

// Executor opens one session per Execute call.
type Executor struct {
	driver    neo4j.DriverWithContext
	cfg       moviegraph.ConnectionConfig
	bookmarks neo4j.BookmarkManager
}

// New connects to the server described by cfg.
func New(ctx context.Context, cfg moviegraph.ConnectionConfig) (*Executor, error) {
	driver, err := neo4jconn.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
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

// Execute runs query in a read or write transaction function. The driver
// retries the function on transient failures, so the records are gathered
// inside it and only returned once the transaction commits.
func (e *Executor) Execute(ctx context.Context, access moviegraph.AccessMode, query string, params map[string]any) (*moviegraph.Cursor, error) {
	sess := e.driver.NewSession(ctx, neo4jconn.SessionConfig(e.cfg, access, e.bookmarks))
	defer func() { _ = sess.Close(ctx) }()

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var records []moviegraph.Record
		for res.Next(ctx) {
			records = append(records, neo4jconn.Record(res.Record()))
		}

		return records, res.Err()
	}

	var (
		out any
		err error
	)

	if access == moviegraph.AccessWrite {
		out, err = sess.ExecuteWrite(ctx, work)
	} else {
		out, err = sess.ExecuteRead(ctx, work)
	}

	if err != nil {
		return nil, fmt.Errorf("session: %s transaction: %w", access, err)
	}

	records, _ := out.([]moviegraph.Record)

	return moviegraph.NewCursor(records), nil
}

// Close releases the driver.
func (e *Executor) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}

	if err := e.driver.Close(ctx); err != nil {
		return fmt.Errorf("session: close driver: %w", err)
	}

	return nil
}

var _ moviegraph.Executor = (*Executor)(nil)
