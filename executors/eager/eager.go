// Package eager executes statements with the driver's ExecuteQuery helper,
// which owns session and retry handling and buffers every record.
package eager

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/executors/internal/neo4jconn"
)

// Name is the registered executor name.
const Name = "eager"

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

// Executor wraps neo4j.ExecuteQuery.
type Executor struct {
	driver   neo4j.DriverWithContext
	database string
}

// New connects to the server described by cfg.
func New(ctx context.Context, cfg moviegraph.ConnectionConfig) (*Executor, error) {
	driver, err := neo4jconn.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("eager: %w", err)
	}

	return &Executor{driver: driver, database: cfg.Database}, nil
}

// Name returns the executor identifier.
func (e *Executor) Name() string {
	return Name
}

// Execute runs query, routing reads to readers and writes to the leader.
func (e *Executor) Execute(ctx context.Context, access moviegraph.AccessMode, query string, params map[string]any) (*moviegraph.Cursor, error) {
	routing := neo4j.ExecuteQueryWithReadersRouting()
	if access == moviegraph.AccessWrite {
		routing = neo4j.ExecuteQueryWithWritersRouting()
	}

	opts := []neo4j.ExecuteQueryConfigurationOption{routing}
	if e.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.database))
	}

	result, err := neo4j.ExecuteQuery(ctx, e.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("eager: %s query: %w", access, err)
	}

	return moviegraph.NewCursor(neo4jconn.Records(result.Records)), nil
}

// Close releases the driver.
func (e *Executor) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}

	if err := e.driver.Close(ctx); err != nil {
		return fmt.Errorf("eager: close driver: %w", err)
	}

	return nil
}

var _ moviegraph.Executor = (*Executor)(nil)
