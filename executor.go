package moviegraph

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// AccessMode selects the transaction kind a statement runs in. Reads never run
// in a write transaction and vice versa.
type AccessMode int

// Access modes.
const (
	AccessRead AccessMode = iota
	AccessWrite
)

func (m AccessMode) String() string {
	if m == AccessWrite {
		return "write"
	}

	return "read"
}

// Record is one row of query output keyed by column name. Values are scalars,
// lists, maps or driver graph types such as dbtype.Node.
type Record map[string]any

// Executor runs a statement against the graph and returns its records.
type Executor interface {
	// Name returns the executor identifier (e.g., "session", "eager").
	Name() string

	// Execute runs query inside a transaction of the given access mode. The
	// driver may retry the whole transaction, so statements must be idempotent.
	Execute(ctx context.Context, access AccessMode, query string, params map[string]any) (*Cursor, error)

	// Close releases any resources held by the executor.
	Close(ctx context.Context) error
}

// Cursor is a single-pass iterator over the records of one execution. Once
// exhausted it stays exhausted; re-run the statement to read again.
type Cursor struct {
	records []Record
	pos     int
	current Record
}

// NewCursor returns a cursor over records, preserving their order.
func NewCursor(records []Record) *Cursor {
	return &Cursor{records: records}
}

// Next advances to the next record.
func (c *Cursor) Next() bool {
	if c.pos >= len(c.records) {
		c.current = nil
		c.records = nil

		return false
	}

	c.current = c.records[c.pos]
	c.pos++

	return true
}

// Record returns the record the cursor is positioned on.
func (c *Cursor) Record() Record {
	return c.current
}

// Collect drains the remaining records.
func (c *Cursor) Collect() []Record {
	var out []Record
	for c.Next() {
		out = append(out, c.Record())
	}

	return out
}

// ExecutorFactory creates an Executor from connection configuration.
type ExecutorFactory func(ctx context.Context, cfg ConnectionConfig) (Executor, error)

var (
	executorsMu sync.RWMutex
	executors   = make(map[string]ExecutorFactory)
)

// RegisterExecutor registers an executor factory by name.
func RegisterExecutor(name string, factory ExecutorFactory) {
	executorsMu.Lock()
	defer executorsMu.Unlock()

	executors[name] = factory
}

// NewExecutor creates an executor instance by name.
func NewExecutor(ctx context.Context, name string, cfg ConnectionConfig) (Executor, error) { //nolint:ireturn
	executorsMu.RLock()
	factory, ok := executors[name]
	executorsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExecutor, name)
	}

	if cfg.URI == "" {
		return nil, ErrMissingURI
	}

	return factory(ctx, cfg)
}

// RegisteredExecutors returns the names of all registered executors, sorted.
func RegisteredExecutors() []string {
	executorsMu.RLock()
	defer executorsMu.RUnlock()

	names := make([]string, 0, len(executors))
	for name := range executors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IsRegistered reports whether an executor named name has been registered.
func IsRegistered(name string) bool {
	return slices.Contains(RegisteredExecutors(), name)
}
