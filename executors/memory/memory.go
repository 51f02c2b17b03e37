// Package memory provides a scripted in-process executor for tests. It records
// every call and answers from a queue of canned results or a handler.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/rlch/moviegraph"
)

// Name is the executor identifier.
const Name = "memory"

// ErrClosed is returned by Execute after Close.
var ErrClosed = errors.New("memory: executor closed")

// Call is one recorded Execute invocation.
type Call struct {
	Access moviegraph.AccessMode
	Query  string
	Params map[string]any
}

// Handler computes the result of a call when the queue is empty.
type Handler func(ctx context.Context, call Call) ([]moviegraph.Record, error)

type response struct {
	records []moviegraph.Record
	err     error
}

// Executor is safe for concurrent use.
type Executor struct {
	mu      sync.Mutex
	queue   []response
	handler Handler
	calls   []Call
	closed  bool
}

// New returns an executor that answers every call with no records until
// scripted otherwise.
func New() *Executor {
	return &Executor{}
}

// Push queues records as the result of the next unanswered call.
func (e *Executor) Push(records ...moviegraph.Record) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = append(e.queue, response{records: records})

	return e
}

// PushError queues err as the result of the next unanswered call.
func (e *Executor) PushError(err error) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = append(e.queue, response{err: err})

	return e
}

// Respond installs h for calls that find the queue empty.
func (e *Executor) Respond(h Handler) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handler = h

	return e
}

// Calls returns a copy of the calls recorded so far, in order.
func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Call, len(e.calls))
	copy(out, e.calls)

	return out
}

// Reset clears the queue and the recorded calls.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = nil
	e.calls = nil
}

// Name returns the executor identifier.
func (e *Executor) Name() string {
	return Name
}

// Execute records the call and answers it.
func (e *Executor) Execute(ctx context.Context, access moviegraph.AccessMode, query string, params map[string]any) (*moviegraph.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := Call{Access: access, Query: query, Params: maps.Clone(params)}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()

		return nil, ErrClosed
	}

	e.calls = append(e.calls, call)

	var (
		next    *response
		handler = e.handler
	)

	if len(e.queue) > 0 {
		head := e.queue[0]
		next = &head
		e.queue = e.queue[1:]
	}
	e.mu.Unlock()

	switch {
	case next != nil:
		if next.err != nil {
			return nil, next.err
		}

		return moviegraph.NewCursor(cloneRecords(next.records)), nil
	case handler != nil:
		records, err := handler(ctx, call)
		if err != nil {
			return nil, err
		}

		return moviegraph.NewCursor(records), nil
	default:
		return moviegraph.NewCursor(nil), nil
	}
}

// Close marks the executor closed.
func (e *Executor) Close(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true

	return nil
}

func cloneRecords(records []moviegraph.Record) []moviegraph.Record {
	out := make([]moviegraph.Record, len(records))
	for i, r := range records {
		out[i] = maps.Clone(r)
	}

	return out
}

var _ moviegraph.Executor = (*Executor)(nil)
