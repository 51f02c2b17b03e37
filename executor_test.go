package moviegraph_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rlch/moviegraph"
)

type stubExecutor struct{ name string }

func (s *stubExecutor) Name() string { return s.name }

func (s *stubExecutor) Execute(context.Context, moviegraph.AccessMode, string, map[string]any) (*moviegraph.Cursor, error) {
	return moviegraph.NewCursor(nil), nil
}

func (s *stubExecutor) Close(context.Context) error { return nil }

func TestCursor_SinglePass(t *testing.T) {
	t.Parallel()

	records := []moviegraph.Record{{"n": 1}, {"n": 2}, {"n": 3}}
	cur := moviegraph.NewCursor(records)

	var got []any
	for cur.Next() {
		got = append(got, cur.Record()["n"])
	}

	if diff := cmp.Diff([]any{1, 2, 3}, got); diff != "" {
		t.Errorf("cursor order mismatch (-want +got):\n%s", diff)
	}

	if cur.Next() {
		t.Error("exhausted cursor advanced again")
	}

	if cur.Record() != nil {
		t.Error("exhausted cursor still exposes a record")
	}

	if rest := cur.Collect(); len(rest) != 0 {
		t.Errorf("Collect() after exhaustion = %v, want empty", rest)
	}
}

func TestCursor_CollectRemaining(t *testing.T) {
	t.Parallel()

	cur := moviegraph.NewCursor([]moviegraph.Record{{"n": 1}, {"n": 2}})
	cur.Next()

	rest := cur.Collect()
	if len(rest) != 1 || rest[0]["n"] != 2 {
		t.Errorf("Collect() = %v, want [{n:2}]", rest)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	moviegraph.RegisterExecutor("stub-registry", func(context.Context, moviegraph.ConnectionConfig) (moviegraph.Executor, error) {
		return &stubExecutor{name: "stub-registry"}, nil
	})

	if !slices.Contains(moviegraph.RegisteredExecutors(), "stub-registry") {
		t.Fatal("stub executor not registered")
	}

	exec, err := moviegraph.NewExecutor(context.Background(), "stub-registry", moviegraph.ConnectionConfig{URI: "neo4j://localhost"})
	if err != nil {
		t.Fatal(err)
	}

	if exec.Name() != "stub-registry" {
		t.Errorf("Name() = %q", exec.Name())
	}

	_, err = moviegraph.NewExecutor(context.Background(), "stub-registry", moviegraph.ConnectionConfig{})
	if !errors.Is(err, moviegraph.ErrMissingURI) {
		t.Errorf("got %v, want ErrMissingURI", err)
	}

	_, err = moviegraph.NewExecutor(context.Background(), "nope", moviegraph.ConnectionConfig{URI: "neo4j://localhost"})
	if !errors.Is(err, moviegraph.ErrUnknownExecutor) {
		t.Errorf("got %v, want ErrUnknownExecutor", err)
	}
}

func TestAccessMode_String(t *testing.T) {
	t.Parallel()

	if moviegraph.AccessRead.String() != "read" || moviegraph.AccessWrite.String() != "write" {
		t.Error("unexpected access mode names")
	}
}

func TestBackendError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("leader switched")
	err := error(&moviegraph.BackendError{Op: "get movie", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("BackendError does not unwrap to its cause")
	}
}
