package movies

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/cypher"
	"github.com/rlch/moviegraph/executors/eager"
	"github.com/rlch/moviegraph/executors/managed"
	"github.com/rlch/moviegraph/executors/session"
	"github.com/rlch/moviegraph/fluent"
)

// Statements renders each logical operation into a parameterized statement.
// Every implementation must return the columns documented on cypher.Statements.
type Statements interface {
	ListAll(label string) (cypher.Statement, error)
	MovieByTitle(title string) (cypher.Statement, error)
	RelatedByTitle(title string, rel moviegraph.Relationship) (cypher.Statement, error)
	AllRelated(rel moviegraph.Relationship) (cypher.Statement, error)
	UpsertPerson(person moviegraph.Person, role moviegraph.Role) (cypher.Statement, error)
	UpsertMovie(movie moviegraph.Movie) (cypher.Statement, error)
	Link(title string, rel moviegraph.Relationship, name string) (cypher.Statement, error)
	Count(label string) (cypher.Statement, error)
	DeletePerson(name string) (cypher.Statement, error)
	Constraints() []cypher.Statement
}

// Strategy pairs a statement source with the executor that runs it.
type Strategy struct {
	Name       string
	Executor   string
	Statements Statements
}

// Strategy names.
const (
	Raw    = "raw"
	Helper = "helper"
	Fluent = "fluent"
)

var strategies = map[string]Strategy{
	Raw:    {Name: Raw, Executor: session.Name, Statements: cypher.Statements{}},
	Helper: {Name: Helper, Executor: eager.Name, Statements: cypher.Statements{}},
	Fluent: {Name: Fluent, Executor: managed.Name, Statements: fluent.Statements{}},
}

// LookupStrategy returns the strategy called name.
func LookupStrategy(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return Strategy{}, &moviegraph.ValidationError{
			Field:  "strategy",
			Value:  name,
			Reason: fmt.Sprintf("must be one of %v", Strategies()),
		}
	}

	return s, nil
}

// Strategies returns the known strategy names, sorted.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IsStrategy reports whether name is a known strategy.
func IsStrategy(name string) bool {
	return slices.Contains(Strategies(), name)
}

// Open connects the executor of the named strategy and returns a service over
// it. Options are applied after the strategy's statements, so WithStatements
// still overrides them.
func Open(ctx context.Context, strategy string, conn moviegraph.ConnectionConfig, opts ...Option) (*Service, error) {
	s, err := LookupStrategy(strategy)
	if err != nil {
		return nil, err
	}

	exec, err := moviegraph.NewExecutor(ctx, s.Executor, conn)
	if err != nil {
		return nil, fmt.Errorf("open %s strategy: %w", s.Name, err)
	}

	return New(exec, append([]Option{WithStatements(s.Statements)}, opts...)...), nil
}
