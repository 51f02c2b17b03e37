// Package cypher builds parameterized Cypher statements.
//
// A Query is an immutable value: every clause method returns an extended copy,
// so a base query can be shared and extended independently. Values are always
// bound as parameters. Labels, variables, property names and relationship
// types are spliced into the text and must come from the moviegraph registry
// or pass identifier validation.
package cypher

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/rlch/moviegraph"
)

// ErrParamCollision is returned by Build when two steps bound the same parameter name.
var ErrParamCollision = errors.New("parameter name already bound")

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	labelRe      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(:[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Statement is a built query ready for execution.
type Statement struct {
	Text   string
	Params map[string]any
}

// Query accumulates clauses and parameters.
type Query struct {
	clauses []string
	params  map[string]any
	step    int
	err     error
}

// New returns an empty query.
func New() Query {
	return Query{}
}

// Build returns the query text and its parameters, or the first error recorded
// by any step.
func (q Query) Build() (string, map[string]any, error) {
	if q.err != nil {
		return "", nil, q.err
	}

	params := maps.Clone(q.params)
	if params == nil {
		params = map[string]any{}
	}

	return strings.Join(q.clauses, "\n"), params, nil
}

// Statement builds q into a Statement.
func (q Query) Statement() (Statement, error) {
	text, params, err := q.Build()
	if err != nil {
		return Statement{}, err
	}

	return Statement{Text: text, Params: params}, nil
}

// Err returns the first error recorded while building.
func (q Query) Err() error { return q.err }

// Bind binds value under an explicit parameter name. Binding a name twice is a
// caller error reported by Build.
func (q Query) Bind(name string, value any) Query {
	q = q.next()
	if q.err != nil {
		return q
	}

	if !identifierRe.MatchString(name) {
		return q.fail(&moviegraph.ValidationError{Field: "parameter", Value: name, Reason: "not an identifier"})
	}

	if _, ok := q.params[name]; ok {
		return q.fail(fmt.Errorf("%w: $%s", ErrParamCollision, name))
	}

	q.params[name] = value

	return q
}

// Raw appends a clause verbatim. The text must not embed caller-supplied values.
func (q Query) Raw(clause string) Query {
	return q.next().add(clause)
}

// Match appends MATCH (variable:label).
func (q Query) Match(variable, label string) Query {
	q = q.next()
	if err := checkVariable(variable); err != nil {
		return q.fail(err)
	}

	if err := checkLabel(label); err != nil {
		return q.fail(err)
	}

	return q.add(fmt.Sprintf("MATCH (%s:%s)", variable, label))
}

// WhereEquals appends WHERE variable.property = $param, binding value under a
// step-scoped parameter name.
func (q Query) WhereEquals(variable, property string, value any) Query {
	q = q.next()
	if err := checkVariable(variable); err != nil {
		return q.fail(err)
	}

	if err := checkProperty(property); err != nil {
		return q.fail(err)
	}

	param := q.bind(property, value)

	return q.add(fmt.Sprintf("WHERE %s.%s = $%s", variable, property, param))
}

// With appends a WITH clause.
func (q Query) With(exprs ...string) Query {
	return q.next().add("WITH " + strings.Join(exprs, ", "))
}

// Return appends a RETURN clause.
func (q Query) Return(exprs ...string) Query {
	return q.next().add("RETURN " + strings.Join(exprs, ", "))
}

// MergeNode appends a find-or-create of a node keyed solely on key. props are
// only written when the node is created (ON CREATE SET); an existing node keeps
// its properties. The key property itself is excluded from props.
func (q Query) MergeNode(variable, label, key string, keyValue any, props map[string]any) Query {
	q = q.next()
	if err := checkVariable(variable); err != nil {
		return q.fail(err)
	}

	if err := checkLabel(label); err != nil {
		return q.fail(err)
	}

	if err := checkProperty(key); err != nil {
		return q.fail(err)
	}

	keyParam := q.bind(key, keyValue)
	q = q.add(fmt.Sprintf("MERGE (%s:%s {%s: $%s})", variable, label, key, keyParam))

	onCreate := maps.Clone(props)
	delete(onCreate, key)

	if len(onCreate) > 0 {
		propsParam := q.bind("props", onCreate)
		q = q.add(fmt.Sprintf("ON CREATE SET %s += $%s", variable, propsParam))
	}

	return q
}

// SetLabel appends SET variable:label. Adding a label is idempotent.
func (q Query) SetLabel(variable, label string) Query {
	q = q.next()
	if err := checkVariable(variable); err != nil {
		return q.fail(err)
	}

	if err := checkLabel(label); err != nil {
		return q.fail(err)
	}

	return q.add(fmt.Sprintf("SET %s:%s", variable, label))
}

// MergeRelationship appends MERGE (from)-[:rel]->(to) between two variables
// already bound by earlier clauses.
func (q Query) MergeRelationship(from string, rel moviegraph.Relationship, to string) Query {
	q = q.next()
	if err := checkVariable(from); err != nil {
		return q.fail(err)
	}

	if err := checkVariable(to); err != nil {
		return q.fail(err)
	}

	if err := checkRelationship(rel); err != nil {
		return q.fail(err)
	}

	return q.add(fmt.Sprintf("MERGE (%s)-[:%s]->(%s)", from, rel, to))
}

// DetachDelete appends DETACH DELETE variable.
func (q Query) DetachDelete(variable string) Query {
	q = q.next()
	if err := checkVariable(variable); err != nil {
		return q.fail(err)
	}

	return q.add("DETACH DELETE " + variable)
}

// next returns a copy that owns its clause slice and parameter map, advanced
// by one step.
func (q Query) next() Query {
	q.clauses = slices.Clone(q.clauses)
	q.params = maps.Clone(q.params)

	if q.params == nil {
		q.params = map[string]any{}
	}

	q.step++

	return q
}

func (q Query) add(clause string) Query {
	if q.err != nil {
		return q
	}

	q.clauses = append(q.clauses, clause)

	return q
}

// bind stores value under base_step and returns the parameter name. The name
// is unique per step, so generated parameters never collide.
func (q Query) bind(base string, value any) string {
	name := fmt.Sprintf("%s_%d", base, q.step)
	q.params[name] = value

	return name
}

func (q Query) fail(err error) Query {
	if q.err == nil {
		q.err = err
	}

	return q
}

func checkVariable(v string) error {
	if !identifierRe.MatchString(v) {
		return &moviegraph.ValidationError{Field: "variable", Value: v, Reason: "not an identifier"}
	}

	return nil
}

func checkProperty(p string) error {
	if !identifierRe.MatchString(p) {
		return &moviegraph.ValidationError{Field: "property", Value: p, Reason: "not an identifier"}
	}

	return nil
}

func checkLabel(l string) error {
	if !labelRe.MatchString(l) {
		return &moviegraph.ValidationError{Field: "label", Value: l, Reason: "not a label"}
	}

	return nil
}

func checkRelationship(r moviegraph.Relationship) error {
	if !r.Known() {
		return &moviegraph.ValidationError{Field: "relationship", Value: string(r), Reason: "unknown relationship type"}
	}

	return nil
}
