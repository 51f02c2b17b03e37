// Package fluent renders statements with the gocypher fluent builder.
// Operations the builder cannot express (find-or-create with ON CREATE SET,
// label additions, traversals over any relationship type) fall through to the
// embedded cypher.Statements.
package fluent

import (
	"fmt"

	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/cypher"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// Statements overrides the reads, counts and deletes of cypher.Statements with builder-generated
// text. Columns match the cypher package so the same mappers apply.
type Statements struct {
	cypher.Statements
}

// ListAll returns every node of label as column n.
func (Statements) ListAll(label string) (cypher.Statement, error) {
	if err := checkLabel(label); err != nil {
		return cypher.Statement{}, err
	}

	return build(gocypher.NewQueryBuilder().
		Match(gocypher.N(cypher.NodeColumn, label)).
		Return(cypher.NodeColumn))
}

// MovieByTitle returns the movies titled title as column n.
func (Statements) MovieByTitle(title string) (cypher.Statement, error) {
	return build(gocypher.NewQueryBuilder().
		Match(gocypher.N(cypher.NodeColumn, moviegraph.LabelMovie).
			WithProperties(map[string]interface{}{"title": title})).
		Return(cypher.NodeColumn))
}

// RelatedByTitle aggregates the people attached to the movie titled title
// through rel. Grouping is implicit on the non-aggregated return items.
func (Statements) RelatedByTitle(title string, rel moviegraph.Relationship) (cypher.Statement, error) {
	if err := checkRelationship(rel); err != nil {
		return cypher.Statement{}, err
	}

	return build(gocypher.NewQueryBuilder().
		Match(
			gocypher.N("b", moviegraph.LabelPerson),
			gocypher.R("r", string(rel)).To(),
			gocypher.N("a", moviegraph.LabelMovie).
				WithProperties(map[string]interface{}{"title": title}),
		).
		Return(aggregateColumns()...))
}

// AllRelated aggregates the people of every movie through rel. An empty rel
// leaves the relationship type unbound, which is built by the core builder.
func (s Statements) AllRelated(rel moviegraph.Relationship) (cypher.Statement, error) {
	if rel == "" {
		return s.Statements.AllRelated(rel)
	}

	if err := checkRelationship(rel); err != nil {
		return cypher.Statement{}, err
	}

	return build(gocypher.NewQueryBuilder().
		Match(
			gocypher.N("b", moviegraph.LabelPerson),
			gocypher.R("r", string(rel)).To(),
			gocypher.N("a", moviegraph.LabelMovie),
		).
		Return(aggregateColumns()...))
}

// Count counts the nodes of label. Column: count.
func (Statements) Count(label string) (cypher.Statement, error) {
	if err := checkLabel(label); err != nil {
		return cypher.Statement{}, err
	}

	return build(gocypher.NewQueryBuilder().
		Match(gocypher.N(cypher.NodeColumn, label)).
		Return("count(" + cypher.NodeColumn + ") AS " + cypher.CountColumn))
}

// DeletePerson deletes the person named name with its relationships. Column: count.
func (Statements) DeletePerson(name string) (cypher.Statement, error) {
	return build(gocypher.NewQueryBuilder().
		Match(gocypher.N(cypher.NodeColumn, moviegraph.LabelPerson).
			WithProperties(map[string]interface{}{"name": name})).
		DetachDelete(cypher.NodeColumn).
		Return("count(*) AS " + cypher.CountColumn))
}

func aggregateColumns() []string {
	return []string{
		"a.title AS " + cypher.TitleColumn,
		"type(r) AS " + cypher.RelationshipTypeColumn,
		"collect(b.name) AS " + cypher.PeopleColumn,
	}
}

func build(qb *gocypher.QueryBuilder) (cypher.Statement, error) {
	text, params, err := qb.Build()
	if err != nil {
		return cypher.Statement{}, fmt.Errorf("fluent: build query: %w", err)
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	return cypher.Statement{Text: text, Params: params}, nil
}

// checkLabel reuses the core builder's validation so both strategies accept
// the same labels.
func checkLabel(label string) error {
	return cypher.New().Match(cypher.NodeColumn, label).Err()
}

func checkRelationship(rel moviegraph.Relationship) error {
	if !rel.Known() {
		return &moviegraph.ValidationError{
			Field:  "relationship",
			Value:  string(rel),
			Reason: "unknown relationship type",
		}
	}

	return nil
}
