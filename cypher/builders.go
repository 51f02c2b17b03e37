package cypher

import (
	"fmt"

	"github.com/rlch/moviegraph"
)

// Column and variable names shared by the builders and the mappers reading
// their output.
const (
	NodeColumn             = "n"
	TitleColumn            = "title"
	RelationshipTypeColumn = "relationshipType"
	PeopleColumn           = "people"
	CountColumn            = "count"
)

// MatchAll matches every node carrying label and returns it as n.
func MatchAll(label string) Query {
	return New().
		Match(NodeColumn, label).
		Return(NodeColumn)
}

// MatchByProperty matches nodes of label whose property equals value and
// returns them as n. The value is always bound as a parameter.
func MatchByProperty(label, property string, value any) Query {
	return New().
		Match(NodeColumn, label).
		WhereEquals(NodeColumn, property, value).
		Return(NodeColumn)
}

// Filter restricts a traversal to anchors whose Property equals Value.
type Filter struct {
	Property string
	Value    any
}

// Traversal describes an aggregation of related node names around an anchor
// node, e.g. the actors of each movie.
type Traversal struct {
	// Anchor is the label of the grouping node (the relationship's end node).
	Anchor string
	// Relationship restricts the edge type; empty leaves it unbound.
	Relationship moviegraph.Relationship
	// Related is the label of the nodes whose names are collected.
	Related string
	// Filter is optional; when nil no WHERE clause is emitted.
	Filter *Filter
}

// TraversalAggregate matches (related)-[r]->(anchor), optionally filters the
// anchor, and collects related names grouped by anchor node and relationship
// type. Columns: title, relationshipType, people.
func TraversalAggregate(t Traversal) Query {
	q := New()

	pattern := "r"
	if t.Relationship != "" {
		if err := checkRelationship(t.Relationship); err != nil {
			return q.fail(err)
		}

		pattern = "r:" + string(t.Relationship)
	}

	if err := checkLabel(t.Anchor); err != nil {
		return q.fail(err)
	}

	if err := checkLabel(t.Related); err != nil {
		return q.fail(err)
	}

	q = q.Raw(fmt.Sprintf("MATCH (a:%s)<-[%s]-(b:%s)", t.Anchor, pattern, t.Related))
	if t.Filter != nil {
		q = q.WhereEquals("a", t.Filter.Property, t.Filter.Value)
	}

	return q.
		With("a", "type(r) AS "+RelationshipTypeColumn, "collect(b.name) AS "+PeopleColumn).
		Return("a.title AS "+TitleColumn, RelationshipTypeColumn, PeopleColumn)
}

// UpsertPerson appends a find-or-create of person keyed solely on name. Born
// is written only when the node is created; re-merging an existing name with a
// different birth year leaves the stored year unchanged. A role adds its label
// to the node, which is idempotent.
func UpsertPerson(q Query, variable string, person moviegraph.Person, role moviegraph.Role) Query {
	q = q.MergeNode(variable, moviegraph.LabelPerson, "name", person.Name, person.Properties())
	if l := role.Label(); l != "" {
		q = q.SetLabel(variable, l)
	}

	return q
}

// UpsertMovie appends a find-or-create of movie keyed solely on title.
func UpsertMovie(q Query, variable string, movie moviegraph.Movie) Query {
	return q.MergeNode(variable, moviegraph.LabelMovie, "title", movie.Title, movie.Properties())
}

// RelateNodes appends MERGE (from)-[:rel]->(to). Both variables must already be
// bound; MERGE keeps the statement safe to retry.
func RelateNodes(q Query, from string, rel moviegraph.Relationship, to string) Query {
	return q.MergeRelationship(from, rel, to)
}

// Count counts nodes carrying label. Column: count.
func Count(label string) Query {
	return New().
		Match(NodeColumn, label).
		Return("count(" + NodeColumn + ") AS " + CountColumn)
}

// DeleteByProperty detaches and deletes nodes of label whose property equals
// value, returning how many were deleted. Column: count.
func DeleteByProperty(label, property string, value any) Query {
	return New().
		Match(NodeColumn, label).
		WhereEquals(NodeColumn, property, value).
		DetachDelete(NodeColumn).
		Return("count(*) AS " + CountColumn)
}

// Constraints returns the uniqueness constraints backing the idempotent
// MERGE patterns: one Person per name and one Movie per title.
func Constraints() []Statement {
	return []Statement{
		{Text: "CREATE CONSTRAINT person_name IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE", Params: map[string]any{}},
		{Text: "CREATE CONSTRAINT movie_title IF NOT EXISTS FOR (m:Movie) REQUIRE m.title IS UNIQUE", Params: map[string]any{}},
	}
}
