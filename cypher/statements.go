package cypher

import "github.com/rlch/moviegraph"

// Statements renders the logical movie-graph operations with the fragment
// builders of this package. The zero value is ready to use.
type Statements struct{}

// ListAll returns every node of label as column n.
func (Statements) ListAll(label string) (Statement, error) {
	return MatchAll(label).Statement()
}

// MovieByTitle returns the movies titled title as column n.
func (Statements) MovieByTitle(title string) (Statement, error) {
	return MatchByProperty(moviegraph.LabelMovie, "title", title).Statement()
}

// RelatedByTitle aggregates the people attached to the movie titled title
// through rel.
func (Statements) RelatedByTitle(title string, rel moviegraph.Relationship) (Statement, error) {
	return TraversalAggregate(Traversal{
		Anchor:       moviegraph.LabelMovie,
		Relationship: rel,
		Related:      moviegraph.LabelPerson,
		Filter:       &Filter{Property: "title", Value: title},
	}).Statement()
}

// AllRelated aggregates the people of every movie through rel, or through any
// relationship when rel is empty.
func (Statements) AllRelated(rel moviegraph.Relationship) (Statement, error) {
	return TraversalAggregate(Traversal{
		Anchor:       moviegraph.LabelMovie,
		Relationship: rel,
		Related:      moviegraph.LabelPerson,
	}).Statement()
}

// UpsertPerson finds or creates person and returns the stored node as column n.
func (Statements) UpsertPerson(person moviegraph.Person, role moviegraph.Role) (Statement, error) {
	return UpsertPerson(New(), NodeColumn, person, role).
		Return(NodeColumn).
		Statement()
}

// UpsertMovie finds or creates movie and returns the stored node as column n.
func (Statements) UpsertMovie(movie moviegraph.Movie) (Statement, error) {
	return UpsertMovie(New(), NodeColumn, movie).
		Return(NodeColumn).
		Statement()
}

// Link attaches the person named name to the movie titled title through rel,
// creating the person if needed. Nothing happens when the movie does not
// exist. Column: count, the number of movies matched.
func (Statements) Link(title string, rel moviegraph.Relationship, name string) (Statement, error) {
	q := New().
		Match("m", moviegraph.LabelMovie).
		WhereEquals("m", "title", title)
	q = UpsertPerson(q, "p", moviegraph.Person{Name: name}, moviegraph.RoleFor(rel))
	q = RelateNodes(q, "p", rel, "m")

	return q.Return("count(m) AS " + CountColumn).Statement()
}

// Count counts the nodes of label. Column: count.
func (Statements) Count(label string) (Statement, error) {
	return Count(label).Statement()
}

// DeletePerson deletes the person named name with its relationships. Column: count.
func (Statements) DeletePerson(name string) (Statement, error) {
	return DeleteByProperty(moviegraph.LabelPerson, "name", name).Statement()
}

// Constraints returns the schema statements.
func (Statements) Constraints() []Statement {
	return Constraints()
}
