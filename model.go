// Package moviegraph holds the domain model, the label/relationship registry and
// the executor contract shared by every access strategy.
package moviegraph

// Movie is a movie node. Released and Tagline are nil when the node does not
// carry the property.
type Movie struct {
	Title    string  `json:"title"`
	Released *int64  `json:"released,omitempty"`
	Tagline  *string `json:"tagline,omitempty"`
}

// Properties returns the node properties that are set, keyed by property name.
func (m Movie) Properties() map[string]any {
	props := map[string]any{"title": m.Title}
	if m.Released != nil {
		props["released"] = *m.Released
	}

	if m.Tagline != nil {
		props["tagline"] = *m.Tagline
	}

	return props
}

// Person is a person node.
type Person struct {
	Name string `json:"name"`
	Born *int64 `json:"born,omitempty"`
}

// Properties returns the node properties that are set, keyed by property name.
func (p Person) Properties() map[string]any {
	props := map[string]any{"name": p.Name}
	if p.Born != nil {
		props["born"] = *p.Born
	}

	return props
}

// TitleAndPeople is the aggregate of people attached to one movie through one
// relationship type.
type TitleAndPeople struct {
	Title            string   `json:"title"`
	RelationshipType string   `json:"relationshipType"`
	People           []string `json:"people"`
}

// Properties returns the projection as a flat map.
func (t TitleAndPeople) Properties() map[string]any {
	people := make([]any, len(t.People))
	for i, p := range t.People {
		people[i] = p
	}

	return map[string]any{
		"title":            t.Title,
		"relationshipType": t.RelationshipType,
		"people":           people,
	}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
