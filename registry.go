package moviegraph

import (
	"slices"
	"strings"
)

// Node labels.
const (
	LabelMovie    = "Movie"
	LabelPerson   = "Person"
	LabelActor    = "Actor"
	LabelDirector = "Director"
)

// Relationship is a relationship type token between a Person and a Movie
// (or two Persons for FOLLOWS).
type Relationship string

// Known relationship types.
const (
	ActedIn  Relationship = "ACTED_IN"
	Directed Relationship = "DIRECTED"
	Wrote    Relationship = "WROTE"
	Follows  Relationship = "FOLLOWS"
	Reviewed Relationship = "REVIEWED"
	Produced Relationship = "PRODUCED"
)

var relationships = []Relationship{ActedIn, Directed, Wrote, Follows, Reviewed, Produced}

// Relationships returns every known relationship type.
func Relationships() []Relationship {
	return slices.Clone(relationships)
}

// Known reports whether r is one of the registered relationship types.
func (r Relationship) Known() bool {
	return slices.Contains(relationships, r)
}

// String implements fmt.Stringer.
func (r Relationship) String() string { return string(r) }

// ParseRelationship validates s against the registry. Tokens are case-sensitive,
// surrounding whitespace is ignored.
func ParseRelationship(s string) (Relationship, error) {
	if err := RequireNonBlank("relationship", s); err != nil {
		return "", err
	}

	r := Relationship(strings.TrimSpace(s))
	if !r.Known() {
		return "", &ValidationError{Field: "relationship", Value: s, Reason: "unknown relationship type"}
	}

	return r, nil
}

// Role classifies a Person with an extra label. It only matters for writes.
type Role int

// Roles.
const (
	RoleNone Role = iota
	RoleActor
	RoleDirector
)

// Label returns the extra label carried by the role, or "" for RoleNone.
func (r Role) Label() string {
	switch r {
	case RoleActor:
		return LabelActor
	case RoleDirector:
		return LabelDirector
	default:
		return ""
	}
}

// Labels returns the compound label of the role, e.g. "Person:Actor".
func (r Role) Labels() string {
	if l := r.Label(); l != "" {
		return LabelPerson + ":" + l
	}

	return LabelPerson
}

func (r Role) String() string {
	switch r {
	case RoleActor:
		return "actor"
	case RoleDirector:
		return "director"
	default:
		return "none"
	}
}

// ParseRole parses "actor", "director" or "" (none), case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return RoleNone, nil
	case "actor":
		return RoleActor, nil
	case "director":
		return RoleDirector, nil
	default:
		return RoleNone, &ValidationError{Field: "role", Value: s, Reason: "unknown role"}
	}
}

// RoleFor returns the role implied by taking part in a movie through r.
func RoleFor(r Relationship) Role {
	switch r {
	case ActedIn:
		return RoleActor
	case Directed:
		return RoleDirector
	default:
		return RoleNone
	}
}
