// Package seed loads YAML fixtures and writes them through the idempotent
// movie operations, so applying a fixture twice changes nothing.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rlch/moviegraph"
	"gopkg.in/yaml.v3"
)

//go:embed movies.yaml
var defaultFixture []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// Fixture is a set of people and movies to create.
type Fixture struct {
	People []Person `yaml:"people" validate:"dive"`
	Movies []Movie  `yaml:"movies" validate:"dive"`
}

// Person is a fixture person. Role is "", "actor" or "director".
type Person struct {
	Name string `yaml:"name" validate:"required"`
	Born *int64 `yaml:"born,omitempty"`
	Role string `yaml:"role,omitempty" validate:"omitempty,oneof=none actor director"`
}

// Movie is a fixture movie with the people attached to it, keyed by
// relationship type.
type Movie struct {
	Title    string              `yaml:"title" validate:"required"`
	Released *int64              `yaml:"released,omitempty"`
	Tagline  *string             `yaml:"tagline,omitempty"`
	Cast     map[string][]string `yaml:"cast,omitempty" validate:"dive,keys,required,endkeys,dive,required"`
}

// Target receives the fixture writes. *movies.Service implements it.
type Target interface {
	UpsertPerson(ctx context.Context, name string, born *int64, role moviegraph.Role) (moviegraph.Person, error)
	UpsertMovie(ctx context.Context, movie moviegraph.Movie) (moviegraph.Movie, error)
	Link(ctx context.Context, title string, rel moviegraph.Relationship, name string) (bool, error)
}

// Stats counts the operations Apply issued.
type Stats struct {
	People int `json:"people"`
	Movies int `json:"movies"`
	Links  int `json:"links"`
}

// Default returns the embedded fixture.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Load reads and parses the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse decodes and validates a fixture. Unknown keys, relationship types and
// roles are rejected.
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	for _, m := range f.Movies {
		for rel := range m.Cast {
			if _, err := moviegraph.ParseRelationship(rel); err != nil {
				return nil, fmt.Errorf("movie %q: %w", m.Title, err)
			}
		}
	}

	return &f, nil
}

// Apply writes people first so their born values and roles apply on creation,
// then movies, then every cast link. Cast relationships are applied in sorted
// order and names in fixture order. Links are write-only, so seeding issues one
// statement per fixture entry.
func Apply(ctx context.Context, target Target, f *Fixture) (Stats, error) {
	var stats Stats

	for _, p := range f.People {
		role, err := moviegraph.ParseRole(p.Role)
		if err != nil {
			return stats, err
		}

		if _, err := target.UpsertPerson(ctx, p.Name, p.Born, role); err != nil {
			return stats, fmt.Errorf("seed person %q: %w", p.Name, err)
		}

		stats.People++
	}

	for _, m := range f.Movies {
		movie := moviegraph.Movie{Title: m.Title, Released: m.Released, Tagline: m.Tagline}
		if _, err := target.UpsertMovie(ctx, movie); err != nil {
			return stats, fmt.Errorf("seed movie %q: %w", m.Title, err)
		}

		stats.Movies++
	}

	for _, m := range f.Movies {
		rels := make([]string, 0, len(m.Cast))
		for rel := range m.Cast {
			rels = append(rels, rel)
		}

		sort.Strings(rels)

		for _, rel := range rels {
			for _, name := range m.Cast[rel] {
				if _, err := target.Link(ctx, m.Title, moviegraph.Relationship(rel), name); err != nil {
					return stats, fmt.Errorf("seed link %s-[:%s]->%s: %w", name, rel, m.Title, err)
				}

				stats.Links++
			}
		}
	}

	return stats, nil
}
