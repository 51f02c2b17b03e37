package movies

import (
	"fmt"

	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/cypher"
	"github.com/rlch/moviegraph/mapper"
)

var (
	movieProps = []mapper.Field{
		{Name: "title", Kind: mapper.String},
		{Name: "released", Kind: mapper.Int, Optional: true},
		{Name: "tagline", Kind: mapper.String, Optional: true},
	}
	personProps = []mapper.Field{
		{Name: "name", Kind: mapper.String},
		{Name: "born", Kind: mapper.Int, Optional: true},
	}

	movieRecord  = []mapper.Field{{Name: cypher.NodeColumn, Kind: mapper.Node, Fields: movieProps}}
	personRecord = []mapper.Field{{Name: cypher.NodeColumn, Kind: mapper.Node, Fields: personProps}}

	aggregateRecord = []mapper.Field{
		{Name: cypher.TitleColumn, Kind: mapper.String},
		{Name: cypher.RelationshipTypeColumn, Kind: mapper.String},
		{Name: cypher.PeopleColumn, Kind: mapper.StringList},
	}

	countRecord = []mapper.Field{{Name: cypher.CountColumn, Kind: mapper.Int}}
)

func buildMovie(v mapper.Values) moviegraph.Movie {
	n := v.Node(cypher.NodeColumn)

	return moviegraph.Movie{
		Title:    n.String("title"),
		Released: n.OptionalInt("released"),
		Tagline:  n.OptionalString("tagline"),
	}
}

func buildPerson(v mapper.Values) moviegraph.Person {
	n := v.Node(cypher.NodeColumn)

	return moviegraph.Person{
		Name: n.String("name"),
		Born: n.OptionalInt("born"),
	}
}

func buildAggregate(v mapper.Values) moviegraph.TitleAndPeople {
	people := v.Strings(cypher.PeopleColumn)
	if people == nil {
		people = []string{}
	}

	return moviegraph.TitleAndPeople{
		Title:            v.String(cypher.TitleColumn),
		RelationshipType: v.String(cypher.RelationshipTypeColumn),
		People:           people,
	}
}

func buildCount(v mapper.Values) int64 {
	return v.Int(cypher.CountColumn)
}

// decodeAll maps every record in order, stopping at the first failure.
func decodeAll[T any](records []moviegraph.Record, fields []mapper.Field, build func(mapper.Values) T) ([]T, error) {
	out := make([]T, 0, len(records))

	for _, rec := range records {
		v, err := mapper.Decode(rec, fields, build)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// decodeOne maps the single record of a lookup. ok is false when there is
// none; more than one record is a mapping failure.
func decodeOne[T any](records []moviegraph.Record, fields []mapper.Field, build func(mapper.Values) T, key string) (T, bool, error) {
	var zero T

	switch len(records) {
	case 0:
		return zero, false, nil
	case 1:
		v, err := mapper.Decode(records[0], fields, build)
		if err != nil {
			return zero, false, err
		}

		return v, true, nil
	default:
		return zero, false, &moviegraph.MappingError{
			Field:  key,
			Reason: "lookup returned more than one record",
		}
	}
}

// single maps the one record a write or count must return.
func single[T any](records []moviegraph.Record, fields []mapper.Field, build func(mapper.Values) T, key string) (T, error) {
	v, ok, err := decodeOne(records, fields, build, key)
	if err != nil {
		return v, err
	}

	if !ok {
		return v, &moviegraph.MappingError{Field: key, Reason: fmt.Sprintf("expected one record with column %q, got none", key)}
	}

	return v, nil
}
