package render_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NonTerminalIsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.Equal(t, render.JSON, render.Resolve(render.Auto, &buf))
	assert.Equal(t, render.Table, render.Resolve(render.Table, &buf))
	assert.Equal(t, render.JSON, render.New(&buf, "").Format())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]render.Format{"": render.Auto, "TABLE": render.Table, " json ": render.JSON} {
		got, err := render.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := render.ParseFormat("xml")

	var verr *moviegraph.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMovies_JSONOmitsAbsent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := render.New(&buf, render.JSON).Movies([]moviegraph.Movie{{Title: "The Matrix", Released: moviegraph.Int64(1999)}})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "The Matrix", got[0]["title"])
	assert.InDelta(t, 1999, got[0]["released"], 0)
	assert.NotContains(t, got[0], "tagline")
}

func TestAggregates_JSONEmptyPeople(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := render.New(&buf, render.JSON).Aggregates([]moviegraph.TitleAndPeople{
		{Title: "The Matrix", RelationshipType: "DIRECTED", People: []string{}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"people": []`)
}

func TestMovie_NotFound(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.New(&buf, render.JSON).Movie(moviegraph.Movie{}, false))
	assert.Equal(t, "null\n", buf.String())

	buf.Reset()
	require.NoError(t, render.New(&buf, render.Table).Movie(moviegraph.Movie{}, false))
	assert.Contains(t, buf.String(), "not found")
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	r := render.New(&buf, render.Table)
	require.NoError(t, r.Aggregates([]moviegraph.TitleAndPeople{
		{Title: "The Matrix", RelationshipType: "ACTED_IN", People: []string{"Keanu Reeves", "Carrie-Anne Moss"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "The Matrix")
	assert.Contains(t, out, "Keanu Reeves, Carrie-Anne Moss")
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.New(&buf, render.Table).People(nil))
	assert.Contains(t, buf.String(), "no results")
}

func TestCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.New(&buf, render.JSON).Count("Person", 3))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Person", got["label"])
	assert.InDelta(t, 3, got["count"], 0)
}
