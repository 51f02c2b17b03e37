package movies_test

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/executors/memory"
)

// fakeGraph interprets the statements rendered by cypher.Statements against an
// in-memory graph. The mutex stands in for the uniqueness constraints: a MERGE
// either finds the node or creates it atomically.
type fakeGraph struct {
	mu     sync.Mutex
	nodes  []*fakeNode
	edges  []fakeEdge
	nextID int
}

type fakeNode struct {
	id     int
	labels []string
	props  map[string]any
}

type fakeEdge struct {
	from, to *fakeNode
	typ      string
}

var (
	labelRe       = regexp.MustCompile(`^MATCH \(n:([A-Za-z_:]+)\)`)
	linkRelRe     = regexp.MustCompile(`MERGE \(p\)-\[:([A-Z_]+)\]->\(m\)`)
	setLabelRe    = regexp.MustCompile(`SET [a-z]+:([A-Za-z_]+)`)
	traversalRe   = regexp.MustCompile(`^MATCH \(a:Movie\)<-\[r(?::([A-Z_]+))?\]-\(b:Person\)`)
	mergePersonRe = regexp.MustCompile(`^MERGE \(n:Person \{name: \$(name_\d+)\}\)`)
	mergeMovieRe  = regexp.MustCompile(`^MERGE \(n:Movie \{title: \$(title_\d+)\}\)`)
)

func newFakeGraph() *fakeGraph {
	return &fakeGraph{}
}

func (g *fakeGraph) executor() *memory.Executor {
	return memory.New().Respond(g.handle)
}

func (g *fakeGraph) handle(_ context.Context, call memory.Call) ([]moviegraph.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	q, p := call.Query, call.Params

	switch {
	case strings.HasPrefix(q, "CREATE CONSTRAINT"):
		return nil, nil
	case mergePersonRe.MatchString(q):
		key := mergePersonRe.FindStringSubmatch(q)[1]
		n := g.merge(moviegraph.LabelPerson, "name", p[key], p["props_1"])
		g.addRoleLabels(n, q)

		return []moviegraph.Record{{"n": n.dbNode()}}, nil
	case mergeMovieRe.MatchString(q):
		key := mergeMovieRe.FindStringSubmatch(q)[1]
		n := g.merge(moviegraph.LabelMovie, "title", p[key], p["props_1"])

		return []moviegraph.Record{{"n": n.dbNode()}}, nil
	case strings.HasPrefix(q, "MATCH (m:Movie)"):
		return g.link(q, p), nil
	case traversalRe.MatchString(q):
		return g.aggregate(traversalRe.FindStringSubmatch(q)[1], p["title_2"]), nil
	case strings.Contains(q, "DETACH DELETE n"):
		return g.delete(p["name_2"]), nil
	case strings.Contains(q, "count(n) AS count"):
		label := labelRe.FindStringSubmatch(q)[1]

		return []moviegraph.Record{{"count": int64(len(g.byLabels(label)))}}, nil
	case labelRe.MatchString(q):
		return g.lookup(q, p), nil
	default:
		return nil, fmt.Errorf("fake graph: unsupported statement:\n%s", q)
	}
}

func (g *fakeGraph) merge(label, key string, value, props any) *fakeNode {
	for _, n := range g.nodes {
		if slices.Contains(n.labels, label) && n.props[key] == value {
			return n
		}
	}

	g.nextID++
	n := &fakeNode{id: g.nextID, labels: []string{label}, props: map[string]any{key: value}}

	if extra, ok := props.(map[string]any); ok {
		maps.Copy(n.props, extra)
	}

	g.nodes = append(g.nodes, n)

	return n
}

func (g *fakeGraph) addRoleLabels(n *fakeNode, q string) {
	for _, m := range setLabelRe.FindAllStringSubmatch(q, -1) {
		if !slices.Contains(n.labels, m[1]) {
			n.labels = append(n.labels, m[1])
		}
	}
}

func (g *fakeGraph) find(label, key string, value any) *fakeNode {
	for _, n := range g.nodes {
		if slices.Contains(n.labels, label) && n.props[key] == value {
			return n
		}
	}

	return nil
}

func (g *fakeGraph) byLabels(compound string) []*fakeNode {
	want := strings.Split(compound, ":")

	var out []*fakeNode

	for _, n := range g.nodes {
		all := true

		for _, l := range want {
			if !slices.Contains(n.labels, l) {
				all = false

				break
			}
		}

		if all {
			out = append(out, n)
		}
	}

	return out
}

func (g *fakeGraph) link(q string, p map[string]any) []moviegraph.Record {
	movie := g.find(moviegraph.LabelMovie, "title", p["title_2"])
	if movie == nil {
		return []moviegraph.Record{{"count": int64(0)}}
	}

	person := g.merge(moviegraph.LabelPerson, "name", p["name_3"], nil)
	g.addRoleLabels(person, q)

	rel := linkRelRe.FindStringSubmatch(q)[1]

	exists := slices.ContainsFunc(g.edges, func(e fakeEdge) bool {
		return e.from == person && e.to == movie && e.typ == rel
	})
	if !exists {
		g.edges = append(g.edges, fakeEdge{from: person, to: movie, typ: rel})
	}

	return []moviegraph.Record{{"count": int64(1)}}
}

func (g *fakeGraph) aggregate(rel string, title any) []moviegraph.Record {
	type group struct {
		movie  *fakeNode
		typ    string
		people []any
	}

	var groups []*group

	for _, e := range g.edges {
		if rel != "" && e.typ != rel {
			continue
		}

		if title != nil && e.to.props["title"] != title {
			continue
		}

		idx := slices.IndexFunc(groups, func(gr *group) bool { return gr.movie == e.to && gr.typ == e.typ })
		if idx < 0 {
			groups = append(groups, &group{movie: e.to, typ: e.typ})
			idx = len(groups) - 1
		}

		groups[idx].people = append(groups[idx].people, e.from.props["name"])
	}

	out := make([]moviegraph.Record, 0, len(groups))
	for _, gr := range groups {
		out = append(out, moviegraph.Record{
			"title":            gr.movie.props["title"],
			"relationshipType": gr.typ,
			"people":           gr.people,
		})
	}

	return out
}

func (g *fakeGraph) delete(name any) []moviegraph.Record {
	n := g.find(moviegraph.LabelPerson, "name", name)
	if n == nil {
		return []moviegraph.Record{{"count": int64(0)}}
	}

	g.nodes = slices.DeleteFunc(g.nodes, func(o *fakeNode) bool { return o == n })
	g.edges = slices.DeleteFunc(g.edges, func(e fakeEdge) bool { return e.from == n || e.to == n })

	return []moviegraph.Record{{"count": int64(1)}}
}

func (g *fakeGraph) lookup(q string, p map[string]any) []moviegraph.Record {
	label := labelRe.FindStringSubmatch(q)[1]

	var out []moviegraph.Record

	for _, n := range g.byLabels(label) {
		if title, ok := p["title_2"]; ok && n.props["title"] != title {
			continue
		}

		out = append(out, moviegraph.Record{"n": n.dbNode()})
	}

	return out
}

func (n *fakeNode) dbNode() dbtype.Node {
	return dbtype.Node{
		ElementId: fmt.Sprintf("4:fake:%d", n.id),
		Labels:    slices.Clone(n.labels),
		Props:     maps.Clone(n.props),
	}
}

func (g *fakeGraph) count(label string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.byLabels(label))
}
