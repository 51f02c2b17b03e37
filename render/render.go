// Package render prints mapped results as a styled table on terminals and as
// JSON otherwise.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/rlch/moviegraph"
)

// Format selects the output encoding.
type Format string

// Output formats.
const (
	Auto  Format = "auto"
	Table Format = "table"
	JSON  Format = "json"
)

// ParseFormat parses an output format name. Empty means Auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Auto, nil
	case Auto, Table, JSON:
		return f, nil
	default:
		return "", &moviegraph.ValidationError{Field: "format", Value: s, Reason: "must be auto, table or json"}
	}
}

// Resolve turns Auto into Table when w is a terminal and JSON otherwise.
func Resolve(f Format, w io.Writer) Format {
	if f != Auto && f != "" {
		return f
	}

	if file, ok := w.(*os.File); ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
		return Table
	}

	return JSON
}

// Renderer writes results to w.
type Renderer struct {
	w      io.Writer
	format Format
	styles *Styles
}

// New returns a renderer for w. Auto is resolved against w immediately.
func New(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: Resolve(format, w), styles: DefaultStyles()}
}

// Format returns the resolved format.
func (r *Renderer) Format() Format {
	return r.format
}

// Movies renders movies.
func (r *Renderer) Movies(movies []moviegraph.Movie) error {
	if r.format == JSON {
		return r.json(movies)
	}

	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{m.Title, r.optionalInt(m.Released), r.optionalString(m.Tagline)})
	}

	return r.table([]string{"TITLE", "RELEASED", "TAGLINE"}, rows)
}

// Movie renders a single lookup result.
func (r *Renderer) Movie(movie moviegraph.Movie, found bool) error {
	if !found {
		if r.format == JSON {
			return r.json(nil)
		}

		_, err := fmt.Fprintln(r.w, r.styles.Dim.Render("not found"))

		return err
	}

	return r.Movies([]moviegraph.Movie{movie})
}

// People renders people.
func (r *Renderer) People(people []moviegraph.Person) error {
	if r.format == JSON {
		return r.json(people)
	}

	rows := make([][]string, 0, len(people))
	for _, p := range people {
		rows = append(rows, []string{p.Name, r.optionalInt(p.Born)})
	}

	return r.table([]string{"NAME", "BORN"}, rows)
}

// Names renders a list of names.
func (r *Renderer) Names(names []string) error {
	if r.format == JSON {
		return r.json(names)
	}

	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n})
	}

	return r.table([]string{"NAME"}, rows)
}

// Aggregates renders title-and-people projections.
func (r *Renderer) Aggregates(aggs []moviegraph.TitleAndPeople) error {
	if r.format == JSON {
		return r.json(aggs)
	}

	rows := make([][]string, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []string{a.Title, a.RelationshipType, strings.Join(a.People, ", ")})
	}

	return r.table([]string{"TITLE", "RELATIONSHIP", "PEOPLE"}, rows)
}

// Count renders a labelled count.
func (r *Renderer) Count(label string, n int64) error {
	if r.format == JSON {
		return r.json(map[string]any{"label": label, "count": n})
	}

	_, err := fmt.Fprintf(r.w, "%s %s\n", r.styles.Muted.Render(label), r.styles.Header.Render(strconv.FormatInt(n, 10)))

	return err
}

// Done renders a success line for commands without a result set.
func (r *Renderer) Done(msg string) error {
	if r.format == JSON {
		return r.json(map[string]any{"ok": true, "message": msg})
	}

	_, err := fmt.Fprintf(r.w, "%s %s\n", r.styles.Pass.Render(r.styles.SymbolPass), msg)

	return err
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render json: %w", err)
	}

	return nil
}

func (r *Renderer) table(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.w, r.styles.Dim.Render("(no results)"))

		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.Header
			}

			return r.styles.Cell
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(r.w, t.String())

	return err
}

func (r *Renderer) optionalInt(v *int64) string {
	if v == nil {
		return r.styles.Dim.Render(r.styles.Absent)
	}

	return strconv.FormatInt(*v, 10)
}

func (r *Renderer) optionalString(v *string) string {
	if v == nil {
		return r.styles.Dim.Render(r.styles.Absent)
	}

	return *v
}
