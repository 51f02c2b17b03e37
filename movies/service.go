// Package movies exposes the movie-graph operations. A Service combines a
// statement source, an executor and the shared result mappers, so every access
// strategy yields the same results for the same records.
package movies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/cypher"
	"go.uber.org/zap"
)

// Service runs the logical operations. It holds no state between calls and is
// safe for concurrent use when its executor is.
type Service struct {
	exec   moviegraph.Executor
	stmts  Statements
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStatements sets the statement source. The default is cypher.Statements.
func WithStatements(s Statements) Option {
	return func(svc *Service) {
		svc.stmts = s
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) {
		svc.logger = l
	}
}

// New returns a service executing through exec.
func New(exec moviegraph.Executor, opts ...Option) *Service {
	svc := &Service{
		exec:   exec,
		stmts:  cypher.Statements{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// Executor returns the underlying executor.
func (s *Service) Executor() moviegraph.Executor {
	return s.exec
}

// Close closes the executor.
func (s *Service) Close(ctx context.Context) error {
	return s.exec.Close(ctx)
}

// ListMovies returns every movie in backend order.
func (s *Service) ListMovies(ctx context.Context) ([]moviegraph.Movie, error) {
	stmt, err := s.stmts.ListAll(moviegraph.LabelMovie)
	if err != nil {
		return nil, err
	}

	records, err := s.run(ctx, "ListMovies", moviegraph.AccessRead, stmt)
	if err != nil {
		return nil, err
	}

	return decodeAll(records, movieRecord, buildMovie)
}

// ListPeople returns every person in backend order.
func (s *Service) ListPeople(ctx context.Context) ([]moviegraph.Person, error) {
	stmt, err := s.stmts.ListAll(moviegraph.LabelPerson)
	if err != nil {
		return nil, err
	}

	records, err := s.run(ctx, "ListPeople", moviegraph.AccessRead, stmt)
	if err != nil {
		return nil, err
	}

	return decodeAll(records, personRecord, buildPerson)
}

// GetByTitle looks up a movie by title. A missing movie returns ok == false
// and a nil error.
func (s *Service) GetByTitle(ctx context.Context, title string) (moviegraph.Movie, bool, error) {
	if err := moviegraph.RequireNonBlank("title", title); err != nil {
		return moviegraph.Movie{}, false, err
	}

	stmt, err := s.stmts.MovieByTitle(title)
	if err != nil {
		return moviegraph.Movie{}, false, err
	}

	records, err := s.run(ctx, "GetByTitle", moviegraph.AccessRead, stmt)
	if err != nil {
		return moviegraph.Movie{}, false, err
	}

	return decodeOne(records, movieRecord, buildMovie, "title")
}

// GetRelatedNamesByTitle returns the names of the people attached to the movie
// through rel. A movie without such people, or no movie at all, yields an
// empty slice.
func (s *Service) GetRelatedNamesByTitle(ctx context.Context, title string, rel moviegraph.Relationship) ([]string, error) {
	if err := moviegraph.RequireNonBlank("title", title); err != nil {
		return nil, err
	}

	rel, err := moviegraph.ParseRelationship(string(rel))
	if err != nil {
		return nil, err
	}

	stmt, err := s.stmts.RelatedByTitle(title, rel)
	if err != nil {
		return nil, err
	}

	records, err := s.run(ctx, "GetRelatedNamesByTitle", moviegraph.AccessRead, stmt)
	if err != nil {
		return nil, err
	}

	agg, ok, err := decodeOne(records, aggregateRecord, buildAggregate, cypher.TitleColumn)
	if err != nil {
		return nil, err
	}

	if !ok {
		return []string{}, nil
	}

	return agg.People, nil
}

// GetAllRelatedByEntity returns one aggregate per movie with at least one
// person attached through rel. An empty rel matches every relationship type,
// yielding one aggregate per movie and type.
func (s *Service) GetAllRelatedByEntity(ctx context.Context, rel moviegraph.Relationship) ([]moviegraph.TitleAndPeople, error) {
	if rel != "" {
		parsed, err := moviegraph.ParseRelationship(string(rel))
		if err != nil {
			return nil, err
		}

		rel = parsed
	}

	return s.allRelated(ctx, "GetAllRelatedByEntity", rel)
}

// UpsertPerson finds or creates the person called name. born and role only
// apply when the person is created; role labels are added either way.
func (s *Service) UpsertPerson(ctx context.Context, name string, born *int64, role moviegraph.Role) (moviegraph.Person, error) {
	if err := moviegraph.RequireNonBlank("name", name); err != nil {
		return moviegraph.Person{}, err
	}

	stmt, err := s.stmts.UpsertPerson(moviegraph.Person{Name: name, Born: born}, role)
	if err != nil {
		return moviegraph.Person{}, err
	}

	records, err := s.run(ctx, "UpsertPerson", moviegraph.AccessWrite, stmt)
	if err != nil {
		return moviegraph.Person{}, err
	}

	return single(records, personRecord, buildPerson, cypher.NodeColumn)
}

// UpsertMovie finds or creates the movie titled movie.Title.
func (s *Service) UpsertMovie(ctx context.Context, movie moviegraph.Movie) (moviegraph.Movie, error) {
	if err := moviegraph.RequireNonBlank("title", movie.Title); err != nil {
		return moviegraph.Movie{}, err
	}

	stmt, err := s.stmts.UpsertMovie(movie)
	if err != nil {
		return moviegraph.Movie{}, err
	}

	records, err := s.run(ctx, "UpsertMovie", moviegraph.AccessWrite, stmt)
	if err != nil {
		return moviegraph.Movie{}, err
	}

	return single(records, movieRecord, buildMovie, cypher.NodeColumn)
}

// LinkPersonToEntity attaches the person called name to the movie titled
// title through rel, creating the person when needed, and returns the
// refreshed aggregates for rel. Linking to a missing movie changes nothing.
func (s *Service) LinkPersonToEntity(ctx context.Context, title string, rel moviegraph.Relationship, name string) ([]moviegraph.TitleAndPeople, error) {
	rel, err := moviegraph.ParseRelationship(string(rel))
	if err != nil {
		return nil, err
	}

	if _, err := s.link(ctx, "LinkPersonToEntity", title, rel, name); err != nil {
		return nil, err
	}

	return s.allRelated(ctx, "LinkPersonToEntity", rel)
}

// Link is LinkPersonToEntity without the refreshed aggregates: it runs only
// the write and reports whether the movie exists.
func (s *Service) Link(ctx context.Context, title string, rel moviegraph.Relationship, name string) (bool, error) {
	rel, err := moviegraph.ParseRelationship(string(rel))
	if err != nil {
		return false, err
	}

	return s.link(ctx, "Link", title, rel, name)
}

func (s *Service) link(ctx context.Context, op, title string, rel moviegraph.Relationship, name string) (bool, error) {
	if err := moviegraph.RequireNonBlank("title", title); err != nil {
		return false, err
	}

	if err := moviegraph.RequireNonBlank("name", name); err != nil {
		return false, err
	}

	stmt, err := s.stmts.Link(title, rel, name)
	if err != nil {
		return false, err
	}

	records, err := s.run(ctx, op, moviegraph.AccessWrite, stmt)
	if err != nil {
		return false, err
	}

	matched, err := single(records, countRecord, buildCount, cypher.CountColumn)
	if err != nil {
		return false, err
	}

	if matched == 0 {
		s.logger.Info("link target not found",
			zap.String("title", title),
			zap.Stringer("relationship", rel),
			zap.String("name", name),
		)
	}

	return matched > 0, nil
}

// CountByLabel counts the nodes carrying label, which may be compound.
func (s *Service) CountByLabel(ctx context.Context, label string) (int64, error) {
	if err := moviegraph.RequireNonBlank("label", label); err != nil {
		return 0, err
	}

	stmt, err := s.stmts.Count(label)
	if err != nil {
		return 0, err
	}

	records, err := s.run(ctx, "CountByLabel", moviegraph.AccessRead, stmt)
	if err != nil {
		return 0, err
	}

	return single(records, countRecord, buildCount, cypher.CountColumn)
}

// DeletePerson removes the person called name with all relationships and
// returns how many nodes were deleted.
func (s *Service) DeletePerson(ctx context.Context, name string) (int64, error) {
	if err := moviegraph.RequireNonBlank("name", name); err != nil {
		return 0, err
	}

	stmt, err := s.stmts.DeletePerson(name)
	if err != nil {
		return 0, err
	}

	records, err := s.run(ctx, "DeletePerson", moviegraph.AccessWrite, stmt)
	if err != nil {
		return 0, err
	}

	return single(records, countRecord, buildCount, cypher.CountColumn)
}

// EnsureConstraints creates the uniqueness constraints the find-or-create
// writes rely on under concurrency. Safe to call repeatedly.
func (s *Service) EnsureConstraints(ctx context.Context) error {
	for _, stmt := range s.stmts.Constraints() {
		if _, err := s.run(ctx, "EnsureConstraints", moviegraph.AccessWrite, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) allRelated(ctx context.Context, op string, rel moviegraph.Relationship) ([]moviegraph.TitleAndPeople, error) {
	stmt, err := s.stmts.AllRelated(rel)
	if err != nil {
		return nil, err
	}

	records, err := s.run(ctx, op, moviegraph.AccessRead, stmt)
	if err != nil {
		return nil, err
	}

	return decodeAll(records, aggregateRecord, buildAggregate)
}

// run executes stmt and drains its cursor. Executor failures come back as
// *moviegraph.BackendError; nothing is returned alongside them.
func (s *Service) run(ctx context.Context, op string, access moviegraph.AccessMode, stmt cypher.Statement) ([]moviegraph.Record, error) {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("op", op),
		zap.Stringer("access", access),
	)
	log.Debug("execute", zap.String("query", stmt.Text), zap.Int("params", len(stmt.Params)))

	start := time.Now()

	cur, err := s.exec.Execute(ctx, access, stmt.Text, stmt.Params)
	if err != nil {
		log.Warn("execute failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))

		return nil, &moviegraph.BackendError{Op: op, Err: err}
	}

	records := cur.Collect()
	log.Debug("executed", zap.Int("records", len(records)), zap.Duration("elapsed", time.Since(start)))

	return records, nil
}
