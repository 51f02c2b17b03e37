package main

import (
	"context"

	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/filter"
	"github.com/urfave/cli/v3"
)

func whereFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "where",
		Aliases: []string{"w"},
		Usage:   `filter expression over result properties, e.g. 'released >= 2000'`,
	}
}

func moviesCommand() *cli.Command {
	return &cli.Command{
		Name:   "movies",
		Usage:  "List every movie",
		Flags:  []cli.Flag{whereFlag()},
		Action: withApp(runMovies),
	}
}

func runMovies(ctx context.Context, cmd *cli.Command, a *app) error {
	f, err := filter.Compile(cmd.String("where"))
	if err != nil {
		return err
	}

	list, err := a.svc.ListMovies(ctx)
	if err != nil {
		return err
	}

	list, err = filter.Apply(f, list, moviegraph.Movie.Properties)
	if err != nil {
		return err
	}

	return a.out.Movies(list)
}

func movieCommand() *cli.Command {
	return &cli.Command{
		Name:      "movie",
		Usage:     "Show the movie with the given title",
		ArgsUsage: "<title>",
		Action:    withApp(runMovie),
	}
}

func runMovie(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 1, 1); err != nil {
		return err
	}

	movie, found, err := a.svc.GetByTitle(ctx, cmd.Args().First())
	if err != nil {
		return err
	}

	return a.out.Movie(movie, found)
}

func peopleCommand() *cli.Command {
	return &cli.Command{
		Name:   "people",
		Usage:  "List every person",
		Flags:  []cli.Flag{whereFlag()},
		Action: withApp(runPeople),
	}
}

func runPeople(ctx context.Context, cmd *cli.Command, a *app) error {
	f, err := filter.Compile(cmd.String("where"))
	if err != nil {
		return err
	}

	list, err := a.svc.ListPeople(ctx)
	if err != nil {
		return err
	}

	list, err = filter.Apply(f, list, moviegraph.Person.Properties)
	if err != nil {
		return err
	}

	return a.out.People(list)
}

func relatedCommand() *cli.Command {
	return &cli.Command{
		Name:  "related",
		Usage: "Show the people attached to movies through a relationship",
		Description: "With a title, prints the names attached to that movie.\n" +
			"Without one, prints every movie with its people; use 'any' for all relationship types.",
		ArgsUsage: "<relationship|any> [title]",
		Flags:     []cli.Flag{whereFlag()},
		Action:    withApp(runRelated),
	}
}

func runRelated(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 1, 2); err != nil {
		return err
	}

	var rel moviegraph.Relationship

	if name := cmd.Args().Get(0); name != "any" {
		r, err := moviegraph.ParseRelationship(name)
		if err != nil {
			return err
		}

		rel = r
	}

	if cmd.Args().Len() == 2 {
		if rel == "" {
			return &moviegraph.ValidationError{Field: "relationship", Value: "any", Reason: "a title lookup needs a relationship type"}
		}

		names, err := a.svc.GetRelatedNamesByTitle(ctx, cmd.Args().Get(1), rel)
		if err != nil {
			return err
		}

		return a.out.Names(names)
	}

	f, err := filter.Compile(cmd.String("where"))
	if err != nil {
		return err
	}

	aggs, err := a.svc.GetAllRelatedByEntity(ctx, rel)
	if err != nil {
		return err
	}

	aggs, err = filter.Apply(f, aggs, moviegraph.TitleAndPeople.Properties)
	if err != nil {
		return err
	}

	return a.out.Aggregates(aggs)
}

func countCommand() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Count the nodes carrying a label",
		ArgsUsage: "<label>",
		Action:    withApp(runCount),
	}
}

func runCount(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 1, 1); err != nil {
		return err
	}

	label := cmd.Args().First()

	n, err := a.svc.CountByLabel(ctx, label)
	if err != nil {
		return err
	}

	return a.out.Count(label, n)
}
