package main

import (
	"context"
	"fmt"

	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/seed"
	"github.com/urfave/cli/v3"
)

func personCommand() *cli.Command {
	return &cli.Command{
		Name:      "person",
		Usage:     "Find or create a person",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "born",
				Usage: "birth year, only stored when the person is created",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "extra label: actor or director",
			},
		},
		Action: withApp(runPerson),
	}
}

func runPerson(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 1, 1); err != nil {
		return err
	}

	role, err := moviegraph.ParseRole(cmd.String("role"))
	if err != nil {
		return err
	}

	var born *int64
	if cmd.IsSet("born") {
		born = moviegraph.Int64(cmd.Int64("born"))
	}

	person, err := a.svc.UpsertPerson(ctx, cmd.Args().First(), born, role)
	if err != nil {
		return err
	}

	return a.out.People([]moviegraph.Person{person})
}

func linkCommand() *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Attach a person to a movie, creating the person if needed",
		ArgsUsage: "<title> <relationship> <name>",
		Action:    withApp(runLink),
	}
}

func runLink(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 3, 3); err != nil {
		return err
	}

	rel, err := moviegraph.ParseRelationship(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	aggs, err := a.svc.LinkPersonToEntity(ctx, cmd.Args().Get(0), rel, cmd.Args().Get(2))
	if err != nil {
		return err
	}

	return a.out.Aggregates(aggs)
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a person and its relationships",
		ArgsUsage: "<name>",
		Action:    withApp(runDelete),
	}
}

func runDelete(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 1, 1); err != nil {
		return err
	}

	n, err := a.svc.DeletePerson(ctx, cmd.Args().First())
	if err != nil {
		return err
	}

	return a.out.Count("deleted", n)
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:   "schema",
		Usage:  "Create the uniqueness constraints for people and movies",
		Action: withApp(runSchema),
	}
}

func runSchema(ctx context.Context, _ *cli.Command, a *app) error {
	if err := a.svc.EnsureConstraints(ctx); err != nil {
		return err
	}

	return a.out.Done("constraints in place")
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:        "seed",
		Usage:       "Load a fixture into the graph",
		Description: "Without a file, uses the config's seed file or the built-in movie fixture.",
		ArgsUsage:   "[fixture.yaml]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "create constraints before seeding",
				Value: true,
			},
		},
		Action: withApp(runSeed),
	}
}

func runSeed(ctx context.Context, cmd *cli.Command, a *app) error {
	if err := requireArgs(cmd, 0, 1); err != nil {
		return err
	}

	fixture, err := loadFixture(cmd.Args().First(), a.cfg.Seed)
	if err != nil {
		return err
	}

	if cmd.Bool("schema") {
		if err := a.svc.EnsureConstraints(ctx); err != nil {
			return err
		}
	}

	stats, err := seed.Apply(ctx, a.svc, fixture)
	if err != nil {
		return err
	}

	return a.out.Done(fmt.Sprintf("seeded %d people, %d movies, %d links", stats.People, stats.Movies, stats.Links))
}

func loadFixture(arg, configured string) (*seed.Fixture, error) {
	switch {
	case arg != "":
		return seed.Load(arg)
	case configured != "":
		return seed.Load(configured)
	default:
		return seed.Default()
	}
}
