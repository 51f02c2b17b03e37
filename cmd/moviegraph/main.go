// Package main provides the moviegraph CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "moviegraph",
		Version: version,
		Usage:   "Query and populate the movie graph",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			moviesCommand(),
			movieCommand(),
			peopleCommand(),
			relatedCommand(),
			personCommand(),
			linkCommand(),
			countCommand(),
			deleteCommand(),
			schemaCommand(),
			seedCommand(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default: nearest .moviegraph.yaml)",
		},
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "access strategy: raw, helper or fluent (overrides config)",
			Sources: cli.EnvVars("MOVIEGRAPH_STRATEGY"),
		},
		&cli.StringFlag{
			Name:    "uri",
			Usage:   "database connection URI",
			Sources: cli.EnvVars("MOVIEGRAPH_URI"),
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "database username",
			Sources: cli.EnvVars("MOVIEGRAPH_USER"),
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "database password",
			Sources: cli.EnvVars("MOVIEGRAPH_PASS"),
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "database name",
			Sources: cli.EnvVars("MOVIEGRAPH_DATABASE"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format: auto, table or json",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, warn or error",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "log executor metrics on exit",
		},
	}
}
