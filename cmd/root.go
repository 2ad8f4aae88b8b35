package cmd

import (
	"context"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "feedagg",
		Usage: "Aggregate blog feeds into a single post list at build time",
		Description: `Merges the entries of several Atom, RSS or JSON feeds into one
		deduplicated list of posts sorted newest first, together with a sorted
		roster of the authors.

		Feeds are configured in the YAML front-matter of pages with
		"layout: feed_aggregator". Site wide settings are read from a TOML file.

		Flags can generally be set via environment variables, e.g.:

		--config => FEEDAGG_CONFIG=feedagg.toml
		--output => FEEDAGG_OUTPUT=_site/feeds
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"FEEDAGG_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Log in JSON format",
				EnvVars: []string{"FEEDAGG_LOG_JSON"},
			},
		},
		Before: func(ctx *cli.Context) error {
			return setupLogging(ctx.String("log-level"), ctx.Bool("log-json"))
		},
		Commands: []*cli.Command{
			aggregateCmd(),
			serveCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func setupLogging(level string, asJSON bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	if asJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}

// Execute runs the root app. An interrupt cancels in-flight fetches.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
