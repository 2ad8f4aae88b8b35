package cmd

import (
	"errors"
	"fmt"

	"feedagg/render"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func aggregateCmd() *cli.Command {
	return &cli.Command{
		Name:      "aggregate",
		Usage:     "Compile feed aggregator pages into JSON data files",
		ArgsUsage: "<page or directory>...",
		Description: `Fetches every feed listed in the front-matter of the given pages
and writes one <page>.json per page to the output directory.

Pages that set "meta_feed" also get an Atom feed of the aggregate
written to that path below the output directory.

Feeds that cannot be fetched or parsed are skipped with a warning;
only a malformed feed_list aborts the build.`,
		Flags: append(buildFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (overrides config)",
				EnvVars: []string{"FEEDAGG_OUTPUT"},
			},
		),
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() == 0 {
				return errors.New("please specify at least one page or directory")
			}

			cfg, err := loadSiteConfig(ctx)
			if err != nil {
				return err
			}
			outputDir := cfg.Output.Dir
			if dir := ctx.String("output"); dir != "" {
				outputDir = dir
			}

			paths, err := pagePaths(ctx.Args().Slice())
			if err != nil {
				return fmt.Errorf("could not list pages: %w", err)
			}

			pages, err := compilePages(ctx.Context, newAggregator(cfg), paths)
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				log.Warn("No feed aggregator pages found")
				return nil
			}

			for _, page := range pages {
				if _, err := render.WritePage(outputDir, page); err != nil {
					return fmt.Errorf("could not write page %s: %w", page.Name, err)
				}
			}
			return nil
		},
	}
}
