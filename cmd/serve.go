package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedagg/render"
	"feedagg/server"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveCmd compiles the pages once and serves the results for previewing
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Compile pages once and serve the aggregates over HTTP",
		ArgsUsage: "<page or directory>...",
		Description: `Compiles the given feed aggregator pages and serves the results:

  GET /              index of compiled pages
  GET /pages/:name   aggregate of a page as JSON
  GET /feeds/:name   meta feed of a page as Atom
  GET /metrics       Prometheus metrics

The aggregates are built once at startup. Restart to rebuild.`,
		Flags: append(buildFlags(),
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "Host to listen on",
				EnvVars: []string{"FEEDAGG_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   4001,
				Usage:   "Port to listen on",
				EnvVars: []string{"FEEDAGG_PORT"},
			},
			&cli.DurationFlag{
				Name:    "cache",
				Value:   time.Minute,
				Usage:   "Response cache expiration, 0 disables caching",
				EnvVars: []string{"FEEDAGG_CACHE"},
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

			paths, err := pagePaths(ctx.Args().Slice())
			if err != nil {
				return fmt.Errorf("could not list pages: %w", err)
			}

			pages, err := compilePages(ctx.Context, newAggregator(cfg), paths)
			if err != nil {
				return err
			}

			app := server.Server(&server.ServerConfig{
				Pages: lo.KeyBy(pages, func(p render.Page) string {
					return p.Name
				}),
				BuiltAt:         time.Now(),
				CacheExpiration: ctx.Duration("cache"),
			})

			// Graceful shutdown
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			go func() {
				select {
				case <-sigs:
				case <-ctx.Context.Done():
				}
				log.Info("Shutting down server")
				if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			addr := fmt.Sprintf("%s:%d", ctx.String("host"), ctx.Int("port"))
			log.WithFields(log.Fields{
				"addr":  addr,
				"pages": len(pages),
			}).Info("Starting server")

			return app.Listen(addr)
		},
	}
}
