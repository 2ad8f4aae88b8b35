package server

import (
	"sort"
	"strings"
	"time"

	"feedagg/render"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type ServerConfig struct {
	// Pages compiled at startup, keyed by page name
	Pages map[string]render.Page

	// BuiltAt is reported by the index endpoint
	BuiltAt time.Time

	// CacheExpiration of page responses, zero disables the cache
	CacheExpiration time.Duration
}

type pageSummary struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Posts    int    `json:"posts"`
	Authors  int    `json:"authors"`
	MetaFeed string `json:"metaFeed,omitempty"`
}

// Returns a fiber.App serving the aggregates compiled for a build preview
func Server(config *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	if config.CacheExpiration > 0 {
		app.Use(cache.New(cache.Config{
			Next: func(c *fiber.Ctx) bool {
				// Never cache metrics
				return c.Method() != fiber.MethodGet || strings.HasPrefix(c.Path(), "/metrics")
			},
			Expiration: config.CacheExpiration,
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", func(c *fiber.Ctx) error {
		names := lo.Keys(config.Pages)
		sort.Strings(names)
		summaries := lo.Map(names, func(name string, _ int) pageSummary {
			page := config.Pages[name]
			return pageSummary{
				Name:     name,
				Title:    page.Result.Title,
				Posts:    len(page.Result.Posts),
				Authors:  len(page.Result.Authors),
				MetaFeed: lo.Ternary(page.MetaFeed != "", "/feeds/"+name, ""),
			}
		})
		return c.JSON(fiber.Map{
			"builtAt": config.BuiltAt,
			"pages":   summaries,
		})
	})

	app.Get("/pages/:name", func(c *fiber.Ctx) error {
		page, ok := config.Pages[c.Params("name")]
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("Unknown page")
		}
		return c.JSON(page.Result)
	})

	app.Get("/feeds/:name", func(c *fiber.Ctx) error {
		page, ok := config.Pages[c.Params("name")]
		if !ok || page.MetaFeed == "" {
			return c.Status(fiber.StatusNotFound).SendString("No meta feed for page")
		}
		atom, err := render.Atom(page.Result, page.FeedID(), config.BuiltAt)
		if err != nil {
			log.WithFields(log.Fields{
				"page":  page.Name,
				"error": err,
			}).Error("Error rendering meta feed")
			return c.Status(fiber.StatusInternalServerError).SendString("Error rendering meta feed")
		}
		c.Set(fiber.HeaderContentType, "application/atom+xml; charset=utf-8")
		return c.SendString(atom)
	})

	return app
}
