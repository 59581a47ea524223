// Package encounter parses encounter server flags and runs the MCP
// adapter over stdio.
package encounter

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/warbandtools/skirmish/internal/encounter/api/health"
	encountermcp "github.com/warbandtools/skirmish/internal/encounter/api/mcp"
	"github.com/warbandtools/skirmish/internal/encounter/app"
	"github.com/warbandtools/skirmish/internal/encounter/domain/engine"
	"github.com/warbandtools/skirmish/internal/encounter/storage/sqlite"
	platformcmd "github.com/warbandtools/skirmish/internal/platform/cmd"
)

// Config holds encounter server configuration.
type Config struct {
	DBPath     string `env:"SKIRMISH_DB_PATH"     envDefault:"skirmish.db"`
	HealthAddr string `env:"SKIRMISH_HEALTH_ADDR" envDefault:"localhost:8082"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the encounter database")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health server address (empty to disable)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store and serves encounter tools over stdio until the
// context is canceled.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceEncounter, func(ctx context.Context) error {
		registries, err := engine.NewRegistries()
		if err != nil {
			return fmt.Errorf("build registries: %w", err)
		}

		store, err := sqlite.Open(cfg.DBPath, registries.Events)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		service, err := app.NewService(app.Stores{Encounters: store, Events: store, Snapshots: store})
		if err != nil {
			return fmt.Errorf("build service: %w", err)
		}

		server, err := encountermcp.NewServer(service)
		if err != nil {
			return fmt.Errorf("build mcp server: %w", err)
		}

		if cfg.HealthAddr != "" {
			healthServer, err := health.NewServer(cfg.HealthAddr, store)
			if err != nil {
				return fmt.Errorf("start health server: %w", err)
			}
			healthErr := make(chan error, 1)
			go func() {
				healthErr <- healthServer.Serve(ctx)
			}()
			defer func() {
				healthServer.Close()
				if err := <-healthErr; err != nil {
					log.Printf("health server: %v", err)
				}
			}()
			log.Printf("health server listening at %s", healthServer.Addr())
		}

		return server.ServeStdio(ctx)
	})
}
