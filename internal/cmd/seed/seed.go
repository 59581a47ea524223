// Package seed parses seed command flags and loads YAML encounter
// fixtures into a store.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/warbandtools/skirmish/internal/encounter/app"
	"github.com/warbandtools/skirmish/internal/encounter/domain/engine"
	"github.com/warbandtools/skirmish/internal/encounter/scenario"
	"github.com/warbandtools/skirmish/internal/encounter/storage/sqlite"
	platformcmd "github.com/warbandtools/skirmish/internal/platform/cmd"
)

// Config holds seed command configuration.
type Config struct {
	DBPath   string `env:"SKIRMISH_DB_PATH"       envDefault:"skirmish.db"`
	Fixtures string `env:"SKIRMISH_FIXTURES_GLOB" envDefault:"fixtures/*.yaml"`
	Verbose  bool   `env:"SKIRMISH_SEED_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the encounter database")
	fs.StringVar(&cfg.Fixtures, "fixtures", cfg.Fixtures, "glob of fixture files to load")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads every fixture matching the glob into the store, printing one
// line per seeded encounter.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Fixtures == "" {
		return errors.New("fixtures glob is required")
	}

	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceScenario, func(ctx context.Context) error {
		fixtures, err := scenario.LoadGlob(cfg.Fixtures)
		if err != nil {
			return err
		}

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

		progress := io.Discard
		if cfg.Verbose {
			progress = errOut
		}
		runner, err := scenario.NewRunner(service, progress)
		if err != nil {
			return err
		}

		for _, fixture := range fixtures {
			encounterID, err := runner.Apply(ctx, fixture)
			if err != nil {
				return fmt.Errorf("fixture %q: %w", fixture.Name, err)
			}
			fmt.Fprintf(out, "%s\t%s\n", encounterID, fixture.Name)
		}
		return nil
	})
}
