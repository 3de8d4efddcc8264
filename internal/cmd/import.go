package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DaxServer/geocode-commons-categories/internal/config"
	"github.com/DaxServer/geocode-commons-categories/internal/discovery"
	"github.com/DaxServer/geocode-commons-categories/internal/geometry"
	"github.com/DaxServer/geocode-commons-categories/internal/orchestrator"
	"github.com/DaxServer/geocode-commons-categories/internal/store/postgres"
	"github.com/DaxServer/geocode-commons-categories/internal/wikidata"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a single country's administrative boundaries",
	Long:  `Run the full discover-assemble-enrich-persist pipeline for one ISO3 country code.`,
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	if err := config.BindImportFlags(importCmd.Flags()); err != nil {
		panic(fmt.Sprintf("failed to bind import flags: %v", err))
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadImport()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := signalContext()
	defer cancel()

	db, err := postgres.Open(postgres.DefaultPoolConfig(cfg.DBURL), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer db.Close()

	country := buildCountry(cfg.OverpassEndpoint, cfg.WikidataEndpoint, cfg.UserAgent, db)

	stats, err := country.Run(ctx, cfg.ISO3, cfg.LevelMin, cfg.LevelMax)
	if err != nil {
		return fmt.Errorf("import %s: %w", cfg.ISO3, err)
	}

	logger.Info("import summary",
		"country", stats.CountryCode,
		"relations_discovered", stats.RelationsDiscovered,
		"geometries_parsed", stats.GeometriesParsed,
		"wikidata_matches", stats.WikidataMatches,
		"rows_inserted", stats.RowsInserted,
		"row_errors", len(stats.RowErrors),
	)

	if len(stats.RowErrors) > 0 {
		os.Exit(1)
	}

	return nil
}

// buildCountry assembles the C3-C8 stage clients for one pipeline run,
// grounded on the teacher's runGenerate wiring a DataSource/Generator
// together from flag-resolved config before handing off to the worker
// pool.
func buildCountry(overpassEndpoint, wikidataEndpoint, userAgent string, db *postgres.DB) *orchestrator.Country {
	return &orchestrator.Country{
		Discovery: discovery.NewClient(overpassEndpoint),
		Geometry:  geometry.NewClient(overpassEndpoint),
		Wikidata:  wikidata.NewClient(wikidataEndpoint, userAgent),
		Transform: orchestrator.DefaultTransformer{},
		Store:     db,
		Logger:    logger,
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, grounded on
// the teacher's runBatchGenerate signal-handling block.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received interrupt signal, cancelling")
		cancel()
	}()
	return ctx, cancel
}
