package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DaxServer/geocode-commons-categories/internal/config"
	"github.com/DaxServer/geocode-commons-categories/internal/orchestrator"
	"github.com/DaxServer/geocode-commons-categories/internal/progress"
	"github.com/DaxServer/geocode-commons-categories/internal/store/postgres"
)

var importAllCmd = &cobra.Command{
	Use:   "import-all",
	Short: "Import every pending country in a catalogue",
	Long:  `Run the pipeline for every ISO3 code in a catalogue file that has not yet completed, COUNTRY_BATCH at a time.`,
	RunE:  runImportAll,
}

func init() {
	rootCmd.AddCommand(importAllCmd)
	if err := config.BindImportAllFlags(importAllCmd.Flags()); err != nil {
		panic(fmt.Sprintf("failed to bind import-all flags: %v", err))
	}
}

func runImportAll(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadImportAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	catalogue, err := config.LoadCatalogue(cfg.CatalogueFile)
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

	pending, err := db.PendingCountries(ctx, catalogue.Countries)
	if err != nil {
		return fmt.Errorf("resolve pending countries: %w", err)
	}

	country := buildCountry(cfg.OverpassEndpoint, cfg.WikidataEndpoint, cfg.UserAgent, db)
	pool := orchestrator.NewPool(country, logger)

	results := pool.RunAll(ctx, pending, cfg.LevelMin, cfg.LevelMax)

	var failed int
	for _, r := range results {
		rec, loadErr := db.LoadProgress(ctx, r.ISO3)
		if loadErr == nil {
			logger.Info(progress.Summary(rec))
		}
		if r.Err != nil {
			failed++
		}
	}

	logger.Info("import-all summary", "countries", len(results), "failed", failed)

	if failed > 0 {
		os.Exit(1)
	}
	return nil
}
