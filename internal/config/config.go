// Package config binds CLI flags, environment variables, and an optional
// YAML file into a single typed configuration struct, grounded on the
// teacher's cmd/root.go initConfig/viper wiring and generalized from the
// teacher's flat flag set to the two subcommands' distinct option sets.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"
	DefaultWikidataEndpoint = "https://www.wikidata.org/w/api.php"
	DefaultUserAgent        = "geocode-import/1.0 (+https://github.com/DaxServer/geocode-commons-categories)"
	envPrefix               = "GEOCODE"
)

// Import holds the resolved configuration for a single-country import run.
type Import struct {
	ISO3             string
	LevelMin         int
	LevelMax         int
	DBURL            string
	OverpassEndpoint string
	WikidataEndpoint string
	UserAgent        string
	LogLevel         string
}

// ImportAll holds the resolved configuration for the multi-country run.
type ImportAll struct {
	CatalogueFile    string
	LevelMin         int
	LevelMax         int
	DBURL            string
	OverpassEndpoint string
	WikidataEndpoint string
	UserAgent        string
	LogLevel         string
}

// BindImportFlags registers the "import" subcommand's flags and binds them
// through viper, following the teacher's BindPFlag-per-flag pattern.
func BindImportFlags(flags *pflag.FlagSet) error {
	flags.String("iso3", "", "ISO 3166-1 alpha-3 country code to import")
	flags.Int("level-min", 2, "starting admin_level (inclusive)")
	flags.Int("level-max", 11, "ending admin_level (inclusive)")
	for _, name := range []string{"iso3", "level-min", "level-max"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return bindCommon(flags)
}

// BindImportAllFlags registers the "import-all" subcommand's flags.
func BindImportAllFlags(flags *pflag.FlagSet) error {
	flags.String("catalogue", "catalogue.yaml", "path to the country catalogue file")
	flags.Int("level-min", 2, "starting admin_level (inclusive)")
	flags.Int("level-max", 11, "ending admin_level (inclusive)")
	for _, name := range []string{"catalogue", "level-min", "level-max"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return bindCommon(flags)
}

func bindCommon(flags *pflag.FlagSet) error {
	flags.String("db-url", "", "Postgres connection string")
	flags.String("overpass-endpoint", DefaultOverpassEndpoint, "Overpass interpreter endpoint")
	flags.String("wikidata-endpoint", DefaultWikidataEndpoint, "Wikidata entity endpoint")
	flags.String("user-agent", DefaultUserAgent, "User-Agent sent to Overpass/Wikidata")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	for _, name := range []string{"db-url", "overpass-endpoint", "wikidata-endpoint", "user-agent", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Init wires viper's env-var layer, mirroring the teacher's initConfig: an
// env prefix plus automatic env so GEOCODE_DB_URL overrides --db-url.
func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		_ = viper.ReadInConfig()
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// LoadImport resolves the Import config from already-bound flags/env/file.
func LoadImport() (Import, error) {
	cfg := Import{
		ISO3:             strings.ToUpper(viper.GetString("iso3")),
		LevelMin:         viper.GetInt("level-min"),
		LevelMax:         viper.GetInt("level-max"),
		DBURL:            viper.GetString("db-url"),
		OverpassEndpoint: viper.GetString("overpass-endpoint"),
		WikidataEndpoint: viper.GetString("wikidata-endpoint"),
		UserAgent:        viper.GetString("user-agent"),
		LogLevel:         viper.GetString("log-level"),
	}
	if err := validateCommon(cfg.DBURL, cfg.OverpassEndpoint, cfg.WikidataEndpoint); err != nil {
		return Import{}, err
	}
	if cfg.ISO3 == "" || len(cfg.ISO3) != 3 {
		return Import{}, fmt.Errorf("--iso3 must be a 3-letter country code, got %q", cfg.ISO3)
	}
	if cfg.LevelMin < 2 || cfg.LevelMax > 11 || cfg.LevelMin > cfg.LevelMax {
		return Import{}, fmt.Errorf("invalid level range [%d,%d]: must satisfy 2 <= min <= max <= 11", cfg.LevelMin, cfg.LevelMax)
	}
	return cfg, nil
}

// LoadImportAll resolves the ImportAll config from already-bound flags/env/file.
func LoadImportAll() (ImportAll, error) {
	cfg := ImportAll{
		CatalogueFile:    viper.GetString("catalogue"),
		LevelMin:         viper.GetInt("level-min"),
		LevelMax:         viper.GetInt("level-max"),
		DBURL:            viper.GetString("db-url"),
		OverpassEndpoint: viper.GetString("overpass-endpoint"),
		WikidataEndpoint: viper.GetString("wikidata-endpoint"),
		UserAgent:        viper.GetString("user-agent"),
		LogLevel:         viper.GetString("log-level"),
	}
	if err := validateCommon(cfg.DBURL, cfg.OverpassEndpoint, cfg.WikidataEndpoint); err != nil {
		return ImportAll{}, err
	}
	if cfg.CatalogueFile == "" {
		return ImportAll{}, fmt.Errorf("--catalogue must name a catalogue file")
	}
	if cfg.LevelMin < 2 || cfg.LevelMax > 11 || cfg.LevelMin > cfg.LevelMax {
		return ImportAll{}, fmt.Errorf("invalid level range [%d,%d]: must satisfy 2 <= min <= max <= 11", cfg.LevelMin, cfg.LevelMax)
	}
	return cfg, nil
}

func validateCommon(dbURL, overpassEndpoint, wikidataEndpoint string) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url is required")
	}
	if overpassEndpoint == "" {
		return fmt.Errorf("--overpass-endpoint is required")
	}
	if wikidataEndpoint == "" {
		return fmt.Errorf("--wikidata-endpoint is required")
	}
	return nil
}
