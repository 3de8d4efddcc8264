package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) *pflag.FlagSet {
	t.Helper()
	viper.Reset()
	return pflag.NewFlagSet("test", pflag.ContinueOnError)
}

func TestLoadImport_RequiresISO3(t *testing.T) {
	flags := resetViper(t)
	if err := BindImportFlags(flags); err != nil {
		t.Fatalf("bind flags: %v", err)
	}
	viper.Set("db-url", "postgres://localhost/test")

	if _, err := LoadImport(); err == nil {
		t.Fatal("expected error when --iso3 is missing")
	}
}

func TestLoadImport_RejectsInvertedLevelRange(t *testing.T) {
	flags := resetViper(t)
	if err := BindImportFlags(flags); err != nil {
		t.Fatalf("bind flags: %v", err)
	}
	viper.Set("db-url", "postgres://localhost/test")
	viper.Set("iso3", "bel")
	viper.Set("level-min", 8)
	viper.Set("level-max", 4)

	if _, err := LoadImport(); err == nil {
		t.Fatal("expected error for inverted level range")
	}
}

func TestLoadImport_NormalizesISO3AndAppliesDefaults(t *testing.T) {
	flags := resetViper(t)
	if err := BindImportFlags(flags); err != nil {
		t.Fatalf("bind flags: %v", err)
	}
	viper.Set("db-url", "postgres://localhost/test")
	viper.Set("iso3", "bel")

	cfg, err := LoadImport()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ISO3 != "BEL" {
		t.Errorf("expected normalized ISO3 BEL, got %s", cfg.ISO3)
	}
	if cfg.OverpassEndpoint != DefaultOverpassEndpoint {
		t.Errorf("expected default overpass endpoint, got %s", cfg.OverpassEndpoint)
	}
	if cfg.WikidataEndpoint != DefaultWikidataEndpoint {
		t.Errorf("expected default wikidata endpoint, got %s", cfg.WikidataEndpoint)
	}
}

func TestLoadImportAll_RequiresCatalogueAndDBURL(t *testing.T) {
	flags := resetViper(t)
	if err := BindImportAllFlags(flags); err != nil {
		t.Fatalf("bind flags: %v", err)
	}
	viper.Set("catalogue", "")
	viper.Set("db-url", "postgres://localhost/test")

	if _, err := LoadImportAll(); err == nil {
		t.Fatal("expected error when --catalogue is empty")
	}
}
