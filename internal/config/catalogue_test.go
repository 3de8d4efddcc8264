package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadCatalogue_NormalizesCodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogue.yaml")
	content := "countries:\n  - bel\n  - DEU\n  - FrA\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cat, err := LoadCatalogue(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"BEL", "DEU", "FRA"}
	if !reflect.DeepEqual(cat.Countries, want) {
		t.Errorf("got %v, want %v", cat.Countries, want)
	}
}

func TestLoadCatalogue_MissingFile(t *testing.T) {
	if _, err := LoadCatalogue(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
