package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalogue is the on-disk list of countries import-all walks, e.g.:
//
//	countries:
//	  - BEL
//	  - DEU
type Catalogue struct {
	Countries []string `yaml:"countries"`
}

// LoadCatalogue reads and parses a catalogue file, normalizing each code to
// uppercase (spec.md's country codes are ISO3166-1 alpha-3, case-insensitive
// on input).
func LoadCatalogue(path string) (Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalogue{}, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalogue{}, fmt.Errorf("parse catalogue %s: %w", path, err)
	}
	for i, code := range cat.Countries {
		cat.Countries[i] = normalizeISO3(code)
	}
	return cat, nil
}

func normalizeISO3(code string) string {
	out := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
