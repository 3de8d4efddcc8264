// Package testhelpers applies the storage schema against a throwaway test
// database. Grounded on the enrichment source's
// repository/postgres/testhelpers.ApplyMigrations (reads .up.sql files);
// generalized here to apply the single inline Schema constant directly
// since this module has no migration directory of its own.
package testhelpers

import (
	"database/sql"
	"fmt"

	"github.com/DaxServer/geocode-commons-categories/internal/store/postgres"
)

// ApplySchema creates every table/index in postgres.Schema against db.
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(postgres.Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
