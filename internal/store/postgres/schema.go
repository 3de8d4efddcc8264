package postgres

// Schema is the logical storage schema from spec.md §6, applied by test
// setup (see testhelpers) and available for a one-shot migration command.
const Schema = `
CREATE TABLE IF NOT EXISTS raw_relations (
	id            BIGSERIAL PRIMARY KEY,
	relation_id   BIGINT NOT NULL,
	country_code  CHAR(3) NOT NULL,
	admin_level   SMALLINT NOT NULL,
	name          TEXT NOT NULL,
	wikidata_id   TEXT,
	geometry      GEOMETRY(GEOMETRY, 4326) NOT NULL,
	tags          JSONB NOT NULL DEFAULT '{}',
	fetched_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (relation_id, country_code)
);
CREATE INDEX IF NOT EXISTS raw_relations_geometry_idx ON raw_relations USING GIST (geometry);
CREATE INDEX IF NOT EXISTS raw_relations_country_level_idx ON raw_relations (country_code, admin_level);
CREATE INDEX IF NOT EXISTS raw_relations_wikidata_idx ON raw_relations (wikidata_id);

CREATE TABLE IF NOT EXISTS enriched_boundaries (
	id               BIGSERIAL PRIMARY KEY,
	wikidata_id      TEXT NOT NULL UNIQUE,
	commons_category TEXT NOT NULL,
	admin_level      SMALLINT NOT NULL CHECK (admin_level BETWEEN 1 AND 10),
	name             TEXT NOT NULL,
	geom             GEOMETRY(GEOMETRY, 4326) NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS enriched_boundaries_geom_idx ON enriched_boundaries USING GIST (geom);
CREATE INDEX IF NOT EXISTS enriched_boundaries_admin_level_idx ON enriched_boundaries (admin_level);

CREATE TABLE IF NOT EXISTS import_progress (
	country_code        CHAR(3) PRIMARY KEY,
	current_admin_level SMALLINT NOT NULL DEFAULT 0,
	status              TEXT NOT NULL DEFAULT 'pending',
	relations_fetched   BIGINT NOT NULL DEFAULT 0,
	errors              BIGINT NOT NULL DEFAULT 0,
	started_at          TIMESTAMPTZ,
	completed_at        TIMESTAMPTZ,
	last_error          TEXT
);
CREATE INDEX IF NOT EXISTS import_progress_status_idx ON import_progress (status);
`
