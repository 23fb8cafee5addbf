// Package repository persists the SDS register and extraction history in
// SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Schema creates the register and history tables. Register columns mirror
// the canonical field set one to one; everything non-canonical rides in
// additional_info as JSON.
const Schema = `
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sds_register (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	product_name            TEXT,
	cas_number              TEXT,
	chemical_identification TEXT,
	health_hazards          TEXT,
	health_category         TEXT,
	physical_hazards        TEXT,
	physical_category       TEXT,
	flash_point             TEXT,
	appearance              TEXT,
	odour                   TEXT,
	colour                  TEXT,
	storage_use             TEXT,
	supplier_manufacturer   TEXT,
	dangerous_goods_class   TEXT,
	packing_group           TEXT,
	environmental_hazards   TEXT,
	first_aid_measures      TEXT,
	firefighting_measures   TEXT,
	source_file             TEXT,
	additional_info         TEXT,
	created_at              TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at              TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS extraction_history (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	filename          TEXT,
	timestamp         TEXT,
	extraction_method TEXT,
	success           INTEGER,
	fields_extracted  TEXT,
	additional_info   TEXT
);
`

const schemaVersion = "1"

// Open connects to the SQLite database at path, applies the schema, and
// records the schema version. Path ":memory:" works for tests.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("db.open", "path", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("db.open_failed", "path", path, "error", err)
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite is single-writer; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		logger.Error("db.schema_failed", "error", err)
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		"db_version", schemaVersion,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("record schema version: %w", err)
	}

	logger.Info("db.ready", "path", path)
	return db, nil
}
