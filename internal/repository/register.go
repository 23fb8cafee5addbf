package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// registerColumns pairs each register column with its canonical field, in
// insert and select order.
var registerColumns = []struct {
	Column string
	Field  string
}{
	{"product_name", sds.FieldProductName},
	{"cas_number", sds.FieldCASNumber},
	{"chemical_identification", sds.FieldChemicalID},
	{"health_hazards", sds.FieldHealthHazards},
	{"health_category", sds.FieldHealthCat},
	{"physical_hazards", sds.FieldPhysHazards},
	{"physical_category", sds.FieldPhysCat},
	{"flash_point", sds.FieldFlashPoint},
	{"appearance", sds.FieldAppearance},
	{"odour", sds.FieldOdour},
	{"colour", sds.FieldColour},
	{"storage_use", sds.FieldStorageUse},
	{"supplier_manufacturer", sds.FieldSupplier},
	{"dangerous_goods_class", sds.FieldDGClass},
	{"packing_group", sds.FieldPackingGroup},
	{"environmental_hazards", sds.FieldEnvHazards},
	{"first_aid_measures", sds.FieldFirstAid},
	{"firefighting_measures", sds.FieldFirefighting},
}

// RegisterEntry is one stored register row.
type RegisterEntry struct {
	ID         int64
	Record     sds.Record
	SourceFile string
	Additional map[string]string
}

type RegisterRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewRegisterRepository(db *sql.DB, log *slog.Logger) *RegisterRepository {
	if log == nil {
		log = slog.Default()
	}
	return &RegisterRepository{db: db, log: log}
}

// Insert stores a canonical record. Non-canonical keys riding on the
// record (hazard statements, provenance tags) land in additional_info.
func (r *RegisterRepository) Insert(ctx context.Context, rec sds.Record, sourceFile string) (int64, error) {
	additional := make(map[string]string)
	canonical := make(map[string]bool, len(sds.Fields))
	for _, f := range sds.Fields {
		canonical[f] = true
	}
	for k, v := range rec {
		if !canonical[k] && v != "" && k != sds.FieldSourceFile {
			additional[k] = v
		}
	}
	extraJSON, err := json.Marshal(additional)
	if err != nil {
		return 0, fmt.Errorf("encode additional info: %w", err)
	}

	query := `INSERT INTO sds_register (`
	args := make([]any, 0, len(registerColumns)+2)
	for i, rc := range registerColumns {
		if i > 0 {
			query += ", "
		}
		query += rc.Column
		args = append(args, rec[rc.Field])
	}
	query += ", source_file, additional_info) VALUES (?"
	for i := 1; i < len(registerColumns)+2; i++ {
		query += ", ?"
	}
	query += ")"
	args = append(args, sourceFile, string(extraJSON))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("db.register.insert_failed", "source_file", sourceFile, "error", err)
		return 0, fmt.Errorf("insert register row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("register row id: %w", err)
	}

	r.log.Info("db.register.inserted", "id", id, "source_file", sourceFile)
	return id, nil
}

// List returns every register row, oldest first.
func (r *RegisterRepository) List(ctx context.Context) ([]RegisterEntry, error) {
	query := `SELECT id`
	for _, rc := range registerColumns {
		query += ", " + rc.Column
	}
	query += `, source_file, additional_info FROM sds_register ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query register: %w", err)
	}
	defer rows.Close()

	var entries []RegisterEntry
	for rows.Next() {
		entry := RegisterEntry{Record: sds.NewRecord()}
		values := make([]sql.NullString, len(registerColumns))
		dest := make([]any, 0, len(registerColumns)+3)
		dest = append(dest, &entry.ID)
		for i := range values {
			dest = append(dest, &values[i])
		}
		var sourceFile, extraJSON sql.NullString
		dest = append(dest, &sourceFile, &extraJSON)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan register row: %w", err)
		}
		for i, rc := range registerColumns {
			entry.Record[rc.Field] = values[i].String
		}
		entry.SourceFile = sourceFile.String
		if extraJSON.String != "" {
			if err := json.Unmarshal([]byte(extraJSON.String), &entry.Additional); err != nil {
				r.log.Warn("db.register.bad_additional_info", "id", entry.ID, "error", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes every register row. Used when a batch run replaces the
// register wholesale.
func (r *RegisterRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sds_register`); err != nil {
		return fmt.Errorf("clear register: %w", err)
	}
	r.log.Info("db.register.cleared")
	return nil
}
