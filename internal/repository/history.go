package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// HistoryEntry is one extraction audit row. FieldsExtracted maps field
// name to whether the run filled it.
type HistoryEntry struct {
	ID         int64
	Filename   string
	Timestamp  time.Time
	Method     string
	Success    bool
	Fields     map[string]bool
	Additional map[string]string
}

type HistoryRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewHistoryRepository(db *sql.DB, log *slog.Logger) *HistoryRepository {
	if log == nil {
		log = slog.Default()
	}
	return &HistoryRepository{db: db, log: log}
}

// Add appends one audit row. A zero Timestamp means now.
func (r *HistoryRepository) Add(ctx context.Context, entry HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	fieldsJSON, err := json.Marshal(entry.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	extraJSON, err := json.Marshal(entry.Additional)
	if err != nil {
		return fmt.Errorf("encode additional info: %w", err)
	}

	success := 0
	if entry.Success {
		success = 1
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO extraction_history
		(filename, timestamp, extraction_method, success, fields_extracted, additional_info)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Filename,
		entry.Timestamp.Format(time.RFC3339),
		entry.Method,
		success,
		string(fieldsJSON),
		string(extraJSON),
	)
	if err != nil {
		r.log.Error("db.history.insert_failed", "filename", entry.Filename, "error", err)
		return fmt.Errorf("insert history row: %w", err)
	}

	r.log.Info("db.history.recorded",
		"filename", entry.Filename,
		"method", entry.Method,
		"success", entry.Success,
	)
	return nil
}

// List returns the newest entries first, up to limit.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, timestamp, extraction_method, success, fields_extracted, additional_info
		FROM extraction_history ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry      HistoryEntry
			ts         string
			success    int
			fieldsJSON sql.NullString
			extraJSON  sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Filename, &ts, &entry.Method, &success, &fieldsJSON, &extraJSON); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.Success = success == 1
		if parsed, perr := time.Parse(time.RFC3339, ts); perr == nil {
			entry.Timestamp = parsed
		}
		if fieldsJSON.String != "" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &entry.Fields); err != nil {
				r.log.Warn("db.history.bad_fields", "id", entry.ID, "error", err)
			}
		}
		if extraJSON.String != "" {
			if err := json.Unmarshal([]byte(extraJSON.String), &entry.Additional); err != nil {
				r.log.Warn("db.history.bad_additional_info", "id", entry.ID, "error", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
