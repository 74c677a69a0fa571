// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/models"
)

// recordColumns returns the full select list for a syncable type:
// bookkeeping columns first, then the registered domain columns.
func recordColumns(def registry.Definition) []string {
	cols := []string{"id", "user_id", "version", "created_at", "updated_at"}
	if def.SoftDelete {
		cols = append(cols, "deleted_at")
	}
	return append(cols, def.Columns...)
}

// domainFields filters client-submitted data down to the registered domain
// columns. Identity and bookkeeping keys sent by a client are dropped so
// they can never overwrite server-managed state.
func domainFields(def registry.Definition, data models.Fields) models.Fields {
	fields := make(models.Fields, len(def.Columns))
	for _, col := range def.Columns {
		if value, ok := data[col]; ok {
			fields[col] = value
		}
	}

	return fields
}

// scanRecord reads the current row of rows into a generic field map keyed by
// the given column list.
func scanRecord(rows *sql.Rows, cols []string) (models.Fields, error) {
	holders := make([]any, len(cols))
	for i := range holders {
		holders[i] = new(any)
	}

	if err := rows.Scan(holders...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record := make(models.Fields, len(cols))
	for i, col := range cols {
		record[col] = normalizeDBValue(*holders[i].(*any))
	}

	return record, nil
}

// scanRecords drains rows into field maps. The caller owns rows closing.
func scanRecords(rows *sql.Rows, cols []string) ([]models.Fields, error) {
	var records []models.Fields
	for rows.Next() {
		record, err := scanRecord(rows, cols)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// normalizeDBValue widens driver-specific values into JSON-friendly Go
// types. Text columns may arrive as []byte depending on the driver.
func normalizeDBValue(v any) any {
	switch tv := v.(type) {
	case []byte:
		return string(tv)
	default:
		return v
	}
}

// recordVersion extracts the version counter from a scanned record.
func recordVersion(record models.Fields) int64 {
	switch v := record["version"].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

// recordTime extracts a timestamp column from a scanned record. Drivers
// return time.Time for Postgres and either time.Time or a formatted string
// for SQLite.
func recordTime(record models.Fields, col string) (time.Time, bool) {
	switch v := record[col].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// recordDeleted reports whether a soft-delete marker is set on the record.
func recordDeleted(record models.Fields) bool {
	v, ok := record["deleted_at"]
	return ok && v != nil
}
