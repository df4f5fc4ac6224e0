package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hepflow/internal/models"
	"hepflow/internal/util"

	"github.com/jackc/pgx/v5"
)

type RecordRepo struct {
	db *DB
}

func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Insert stores an accepted record and returns the assigned control number.
// When the record already carries a control number the stored copy is
// replaced instead.
func (r *RecordRepo) Insert(ctx context.Context, rec models.HEPRecord) (int64, error) {
	if rec.ControlNumber != 0 {
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("marshal record: %w", err)
		}
		tag, err := r.db.Pool.Exec(ctx, `
UPDATE records SET data = $2, updated_at = NOW() WHERE control_number = $1`, rec.ControlNumber, data)
		if err != nil {
			return 0, fmt.Errorf("update record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("update record %d: %w", rec.ControlNumber, util.ErrNotFound)
		}
		return rec.ControlNumber, nil
	}

	var cn int64
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO records (data) VALUES ('{}'::jsonb) RETURNING control_number`).Scan(&cn)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	rec.ControlNumber = cn
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}
	if _, err := r.db.Pool.Exec(ctx, `
UPDATE records SET data = $2 WHERE control_number = $1`, cn, data); err != nil {
		return 0, fmt.Errorf("store record data: %w", err)
	}
	return cn, nil
}

func (r *RecordRepo) Get(ctx context.Context, controlNumber int64) (models.HEPRecord, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT data FROM records WHERE control_number = $1`, controlNumber).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.HEPRecord{}, fmt.Errorf("get record %d: %w", controlNumber, util.ErrNotFound)
		}
		return models.HEPRecord{}, fmt.Errorf("get record: %w", err)
	}
	var rec models.HEPRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.HEPRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}
