package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hepflow/internal/models"
	"hepflow/internal/util"

	"github.com/jackc/pgx/v5"
)

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

func (r *JournalRepo) Upsert(ctx context.Context, j models.JournalRecord) (int64, error) {
	if j.ShortTitle == "" {
		return 0, fmt.Errorf("upsert journal: empty short_title")
	}
	record, err := json.Marshal(j)
	if err != nil {
		return 0, fmt.Errorf("marshal journal: %w", err)
	}
	var id int64
	err = r.db.Pool.QueryRow(ctx, `
INSERT INTO journals (short_title, record)
VALUES ($1, $2)
ON CONFLICT (short_title)
DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()
RETURNING journal_id`, j.ShortTitle, record).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert journal: %w", err)
	}
	return id, nil
}

func (r *JournalRepo) Get(ctx context.Context, id int64) (models.JournalRecord, error) {
	var record []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT record FROM journals WHERE journal_id = $1`, id).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.JournalRecord{}, fmt.Errorf("get journal %d: %w", id, util.ErrNotFound)
		}
		return models.JournalRecord{}, fmt.Errorf("get journal: %w", err)
	}
	var j models.JournalRecord
	if err := json.Unmarshal(record, &j); err != nil {
		return models.JournalRecord{}, fmt.Errorf("unmarshal journal: %w", err)
	}
	return j, nil
}

// ResolveRefs looks up the journal records behind $ref URLs of the form
// .../api/journals/<id>. Refs that do not parse or point at no row are
// skipped; only lookup failures are errors.
func (r *JournalRepo) ResolveRefs(ctx context.Context, refs []string) ([]models.JournalRecord, error) {
	out := make([]models.JournalRecord, 0, len(refs))
	for _, ref := range refs {
		id, ok := refJournalID(ref)
		if !ok {
			continue
		}
		j, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, util.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func refJournalID(ref string) (int64, bool) {
	ref = strings.TrimRight(ref, "/")
	i := strings.LastIndex(ref, "/")
	if i < 0 || i == len(ref)-1 {
		return 0, false
	}
	id, err := strconv.ParseInt(ref[i+1:], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
