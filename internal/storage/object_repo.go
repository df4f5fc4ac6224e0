package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hepflow/internal/holdingpen"
	"hepflow/internal/util"

	"github.com/jackc/pgx/v5"
)

type ObjectRepo struct {
	db *DB
}

func NewObjectRepo(db *DB) *ObjectRepo {
	return &ObjectRepo{db: db}
}

// Create inserts a new holdingpen object and returns its id.
func (r *ObjectRepo) Create(ctx context.Context, obj holdingpen.Object) (int64, error) {
	data, extra, logs, err := marshalObject(obj)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.Pool.QueryRow(ctx, `
INSERT INTO holdingpen_objects (workflow_id, status, data, extra_data, bucket_id, user_id, logs)
VALUES (NULLIF($1,''), $2, $3, $4, NULLIF($5,''), $6, $7)
RETURNING object_id`,
		obj.WorkflowID, string(obj.Status), data, extra, obj.BucketID, obj.UserID, logs).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert holdingpen object: %w", err)
	}
	return id, nil
}

// Save persists the mutable parts of an object after a step ran over it.
func (r *ObjectRepo) Save(ctx context.Context, obj holdingpen.Object) error {
	data, extra, logs, err := marshalObject(obj)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE holdingpen_objects
SET workflow_id = NULLIF($2,''),
    status = $3,
    data = $4,
    extra_data = $5,
    bucket_id = NULLIF($6,''),
    user_id = $7,
    logs = $8,
    updated_at = NOW()
WHERE object_id = $1`,
		obj.ID, obj.WorkflowID, string(obj.Status), data, extra, obj.BucketID, obj.UserID, logs)
	if err != nil {
		return fmt.Errorf("update holdingpen object: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update holdingpen object %d: %w", obj.ID, util.ErrNotFound)
	}
	return nil
}

func (r *ObjectRepo) Get(ctx context.Context, id int64) (holdingpen.Object, error) {
	var (
		obj        holdingpen.Object
		status     string
		workflowID *string
		bucketID   *string
		data       []byte
		extra      []byte
		logs       []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
SELECT object_id, workflow_id, status, data, extra_data, bucket_id, user_id, logs, created_at, updated_at
FROM holdingpen_objects
WHERE object_id = $1`, id).
		Scan(&obj.ID, &workflowID, &status, &data, &extra, &bucketID, &obj.UserID, &logs, &obj.CreatedAt, &obj.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holdingpen.Object{}, fmt.Errorf("get holdingpen object %d: %w", id, util.ErrNotFound)
		}
		return holdingpen.Object{}, fmt.Errorf("get holdingpen object: %w", err)
	}
	obj.Status = holdingpen.Status(status)
	if workflowID != nil {
		obj.WorkflowID = *workflowID
	}
	if bucketID != nil {
		obj.BucketID = *bucketID
	}
	if err := unmarshalObject(&obj, data, extra, logs); err != nil {
		return holdingpen.Object{}, err
	}
	return obj, nil
}

// List returns objects newest-first, optionally filtered by status.
func (r *ObjectRepo) List(ctx context.Context, status string, limit int) ([]holdingpen.Object, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT object_id, workflow_id, status, data, extra_data, bucket_id, user_id, logs, created_at, updated_at
FROM holdingpen_objects
WHERE ($1 = '' OR status = $1)
ORDER BY updated_at DESC
LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list holdingpen objects: %w", err)
	}
	defer rows.Close()

	out := make([]holdingpen.Object, 0)
	for rows.Next() {
		var (
			obj        holdingpen.Object
			statusCol  string
			workflowID *string
			bucketID   *string
			data       []byte
			extra      []byte
			logs       []byte
		)
		if err := rows.Scan(&obj.ID, &workflowID, &statusCol, &data, &extra, &bucketID, &obj.UserID, &logs, &obj.CreatedAt, &obj.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan holdingpen object: %w", err)
		}
		obj.Status = holdingpen.Status(statusCol)
		if workflowID != nil {
			obj.WorkflowID = *workflowID
		}
		if bucketID != nil {
			obj.BucketID = *bucketID
		}
		if err := unmarshalObject(&obj, data, extra, logs); err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holdingpen objects: %w", err)
	}
	return out, nil
}

func marshalObject(obj holdingpen.Object) (data, extra, logs []byte, err error) {
	if data, err = json.Marshal(obj.Data); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal object data: %w", err)
	}
	if extra, err = json.Marshal(obj.Extra); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal object extra data: %w", err)
	}
	if obj.Logs == nil {
		obj.Logs = []holdingpen.LogEntry{}
	}
	if logs, err = json.Marshal(obj.Logs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal object logs: %w", err)
	}
	return data, extra, logs, nil
}

func unmarshalObject(obj *holdingpen.Object, data, extra, logs []byte) error {
	if err := json.Unmarshal(data, &obj.Data); err != nil {
		return fmt.Errorf("unmarshal object data: %w", err)
	}
	if err := json.Unmarshal(extra, &obj.Extra); err != nil {
		return fmt.Errorf("unmarshal object extra data: %w", err)
	}
	if len(logs) > 0 {
		if err := json.Unmarshal(logs, &obj.Logs); err != nil {
			return fmt.Errorf("unmarshal object logs: %w", err)
		}
	}
	return nil
}
