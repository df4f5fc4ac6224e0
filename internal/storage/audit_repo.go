package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"hepflow/internal/models"
)

type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// LogAction appends one row to the workflow audit trail.
func (r *AuditRepo) LogAction(ctx context.Context, e models.AuditEntry) error {
	var payload []byte
	if e.RelevancePrediction != nil {
		var err error
		payload, err = json.Marshal(e.RelevancePrediction)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO workflows_audit (action, payload, object_id, user_id, source)
VALUES ($1, $2, $3, $4, $5)`,
		e.Action, payload, e.ObjectID, e.UserID, e.Source)
	if err != nil {
		return fmt.Errorf("insert audit action: %w", err)
	}
	return nil
}
