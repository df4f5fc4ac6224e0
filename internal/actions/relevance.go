package actions

import (
	"context"
	"fmt"

	"hepflow/internal/holdingpen"
	"hepflow/internal/models"
)

func IsRecordAccepted(obj *holdingpen.Object) bool {
	return obj.Extra.Flagged(holdingpen.KeyApproved)
}

func ShallHaltWorkflow(obj *holdingpen.Object) bool {
	return obj.Extra.Flagged(holdingpen.KeyHaltWorkflow)
}

// isAutoRejected is true when the relevance classifier rejected the record and
// found no core keywords to argue otherwise.
func isAutoRejected(obj *holdingpen.Object) bool {
	if obj.Extra.Relevance == nil || obj.Extra.Relevance.Decision != "Rejected" {
		return false
	}
	if obj.Extra.Classifier != nil && len(obj.Extra.Classifier.CompleteOutput.CoreKeywords) > 0 {
		return false
	}
	return true
}

// IsRecordRelevant decides whether the record deserves curator attention.
// The only irrelevant case is an auto-rejected submission.
func IsRecordRelevant(obj *holdingpen.Object) bool {
	return !(IsSubmission(obj) && isAutoRejected(obj))
}

// AddCore copies the core decision from scratch state onto the record,
// last-writer-wins, including an explicit false.
func AddCore(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
	if obj.Extra.Core != nil {
		v := *obj.Extra.Core
		obj.Data.Core = &v
	}
	return nil
}

// RejectRecord returns a step that marks the object rejected with the given
// reason and writes the audit event. The relevance prediction in scratch
// state is left untouched and snapshotted into the event.
func (a *Actions) RejectRecord(reason string) StepFunc {
	return func(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
		approved := false
		obj.Extra.Approved = &approved
		obj.Extra.Reason = reason
		obj.Log(reason)

		err := a.audit.LogAction(ctx, models.AuditEntry{
			Action:              "reject_record",
			RelevancePrediction: obj.Extra.Relevance,
			ObjectID:            obj.ID,
			UserID:              obj.UserID,
			Source:              "workflow",
		})
		if err != nil {
			return fmt.Errorf("log reject_record action: %w", err)
		}
		a.log.Infow("record rejected", "object_id", obj.ID, "reason", reason)
		return nil
	}
}

// HaltRecord returns a step that pauses the workflow for curator review.
// Empty arguments fall back to the configured defaults; halt_action and
// halt_message in scratch state override both.
func (a *Actions) HaltRecord(action, message string) StepFunc {
	if action == "" {
		action = a.haltAction
	}
	if message == "" {
		message = a.haltMessage
	}
	return func(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
		act, msg := action, message
		if obj.Extra.HaltAction != "" {
			act = obj.Extra.HaltAction
		}
		if obj.Extra.HaltMessage != "" {
			msg = obj.Extra.HaltMessage
		}
		eng.Halt(act, msg)
		return nil
	}
}
