package holdingpen

import (
	"time"

	"hepflow/internal/models"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusHalted    Status = "halted"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Object is one record moving through the curation pipeline: the bibliographic
// document plus the workflow-scoped scratch state and a curator-visible log.
type Object struct {
	ID         int64            `json:"id"`
	WorkflowID string           `json:"workflow_id,omitempty"`
	Status     Status           `json:"status"`
	Data       models.HEPRecord `json:"data"`
	Extra      ExtraData        `json:"extra_data"`
	BucketID   string           `json:"bucket_id,omitempty"`
	UserID     *int64           `json:"user_id,omitempty"`
	Logs       []LogEntry       `json:"logs,omitempty"`
	CreatedAt  time.Time        `json:"created_at,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at,omitempty"`
}

type LogEntry struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (o *Object) Log(msg string) {
	o.Logs = append(o.Logs, LogEntry{Level: "info", Message: msg, At: time.Now().UTC()})
}

func (o *Object) LogError(msg string) {
	o.Logs = append(o.Logs, LogEntry{Level: "error", Message: msg, At: time.Now().UTC()})
}
