package holdingpen

import (
	"fmt"

	"hepflow/internal/models"
)

// Flag keys routed onto the typed ExtraData fields. Steps address scratch
// state by key; anything outside this set lands in the free-form Flags bag.
const (
	KeyCore            = "core"
	KeyApproved        = "approved"
	KeyHaltWorkflow    = "halt_workflow"
	KeyHaltAction      = "halt_action"
	KeyHaltMessage     = "halt_message"
	KeyReason          = "reason"
	KeyJournalCoverage = "journal_coverage"
	KeySubmissionPDF   = "submission_pdf"
)

type ClassifierResults struct {
	CompleteOutput ClassifierOutput `json:"complete_output"`
}

type ClassifierOutput struct {
	CoreKeywords []string `json:"core_keywords,omitempty"`
}

type Formdata struct {
	References string `json:"references,omitempty"`
}

// ExtraData is the workflow-scoped scratch state. Decisions each stage hands
// to the next live in named fields; ad-hoc marks go through Flags.
type ExtraData struct {
	Core            *bool                       `json:"core,omitempty"`
	Approved        *bool                       `json:"approved,omitempty"`
	HaltWorkflow    bool                        `json:"halt_workflow,omitempty"`
	HaltAction      string                      `json:"halt_action,omitempty"`
	HaltMessage     string                      `json:"halt_message,omitempty"`
	Reason          string                      `json:"reason,omitempty"`
	JournalCoverage string                      `json:"journal_coverage,omitempty"`
	SubmissionPDF   string                      `json:"submission_pdf,omitempty"`
	Relevance       *models.RelevancePrediction `json:"relevance_prediction,omitempty"`
	Classifier      *ClassifierResults          `json:"classifier_results,omitempty"`
	Formdata        *Formdata                   `json:"formdata,omitempty"`
	Flags           map[string]any              `json:"flags,omitempty"`
}

// SetFlag writes key unconditionally, overwriting any previous value.
func (e *ExtraData) SetFlag(key string, value any) {
	switch key {
	case KeyCore:
		b := Truthy(value)
		e.Core = &b
	case KeyApproved:
		b := Truthy(value)
		e.Approved = &b
	case KeyHaltWorkflow:
		e.HaltWorkflow = Truthy(value)
	case KeyHaltAction:
		e.HaltAction = asString(value)
	case KeyHaltMessage:
		e.HaltMessage = asString(value)
	case KeyReason:
		e.Reason = asString(value)
	case KeyJournalCoverage:
		e.JournalCoverage = asString(value)
	case KeySubmissionPDF:
		e.SubmissionPDF = asString(value)
	default:
		if e.Flags == nil {
			e.Flags = map[string]any{}
		}
		e.Flags[key] = value
	}
}

// Flag reports the value stored under key and whether the key is set.
func (e *ExtraData) Flag(key string) (any, bool) {
	switch key {
	case KeyCore:
		if e.Core == nil {
			return nil, false
		}
		return *e.Core, true
	case KeyApproved:
		if e.Approved == nil {
			return nil, false
		}
		return *e.Approved, true
	case KeyHaltWorkflow:
		return e.HaltWorkflow, e.HaltWorkflow
	case KeyHaltAction:
		return e.HaltAction, e.HaltAction != ""
	case KeyHaltMessage:
		return e.HaltMessage, e.HaltMessage != ""
	case KeyReason:
		return e.Reason, e.Reason != ""
	case KeyJournalCoverage:
		return e.JournalCoverage, e.JournalCoverage != ""
	case KeySubmissionPDF:
		return e.SubmissionPDF, e.SubmissionPDF != ""
	default:
		v, ok := e.Flags[key]
		return v, ok
	}
}

// Flagged reports whether key is set to a truthy value.
func (e *ExtraData) Flagged(key string) bool {
	v, ok := e.Flag(key)
	return ok && Truthy(v)
}

// Truthy mirrors the loose truthiness the scratch state historically carried:
// absent, false, empty strings, zero numbers and empty collections are falsy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
