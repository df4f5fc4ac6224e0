package activities

type ValidateRecordInput struct {
	ObjectID int64 `json:"object_id"`
}

type ClassifyRecordInput struct {
	ObjectID int64 `json:"object_id"`
}

type ClassifyRecordOutput struct {
	Arxiv        bool `json:"arxiv"`
	Submission   bool `json:"submission"`
	Experimental bool `json:"experimental"`
}

type DownloadSubmissionFulltextInput struct {
	ObjectID int64 `json:"object_id"`
}

type DownloadSubmissionFulltextOutput struct {
	Key string `json:"key"`
}

type ExtractReferencesInput struct {
	ObjectID int64 `json:"object_id"`
}

type ExtractReferencesOutput struct {
	Count int `json:"count"`
}

type FixSubmissionNumberInput struct {
	ObjectID int64 `json:"object_id"`
}

type PopulateJournalCoverageInput struct {
	ObjectID int64 `json:"object_id"`
}

type PopulateJournalCoverageOutput struct {
	Coverage string `json:"coverage,omitempty"`
}

type SetRefereedInput struct {
	ObjectID int64 `json:"object_id"`
}

type CheckRelevanceInput struct {
	ObjectID int64 `json:"object_id"`
}

type CheckRelevanceOutput struct {
	Relevant bool `json:"relevant"`
	Accepted bool `json:"accepted"`
	Halt     bool `json:"halt"`
}

type HaltForApprovalInput struct {
	ObjectID int64 `json:"object_id"`
}

type HaltForApprovalOutput struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// ResolveDecisionInput carries a curator's resolution into the object's
// scratch state. Core is a pointer so "no opinion" stays distinguishable
// from an explicit false.
type ResolveDecisionInput struct {
	ObjectID int64  `json:"object_id"`
	Approved bool   `json:"approved"`
	Core     *bool  `json:"core,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type RejectRecordInput struct {
	ObjectID int64  `json:"object_id"`
	Reason   string `json:"reason"`
}

type AcceptRecordInput struct {
	ObjectID int64 `json:"object_id"`
}

type AcceptRecordOutput struct {
	ControlNumber int64 `json:"control_number"`
}

type PushRecordInput struct {
	ObjectID int64 `json:"object_id"`
}

type PushRecordOutput struct {
	Pushed bool `json:"pushed"`
}

type CompleteObjectInput struct {
	ObjectID int64  `json:"object_id"`
	Result   string `json:"result"`
}

type MarkErrorInput struct {
	ObjectID int64  `json:"object_id"`
	Reason   string `json:"reason"`
}
