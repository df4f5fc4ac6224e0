package workflows

type ArticleInput struct {
	ObjectID int64 `json:"object_id"`
}

// Resolution is the curator's decision delivered through the resolution
// signal while the workflow is halted. Core stays nil when the curator gave
// no core opinion.
type Resolution struct {
	Approved bool   `json:"approved"`
	Core     *bool  `json:"core,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type ArticleProgress struct {
	ObjectID      int64             `json:"object_id"`
	CurrentStep   string            `json:"current_step"`
	Status        string            `json:"status"`
	Result        string            `json:"result,omitempty"`
	Arxiv         bool              `json:"arxiv"`
	Submission    bool              `json:"submission"`
	Experimental  bool              `json:"experimental"`
	Relevant      bool              `json:"relevant"`
	ControlNumber int64             `json:"control_number,omitempty"`
	HaltAction    string            `json:"halt_action,omitempty"`
	HaltMessage   string            `json:"halt_message,omitempty"`
	Steps         map[string]string `json:"steps"`
}
