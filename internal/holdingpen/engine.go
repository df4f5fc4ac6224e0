package holdingpen

// Engine is the step-facing handle on the surrounding workflow. Steps that
// need curator attention call Halt; the activity layer reads the recorded
// request and parks the object.
type Engine struct {
	halt *HaltRequest
}

type HaltRequest struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Halt(action, message string) {
	e.halt = &HaltRequest{Action: action, Message: message}
}

func (e *Engine) Halted() (HaltRequest, bool) {
	if e.halt == nil {
		return HaltRequest{}, false
	}
	return *e.halt, true
}
