package form

// Status is the submission lifecycle of a contact form
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "success"
	case StatusFailed:
		return "error"
	default:
		return "unknown"
	}
}

// State is the controller's submission state. ErrorMessage is only set
// when Status is StatusFailed.
type State struct {
	Status       Status
	ErrorMessage string
}

// IsLoading reports whether a submission is in flight
func (s State) IsLoading() bool {
	return s.Status == StatusSubmitting
}

func idle() State { return State{Status: StatusIdle} }
func submitting() State { return State{Status: StatusSubmitting} }
func succeeded() State { return State{Status: StatusSucceeded} }

func failed(msg string) State {
	return State{Status: StatusFailed, ErrorMessage: msg}
}

// Fields mirrors the contact form inputs and the request body
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Snapshot is everything a renderer needs to draw the form
type Snapshot struct {
	Fields Fields
	State  State
}
