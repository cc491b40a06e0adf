package batch

// State is where a run, or one pair within it, currently is.
type State int

const (
	Idle State = iota
	Running
	Composing
	Composed
	Skipped
	Packaging
	Done
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	Running:   "running",
	Composing: "composing",
	Composed:  "composed",
	Skipped:   "skipped",
	Packaging: "packaging",
	Done:      "done",
	Failed:    "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Progress is reported after every state change of the run.
type Progress struct {
	State     State
	Completed int
	Total     int

	// Set while State is Composing, Composed or Skipped.
	Style string
	Stamp string
}

// Percent returns Completed/Total in [0,100].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return 100 * float64(p.Completed) / float64(p.Total)
}
