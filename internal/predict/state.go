package predict

// Phase names the variant of a State.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// State is the request state of a form. It is exactly one of Idle,
// Pending, Succeeded or Failed, so a pending form can never carry a stale
// result or message.
type State interface {
	Phase() Phase
	isState()
}

// Idle means nothing has been submitted yet.
type Idle struct{}

// Pending means a request is in flight.
type Pending struct{}

// Succeeded holds the result of the last request.
type Succeeded struct {
	Result Result
}

// Failed holds the message explaining why the last request produced no estimate.
type Failed struct {
	Message string
}

func (Idle) Phase() Phase      { return PhaseIdle }
func (Pending) Phase() Phase   { return PhasePending }
func (Succeeded) Phase() Phase { return PhaseSucceeded }
func (Failed) Phase() Phase    { return PhaseFailed }

func (Idle) isState()      {}
func (Pending) isState()   {}
func (Succeeded) isState() {}
func (Failed) isState()    {}

// Settled reports whether s is a final outcome of a submission.
func Settled(s State) bool {
	switch s.(type) {
	case Succeeded, Failed:
		return true
	}
	return false
}
