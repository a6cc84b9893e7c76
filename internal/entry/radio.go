package entry

// RadioState is the state of the Wi-Fi radio subsystem.
type RadioState int

const (
	RadioDisabled RadioState = iota
	RadioEnabled
)

func (s RadioState) String() string {
	if s == RadioEnabled {
		return "enabled"
	}
	return "disabled"
}

// RadioStateGate tracks whether the radio is enabled. When disabled, the
// projector forces visibility to unreachable regardless of the other stores.
type RadioStateGate struct {
	state RadioState
}

// NewRadioStateGate creates a gate that assumes the radio is up until the
// first state event says otherwise.
func NewRadioStateGate() *RadioStateGate {
	return &RadioStateGate{state: RadioEnabled}
}

// Set records the current radio state.
func (g *RadioStateGate) Set(state RadioState) {
	g.state = state
}

// IsEnabled reports whether the radio is up.
func (g *RadioStateGate) IsEnabled() bool {
	return g.state == RadioEnabled
}
