// Package liquidation sells a valuated portfolio: it builds one swap per
// quoted holding, has them signed as a batch, and broadcasts them in order.
package liquidation

// State is the orchestrator's position in a liquidation run.
type State int

const (
	Idle State = iota
	Gathering
	AwaitingSignature
	Broadcasting
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Gathering:
		return "gathering"
	case AwaitingSignature:
		return "awaiting_signature"
	case Broadcasting:
		return "broadcasting"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Terminal reports whether no further transitions happen in this run.
func (s State) Terminal() bool { return s == Complete || s == Aborted }
