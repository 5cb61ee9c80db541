package distree

// buildState is the explicit per-rank state machine Build walks through.
// Every transition except Encoded->LocallySorted is collective: every rank
// reaches the same state at the same point in the call sequence, since each
// one corresponds to a rendezvous-synchronous comm.Communicator call.
type buildState int

const (
	stateInit buildState = iota
	stateDomainReduced
	stateEncoded
	stateLocallySorted
	statePartitioned
	stateCompleted
	stateBalanced
	stateReady
)

func (s buildState) String() string {
	switch s {
	case stateInit:
		return "Init"
	case stateDomainReduced:
		return "DomainReduced"
	case stateEncoded:
		return "Encoded"
	case stateLocallySorted:
		return "LocallySorted"
	case statePartitioned:
		return "Partitioned"
	case stateCompleted:
		return "Completed"
	case stateBalanced:
		return "Balanced"
	case stateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}
