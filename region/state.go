package region

// State is the classification of a persisted region.
type State int

const (
	// StateErased means the region holds no snapshot and may be written.
	StateErased State = iota

	// StateValid means the region holds a snapshot.
	StateValid

	// StateForeign means the region holds neither, e.g. leftovers of an
	// OTA image or a different firmware's data.
	StateForeign
)

// Classify maps a sentinel word to a State.
func Classify(sentinel uint32) State {
	switch sentinel {
	case ErasedWord:
		return StateErased
	case Magic:
		return StateValid
	default:
		return StateForeign
	}
}

func (s State) String() string {
	switch s {
	case StateErased:
		return "erased"
	case StateValid:
		return "valid"
	case StateForeign:
		return "foreign"
	default:
		return "unknown"
	}
}
