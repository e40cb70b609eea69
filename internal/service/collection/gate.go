package collection

// GateState is the derived print readiness of a session.
type GateState string

const (
	GateIncomplete GateState = "incomplete"
	GateReady      GateState = "ready"
)

// Evaluate derives the gate from its two inputs. Nothing else feeds it and it is never stored.
func Evaluate(hasSelection bool, canonicalKG float64) GateState {
	if hasSelection && canonicalKG > 0 {
		return GateReady
	}
	return GateIncomplete
}
