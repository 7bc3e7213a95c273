package correlate

// Direction controls which way the scan moves relative to an outcome event
type Direction int

const (
	// LookBack scans strictly backward from the outcome
	LookBack Direction = iota
	// LookAround scans backward and forward, preferring the nearer candidate
	LookAround
)

// Mode selects what kind of result a rule produces
type Mode int

const (
	// Association yields trigger+outcome pairs
	Association Mode = iota
	// Exclusion yields time ranges to avoid
	Exclusion
)

// Rule parameterizes one correlation pass. It is not mutated after creation;
// each extraction kind is a Rule value, not a separate code path.
type Rule struct {
	Name      string
	Triggers  map[string]struct{}
	Outcomes  map[string]struct{}
	Window    float64 // look-back bound in seconds (association)
	Before    float64 // exclusion extent before the outcome, seconds
	After     float64 // exclusion extent after the outcome, seconds
	Direction Direction
	Mode      Mode
}
