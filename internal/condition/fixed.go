package condition

// Fixed decides conditions from literal sets of conditions known to be
// true or false for one build target. It learns nothing from the source.
type Fixed struct {
	known map[string]Tristate
}

// NewFixed creates a decider from the true and false condition sets. A
// condition present in both sets is treated as true.
func NewFixed(trueConditions, falseConditions []string) *Fixed {
	f := &Fixed{known: make(map[string]Tristate, len(trueConditions)+len(falseConditions))}
	for _, c := range falseConditions {
		f.known[c] = False
	}
	for _, c := range trueConditions {
		f.known[c] = True
	}
	return f
}

// Decide implements Decider.
func (f *Fixed) Decide(condition string) Tristate {
	return f.known[condition]
}

// Observe implements Decider.
func (f *Fixed) Observe(string) {}

// BeginPass implements Decider.
func (f *Fixed) BeginPass() {}
