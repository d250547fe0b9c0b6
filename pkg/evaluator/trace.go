package evaluator

// Trace is a diagnostic record of one evaluation. Callers that want it
// allocate one and pass it to EvaluateTraced; nothing is kept otherwise.
type Trace struct {
	Measurements Measurements
	Outcomes     []RuleOutcome
}

type RuleOutcome struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Fired     bool    `json:"fired"`
	Skipped   bool    `json:"skipped"`
	Deduction float64 `json:"deduction"`
}

func (t *Trace) reset(m Measurements, size int) {
	t.Measurements = m
	t.Outcomes = make([]RuleOutcome, 0, size)
}

// Fired returns the names of the rules that deducted points, in order.
func (t *Trace) Fired() []string {
	var names []string
	for _, o := range t.Outcomes {
		if o.Fired {
			names = append(names, o.Name)
		}
	}
	return names
}

// Skipped returns the names of the rules that were not evaluated because the
// frame had no world-space landmarks.
func (t *Trace) Skipped() []string {
	var names []string
	for _, o := range t.Outcomes {
		if o.Skipped {
			names = append(names, o.Name)
		}
	}
	return names
}
