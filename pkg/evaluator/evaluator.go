package evaluator

import (
	"ProjectPoseForm/internal/entity"
	"ProjectPoseForm/pkg/landmark"
	"math"
)

const (
	MaxScore = 100.0
	MinScore = 0.0
)

const (
	MetricShoulderBalance = "shoulderBalance"
	MetricHipBalance      = "hipBalance"
	MetricPosture         = "posture"
	MetricSymmetry        = "symmetry"
)

type IEvaluator interface {
	Evaluate(points landmark.NamedPointSet, world *landmark.NamedPointSet) entity.FormAnalysisResult
	EvaluateTraced(points landmark.NamedPointSet, world *landmark.NamedPointSet, trace *Trace) entity.FormAnalysisResult
}

type evaluator struct {
	rules []Rule
}

// New builds an evaluator over the given rule table, or over DefaultRules when
// none are passed. The table is copied and never mutated afterwards, so one
// evaluator can be shared between goroutines.
func New(rules ...Rule) IEvaluator {
	if len(rules) == 0 {
		rules = defaultRules
	}

	owned := make([]Rule, len(rules))
	copy(owned, rules)

	return &evaluator{rules: owned}
}

func (e *evaluator) Evaluate(points landmark.NamedPointSet, world *landmark.NamedPointSet) entity.FormAnalysisResult {
	return e.EvaluateTraced(points, world, nil)
}

// EvaluateTraced is Evaluate with an optional trace. When trace is non-nil it
// receives the measurements and one outcome per rule.
func (e *evaluator) EvaluateTraced(points landmark.NamedPointSet, world *landmark.NamedPointSet, trace *Trace) entity.FormAnalysisResult {
	m := Measure(points, world)

	result := entity.FormAnalysisResult{
		FormScore:   MaxScore,
		Issues:      []string{},
		Suggestions: []string{},
		Metrics:     metricsOf(m),
	}

	if trace != nil {
		trace.reset(m, len(e.rules))
	}

	for _, rule := range e.rules {
		outcome := RuleOutcome{ID: rule.ID, Name: rule.Name}

		switch {
		case rule.RequiresWorld && !m.HasWorld:
			outcome.Skipped = true
		case rule.Check(m):
			outcome.Fired = true
			outcome.Deduction = rule.Deduction
			result.FormScore -= rule.Deduction
			result.Issues = append(result.Issues, rule.Issue)
			result.Suggestions = append(result.Suggestions, rule.Suggestion)
		}

		if trace != nil {
			trace.Outcomes = append(trace.Outcomes, outcome)
		}
	}

	result.FormScore = clamp(result.FormScore)

	return result
}

func metricsOf(m Measurements) map[string]float64 {
	symmetry := MaxScore
	if m.HasWorld {
		symmetry = MaxScore - m.KneeAngleDiff
	}

	return map[string]float64{
		MetricShoulderBalance: MaxScore - m.ShoulderTilt*1000,
		MetricHipBalance:      MaxScore - m.HipTilt*1000,
		MetricPosture:         MaxScore - m.TrunkOffset*500,
		MetricSymmetry:        symmetry,
	}
}

func clamp(score float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, score))
}
