package evaluator

import (
	"math"
	"testing"

	"ProjectPoseForm/internal/entity"
	"ProjectPoseForm/pkg/landmark"
	"ProjectPoseForm/pkg/landmark/landmarktest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	pose  []entity.Landmark
	world []entity.WorldLandmark
}

func neutralFrame() frame {
	return frame{pose: landmarktest.NeutralPose(), world: landmarktest.NeutralWorld()}
}

func (f frame) evaluate(t *testing.T, e IEvaluator) (entity.FormAnalysisResult, *Trace) {
	t.Helper()
	trace := &Trace{}
	var world *landmark.NamedPointSet
	if f.world != nil {
		world = landmarktest.MustNamedWorld(f.world)
	}
	return e.EvaluateTraced(landmarktest.MustNamed(f.pose), world, trace), trace
}

// violations moves the minimum number of points needed to trigger exactly one
// rule of the default table.
var violations = map[int]func(f *frame){
	1: func(f *frame) { f.pose[landmark.LeftShoulder].Y = 0.36 },
	2: func(f *frame) { f.pose[landmark.LeftHip].Y = 0.66 },
	3: func(f *frame) {
		f.pose[landmark.LeftHip].X = 0.6
		f.pose[landmark.RightHip].X = 0.7
	},
	4: func(f *frame) {
		f.world[landmark.LeftAnkle] = entity.WorldLandmark{X: 0.35, Y: 0.35}
		f.world[landmark.RightAnkle] = entity.WorldLandmark{X: -0.35, Y: 0.35}
	},
	5: func(f *frame) {
		rad := 75 * math.Pi / 180
		f.world[landmark.RightAnkle] = entity.WorldLandmark{X: 0.1 + 0.45*math.Cos(rad), Y: 0.45 + 0.45*math.Sin(rad)}
	},
	6: func(f *frame) {
		f.pose[landmark.LeftWrist].X = 0.45
		f.pose[landmark.RightWrist].X = 0.55
	},
	7: func(f *frame) {
		f.pose[landmark.LeftWrist].X = 0.0
		f.pose[landmark.RightWrist].X = 1.0
	},
	8: func(f *frame) { f.pose[landmark.Nose].X = 0.65 },
}

func TestEvaluate_NeutralPose(t *testing.T) {
	result, trace := neutralFrame().evaluate(t, New())

	assert.Equal(t, 100.0, result.FormScore)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Suggestions)
	assert.NotNil(t, result.Issues)
	assert.NotNil(t, result.Suggestions)
	assert.Empty(t, trace.Fired())
	assert.Len(t, trace.Outcomes, len(DefaultRules()))
}

func TestEvaluate_SingleRule(t *testing.T) {
	for _, rule := range DefaultRules() {
		t.Run(rule.Name, func(t *testing.T) {
			mutate, ok := violations[rule.ID]
			require.True(t, ok, "no violation fixture for rule %d", rule.ID)

			f := neutralFrame()
			mutate(&f)
			result, trace := f.evaluate(t, New())

			assert.Equal(t, MaxScore-rule.Deduction, result.FormScore)
			assert.Equal(t, []string{rule.Issue}, result.Issues)
			assert.Equal(t, []string{rule.Suggestion}, result.Suggestions)
			assert.Equal(t, []string{rule.Name}, trace.Fired())
		})
	}
}

func TestEvaluate_ShoulderImbalance(t *testing.T) {
	f := neutralFrame()
	f.world = nil
	f.pose[landmark.LeftShoulder].Y = 0.36

	result, _ := f.evaluate(t, New())

	assert.Equal(t, 90.0, result.FormScore)
	assert.Equal(t, []string{"肩の高さが不均等です"}, result.Issues)
	assert.InDelta(t, 40.0, result.Metrics[MetricShoulderBalance], 1e-9)
}

func TestEvaluate_ShoulderBoundary(t *testing.T) {
	tests := []struct {
		name  string
		left  float64
		fired bool
	}{
		{"exactly at threshold", 0.05, false},
		{"just above threshold", 0.0500001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := neutralFrame()
			f.pose[landmark.LeftShoulder].Y = tt.left
			f.pose[landmark.RightShoulder].Y = 0

			result, trace := f.evaluate(t, New())

			if tt.fired {
				assert.Equal(t, 90.0, result.FormScore)
				assert.Equal(t, []string{"shoulder_imbalance"}, trace.Fired())
			} else {
				assert.Equal(t, 100.0, result.FormScore)
				assert.Empty(t, result.Issues)
			}
		})
	}
}

func TestEvaluate_WithoutWorldLandmarks(t *testing.T) {
	f := neutralFrame()
	f.world = nil
	// Fold both legs in the image plane; only world data may drive knee rules.
	f.pose[landmark.LeftAnkle] = entity.Landmark{X: 0.6, Y: 0.6}
	f.pose[landmark.RightAnkle] = entity.Landmark{X: 0.3, Y: 0.7}

	result, trace := f.evaluate(t, New())

	assert.Equal(t, 100.0, result.FormScore)
	assert.Empty(t, result.Issues)
	assert.Equal(t, []string{"deep_knee_bend", "knee_asymmetry"}, trace.Skipped())
	assert.Equal(t, 100.0, result.Metrics[MetricSymmetry])
}

func TestEvaluate_Metrics(t *testing.T) {
	f := neutralFrame()
	violations[5](&f)
	f.pose[landmark.LeftHip].Y = 0.62
	f.pose[landmark.LeftShoulder].X = 0.46

	result, trace := f.evaluate(t, New())

	assert.InDelta(t, 100.0, result.Metrics[MetricShoulderBalance], 1e-9)
	assert.InDelta(t, 80.0, result.Metrics[MetricHipBalance], 1e-9)
	assert.InDelta(t, 85.0, result.Metrics[MetricPosture], 1e-9)
	assert.InDelta(t, 85.0, result.Metrics[MetricSymmetry], 1e-6)
	assert.InDelta(t, 15.0, trace.Measurements.KneeAngleDiff, 1e-6)
	assert.Len(t, result.Metrics, 4)
}

func TestEvaluate_Monotonic(t *testing.T) {
	f := neutralFrame()
	e := New()

	previous, _ := f.evaluate(t, e)
	for _, id := range []int{1, 2, 3, 5, 6, 8} {
		violations[id](&f)
		current, _ := f.evaluate(t, e)

		assert.LessOrEqual(t, current.FormScore, previous.FormScore, "rule %d raised the score", id)
		assert.Len(t, current.Suggestions, len(current.Issues))
		previous = current
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	f := neutralFrame()
	violations[3](&f)
	violations[4](&f)

	first, _ := f.evaluate(t, New())
	second, _ := f.evaluate(t, New())

	assert.Equal(t, first, second)
}

func TestEvaluate_Clamped(t *testing.T) {
	always := func(Measurements) bool { return true }
	e := New(
		Rule{ID: 1, Name: "a", Deduction: 70, Issue: "a", Suggestion: "a", Check: always},
		Rule{ID: 2, Name: "b", Deduction: 70, Issue: "b", Suggestion: "b", Check: always},
	)

	result, _ := neutralFrame().evaluate(t, e)

	assert.Equal(t, 0.0, result.FormScore)
	assert.Len(t, result.Issues, 2)
	assert.Len(t, result.Suggestions, 2)
}

func TestEvaluate_ScoreBounds(t *testing.T) {
	e := New()
	for seed := 0; seed < 200; seed++ {
		f := neutralFrame()
		for i := range f.pose {
			f.pose[i].X = math.Mod(float64(seed*31+i*17), 100) / 100
			f.pose[i].Y = math.Mod(float64(seed*13+i*7), 100) / 100
		}
		for i := range f.world {
			f.world[i].X = math.Mod(float64(seed*7+i*3), 100)/100 - 0.5
			f.world[i].Y = math.Mod(float64(seed*11+i*5), 100)/100 - 0.5
		}

		result, _ := f.evaluate(t, e)

		assert.GreaterOrEqual(t, result.FormScore, 0.0)
		assert.LessOrEqual(t, result.FormScore, 100.0)
		assert.Equal(t, len(result.Issues), len(result.Suggestions))
	}
}

func TestEvaluate_ArmRulesExclusive(t *testing.T) {
	e := New()
	for _, width := range []float64{0, 0.05, 0.1, 0.3, 0.6, 1.0} {
		f := neutralFrame()
		f.pose[landmark.LeftWrist].X = 0.5 - width/2
		f.pose[landmark.RightWrist].X = 0.5 + width/2

		_, trace := f.evaluate(t, e)

		fired := trace.Fired()
		assert.False(t, contains(fired, "arms_narrow") && contains(fired, "arms_wide"), "width %v", width)
	}
}

func TestDefaultRules_Table(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 8)

	deductions := []float64{10, 10, 15, 20, 15, 10, 10, 5}
	for i, rule := range rules {
		assert.Equal(t, i+1, rule.ID)
		assert.Equal(t, deductions[i], rule.Deduction)
		assert.Equal(t, rule.ID == 4 || rule.ID == 5, rule.RequiresWorld)
		assert.NotEmpty(t, rule.Issue)
		assert.NotEmpty(t, rule.Suggestion)
	}

	rules[0].Deduction = 99
	assert.Equal(t, 10.0, DefaultRules()[0].Deduction)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
