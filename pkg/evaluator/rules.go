package evaluator

const (
	tiltThreshold        = 0.05
	trunkOffsetThreshold = 0.10
	headOffsetThreshold  = 0.10
	minKneeAngle         = 90.0
	kneeAsymmetryLimit   = 10.0
	narrowArmsRatio      = 0.8
	wideArmsRatio        = 2.5
)

// Rule is one row of the deduction table. Check reports whether the rule is
// violated; it is never called for world-space rules when the frame has no
// world landmarks.
type Rule struct {
	ID            int
	Name          string
	Deduction     float64
	Issue         string
	Suggestion    string
	RequiresWorld bool
	Check         func(m Measurements) bool
}

var defaultRules = []Rule{
	{
		ID:         1,
		Name:       "shoulder_imbalance",
		Deduction:  10,
		Issue:      "肩の高さが不均等です",
		Suggestion: "両肩の高さを揃えるように意識してください",
		Check: func(m Measurements) bool {
			return m.ShoulderTilt > tiltThreshold
		},
	},
	{
		ID:         2,
		Name:       "hip_imbalance",
		Deduction:  10,
		Issue:      "腰の高さが不均等です",
		Suggestion: "骨盤を水平に保つように意識してください",
		Check: func(m Measurements) bool {
			return m.HipTilt > tiltThreshold
		},
	},
	{
		ID:         3,
		Name:       "trunk_lean",
		Deduction:  15,
		Issue:      "上体が前後に傾いています",
		Suggestion: "背筋を伸ばし、体幹をまっすぐに保ってください",
		Check: func(m Measurements) bool {
			return m.TrunkOffset > trunkOffsetThreshold
		},
	},
	{
		ID:            4,
		Name:          "deep_knee_bend",
		Deduction:     20,
		Issue:         "膝が深く曲がりすぎています",
		Suggestion:    "膝の角度を90度以上に保ってください",
		RequiresWorld: true,
		Check: func(m Measurements) bool {
			return m.LeftKneeAngle < minKneeAngle || m.RightKneeAngle < minKneeAngle
		},
	},
	{
		ID:            5,
		Name:          "knee_asymmetry",
		Deduction:     15,
		Issue:         "左右の膝の曲がり方が非対称です",
		Suggestion:    "左右均等に体重をかけるようにしてください",
		RequiresWorld: true,
		Check: func(m Measurements) bool {
			return m.KneeAngleDiff > kneeAsymmetryLimit
		},
	},
	{
		ID:         6,
		Name:       "arms_narrow",
		Deduction:  10,
		Issue:      "腕の幅が狭すぎます",
		Suggestion: "手の幅を肩幅より少し広げてください",
		Check: func(m Measurements) bool {
			return m.WristWidth < narrowArmsRatio*m.ShoulderWidth
		},
	},
	{
		ID:         7,
		Name:       "arms_wide",
		Deduction:  10,
		Issue:      "腕の幅が広すぎます",
		Suggestion: "手の幅を肩幅の2倍程度までに狭めてください",
		Check: func(m Measurements) bool {
			return m.WristWidth > wideArmsRatio*m.ShoulderWidth
		},
	},
	{
		ID:         8,
		Name:       "head_off_center",
		Deduction:  5,
		Issue:      "頭が中心からずれています",
		Suggestion: "頭を体の中心に保ち、正面を向いてください",
		Check: func(m Measurements) bool {
			return m.HeadOffset > headOffsetThreshold
		},
	},
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
