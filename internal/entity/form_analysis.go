package entity

type FormAnalysisResult struct {
	FormScore   float64            `json:"formScore"`
	Issues      []string           `json:"issues"`
	Suggestions []string           `json:"suggestions"`
	Metrics     map[string]float64 `json:"metrics"`
}

type AnalysisFailure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
