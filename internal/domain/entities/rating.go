package entities

// RubricStatus is the outcome of one README rubric item.
type RubricStatus string

// Rubric item outcomes. "na" marks items that do not apply to the
// project (e.g. screenshots for a non-visual library).
const (
	RubricPass RubricStatus = "pass"
	RubricFail RubricStatus = "fail"
	RubricNA   RubricStatus = "na"
)

// RubricItem is the assessed result of a single rubric criterion.
type RubricItem struct {
	ID     string       `json:"id"`
	Status RubricStatus `json:"status"`
	Advice string       `json:"advice"`
}

// Rating is the overall README assessment.
type Rating struct {
	OverallScore        string       `json:"overall_score"`
	OverallScoreNumeric int          `json:"overall_score_numeric"`
	LastCheckedUTC      string       `json:"last_checked_utc"`
	ReadmeFileHash      string       `json:"readme_file_hash"`
	RubricResults       []RubricItem `json:"rubric_results"`
}

// RaterState is the persisted convergence cache: rubric outcomes for a
// specific README content hash. Items that passed are reused on the next
// run as long as the content is unchanged.
type RaterState struct {
	ReadmeFileHash string       `json:"readme_file_hash"`
	RubricResults  []RubricItem `json:"rubric_results"`
	Score          int          `json:"score"`
	Updated        string       `json:"updated"`
}
