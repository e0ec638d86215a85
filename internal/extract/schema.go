package extract

// ActionItem is one follow-up with an optional owner.
type ActionItem struct {
	Owner string `json:"owner"`
	Task  string `json:"task"`
}

// Extraction is the canonical structured meeting record decoded from model
// output. After Validate, every string field is normalized and every list is
// non-nil; the renderers rely on that invariant and never see raw model text.
type Extraction struct {
	Title         string       `json:"title"`
	Date          string       `json:"date"` // YYYY-MM-DD
	Summary       string       `json:"summary"`
	Decisions     []string     `json:"decisions"`
	ActionItems   []ActionItem `json:"actionItems"`
	OpenQuestions []string     `json:"openQuestions"`
	KeyPoints     []string     `json:"keyPoints"`
}
