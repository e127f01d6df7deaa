package llm

import "context"

// CompanyAnalysis is the structured output of one reasoning call. Numeric
// fields are untrusted: callers clamp factors to [0,20] and recompute the
// axis scores from the clamped sums.
type CompanyAnalysis struct {
	CompanyName   string         `json:"company_name"`
	Overview      string         `json:"overview"`
	Justification string         `json:"justification"`
	Diligence     []string       `json:"diligence"`
	XScore        int            `json:"x_score"`
	YScore        int            `json:"y_score"`
	XFactors      map[string]int `json:"x_factors"`
	YFactors      map[string]int `json:"y_factors"`
}

// Headline is one item submitted to the relevance filter.
type Headline struct {
	Source string
	Title  string
}

// RelevanceResult scores one submitted headline. Index is zero-based into
// the submitted slice; headlines below the relevance cutoff are omitted.
type RelevanceResult struct {
	Index          int    `json:"index"`
	RelevanceScore int    `json:"relevance_score"`
	Tag            string `json:"zone_tag"`
	Summary        string `json:"summary"`
}

// ReasoningClient is the external reasoning collaborator. Implementations
// may return malformed output upstream; they surface it as an error and the
// caller decides how to degrade.
type ReasoningClient interface {
	AnalyzeCompany(ctx context.Context, companyName string) (*CompanyAnalysis, error)
	FilterRelevance(ctx context.Context, headlines []Headline) ([]RelevanceResult, error)
}
