package handler

type NewsItemResponse struct {
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Source      string         `json:"source"`
	FeedName    string         `json:"feed_name"`
	Summary     string         `json:"summary"`
	ImageURL    string         `json:"image_url,omitempty"`
	PublishedAt string         `json:"published_at"`
	Engagement  map[string]int `json:"engagement,omitempty"`
	Category    string         `json:"category"`
	ContentType string         `json:"content_type"`
	Score       int            `json:"score"`
	AISummary   string         `json:"ai_summary,omitempty"`
	ZoneTag     string         `json:"zone_tag,omitempty"`
}

type NewsFeedResponse struct {
	Items  []NewsItemResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type CreateCohortRequest struct {
	Name      string   `json:"name"`
	Companies []string `json:"companies"`
}

type EditCohortRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

type CohortResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Status             string `json:"status"`
	TotalCompanies     int    `json:"total_companies"`
	CompletedCompanies int    `json:"completed_companies"`
	CurrentCompany     string `json:"current_company,omitempty"`
	CreatedAt          string `json:"created_at"`
}

type CohortListResponse struct {
	Cohorts []CohortResponse `json:"cohorts"`
}

type CohortEntryResponse struct {
	Position    int    `json:"position"`
	CompanyName string `json:"company_name"`
	Zone        string `json:"zone"`
	Overview    string `json:"overview"`
	KeyRisk     string `json:"key_risk"`
	XScore      int    `json:"x_score"`
	YScore      int    `json:"y_score"`
}

type CohortDetailResponse struct {
	Cohort  CohortResponse        `json:"cohort"`
	Entries []CohortEntryResponse `json:"entries"`
}

type MatrixPointResponse struct {
	CompanyName string   `json:"company_name"`
	Ticker      string   `json:"ticker"`
	Zone        string   `json:"zone"`
	XScore      int      `json:"x_score"`
	YScore      int      `json:"y_score"`
	Bullets     []string `json:"bullets"`
}

type MatrixResponse struct {
	CohortID int64                 `json:"cohort_id"`
	Points   []MatrixPointResponse `json:"points"`
}

type AnalyzeRequest struct {
	CompanyName string `json:"company_name"`
}

type EvaluationResponse struct {
	ID            int64          `json:"id"`
	CompanyName   string         `json:"company_name"`
	Zone          string         `json:"zone"`
	Overview      string         `json:"overview"`
	Justification string         `json:"justification"`
	Diligence     []string       `json:"diligence"`
	XScore        int            `json:"x_score"`
	YScore        int            `json:"y_score"`
	XFactors      map[string]int `json:"x_factors,omitempty"`
	YFactors      map[string]int `json:"y_factors,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

type HistoryResponse struct {
	Evaluations []EvaluationResponse `json:"evaluations"`
}

type PricePointResponse struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type StockHistoryResponse struct {
	Series map[string][]PricePointResponse `json:"series"`
	From   string                          `json:"from"`
	To     string                          `json:"to"`
}
