package model

import "time"

const (
	CohortStatusAnalyzing = "analyzing"
	CohortStatusComplete  = "complete"
	CohortStatusError     = "error"
)

// ScoreFactors is the per-axis breakdown behind an evaluation's scores.
// Each factor is clamped to [0,20] before the axis totals are computed.
type ScoreFactors struct {
	XFactors map[string]int `json:"x_factors"`
	YFactors map[string]int `json:"y_factors"`
}

// Evaluation is one company analysis. Immutable after creation; the batch
// engine reuses a recent evaluation instead of creating a duplicate.
type Evaluation struct {
	ID            int64
	CompanyName   string
	Zone          string
	Overview      string
	Justification string
	Diligence     []string
	XScore        int
	YScore        int
	ScoreFactors  *ScoreFactors
	CreatedAt     time.Time
}

type Cohort struct {
	ID                 int64
	Name               string
	Status             string
	TotalCompanies     int
	CompletedCompanies int
	CurrentCompany     string
	CreatedAt          time.Time
}

// CohortMember links a cohort to an evaluation. Evaluations may be shared
// across cohorts, so deleting a cohort removes only these links.
type CohortMember struct {
	ID           int64
	CohortID     int64
	EvaluationID int64
	Position     int
}

// CohortEntry is a member joined with its evaluation, for detail views.
type CohortEntry struct {
	Position   int
	Evaluation Evaluation
}
