package evaluator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saasradar/internal/model"
	"saasradar/pkg/llm"
)

// EvaluationStore is the persistence surface the service needs.
type EvaluationStore interface {
	Save(eval *model.Evaluation) error
	GetByID(id int64) (*model.Evaluation, error)
	GetHistory(limit int) ([]model.Evaluation, error)
}

// Analyzer runs the reasoning call for one company.
type Analyzer interface {
	AnalyzeCompany(ctx context.Context, companyName string) (*llm.CompanyAnalysis, error)
}

type Service struct {
	store    EvaluationStore
	analyzer Analyzer
	timeout  time.Duration
}

func NewService(store EvaluationStore, analyzer Analyzer, timeout time.Duration) *Service {
	return &Service{store: store, analyzer: analyzer, timeout: timeout}
}

// Analyze runs a fresh evaluation for one company and persists it. Unlike the
// batch engine, a direct request always gets a new analysis.
func (s *Service) Analyze(ctx context.Context, companyName string) (*model.Evaluation, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.analyzer.AnalyzeCompany(callCtx, companyName)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", companyName, err)
	}

	eval := BuildEvaluation(raw, companyName)
	if err := s.store.Save(eval); err != nil {
		return nil, fmt.Errorf("saving evaluation for %s: %w", companyName, err)
	}
	return eval, nil
}

func (s *Service) Get(id int64) (*model.Evaluation, error) {
	return s.store.GetByID(id)
}

func (s *Service) History(limit int) ([]model.Evaluation, error) {
	return s.store.GetHistory(limit)
}

// BuildEvaluation turns raw reasoning output into a trusted evaluation.
// Factors are clamped to [0,20] and the axis scores recomputed from their
// sums; the self-reported scores are used, clamped to [0,100], only when the
// factor breakdown is missing. The zone is always derived from the final
// scores.
func BuildEvaluation(raw *llm.CompanyAnalysis, fallbackName string) *model.Evaluation {
	name := strings.TrimSpace(raw.CompanyName)
	if name == "" {
		name = fallbackName
	}

	xFactors := model.ClampFactors(raw.XFactors)
	yFactors := model.ClampFactors(raw.YFactors)

	xScore := model.ClampScore(raw.XScore)
	if xFactors != nil {
		xScore = model.SumFactors(xFactors)
	}
	yScore := model.ClampScore(raw.YScore)
	if yFactors != nil {
		yScore = model.SumFactors(yFactors)
	}

	var factors *model.ScoreFactors
	if xFactors != nil || yFactors != nil {
		factors = &model.ScoreFactors{XFactors: xFactors, YFactors: yFactors}
	}

	return &model.Evaluation{
		CompanyName:   name,
		Zone:          model.DeriveZone(xScore, yScore),
		Overview:      raw.Overview,
		Justification: raw.Justification,
		Diligence:     raw.Diligence,
		XScore:        xScore,
		YScore:        yScore,
		ScoreFactors:  factors,
	}
}
