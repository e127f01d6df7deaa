package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"saasradar/internal/model"
	"saasradar/pkg/llm"
)

type fakeStore struct {
	saved  []*model.Evaluation
	nextID int64
}

func (f *fakeStore) Save(eval *model.Evaluation) error {
	f.nextID++
	eval.ID = f.nextID
	eval.CreatedAt = time.Now()
	f.saved = append(f.saved, eval)
	return nil
}

func (f *fakeStore) GetByID(id int64) (*model.Evaluation, error) {
	for _, e := range f.saved {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetHistory(limit int) ([]model.Evaluation, error) {
	var out []model.Evaluation
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.saved[i])
	}
	return out, nil
}

type fakeAnalyzer struct {
	analysis *llm.CompanyAnalysis
	err      error
}

func (f *fakeAnalyzer) AnalyzeCompany(ctx context.Context, companyName string) (*llm.CompanyAnalysis, error) {
	return f.analysis, f.err
}

func TestAnalyzePersistsDerivedEvaluation(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{analysis: &llm.CompanyAnalysis{
		CompanyName:   "Veeva",
		Overview:      "clinical data platform",
		Justification: "deep regulatory moat",
		Diligence:     []string{"check agent roadmap"},
		XScore:        1, // ignored: factors present
		YScore:        1,
		XFactors:      map[string]int{"regulatory_overlay": 18, "multi_stakeholder": 15, "judgment_intensity": 12, "process_depth": 14, "institutional_knowledge": 16},
		YFactors:      map[string]int{"regulatory_lock_in": 19, "data_gravity": 17, "network_effects": 10, "portability_resistance": 12, "proprietary_enrichment": 14},
	}}

	svc := NewService(store, analyzer, time.Minute)
	eval, err := svc.Analyze(context.Background(), "Veeva")

	assert.Equal(t, nil, err)
	assert.Equal(t, 75, eval.XScore)
	assert.Equal(t, 72, eval.YScore)
	assert.Equal(t, model.ZoneFortress, eval.Zone)
	assert.Equal(t, 1, len(store.saved))
}

func TestAnalyzePropagatesReasoningError(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeAnalyzer{err: errors.New("rate limited")}, time.Minute)

	_, err := svc.Analyze(context.Background(), "Acme")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(store.saved))
}

func TestBuildEvaluationClampsFactors(t *testing.T) {
	raw := &llm.CompanyAnalysis{
		CompanyName: "Acme",
		XFactors:    map[string]int{"a": 25, "b": -3, "c": 5, "d": 5, "e": 5},
		YFactors:    map[string]int{"a": 10, "b": 10, "c": 10, "d": 10, "e": 10},
	}

	eval := BuildEvaluation(raw, "Acme")
	assert.Equal(t, 20+0+5+5+5, eval.XScore)
	assert.Equal(t, 50, eval.YScore)
	assert.Equal(t, model.ZoneCompression, eval.Zone)
	assert.Equal(t, 20, eval.ScoreFactors.XFactors["a"])
	assert.Equal(t, 0, eval.ScoreFactors.XFactors["b"])
}

func TestBuildEvaluationFallsBackToReportedScores(t *testing.T) {
	raw := &llm.CompanyAnalysis{CompanyName: "Acme", XScore: 130, YScore: -20}

	eval := BuildEvaluation(raw, "Acme")
	assert.Equal(t, 100, eval.XScore)
	assert.Equal(t, 0, eval.YScore)
	assert.Equal(t, model.ZoneAdaptation, eval.Zone)
	if eval.ScoreFactors != nil {
		t.Errorf("expected nil factors, got %+v", eval.ScoreFactors)
	}
}

func TestBuildEvaluationUsesFallbackName(t *testing.T) {
	raw := &llm.CompanyAnalysis{CompanyName: "   "}
	eval := BuildEvaluation(raw, "Supplied Name")
	assert.Equal(t, "Supplied Name", eval.CompanyName)
}
