package cohort

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"saasradar/internal/evaluator"
	"saasradar/internal/model"
	"saasradar/pkg/llm"
)

const (
	reuseWindow = 24 * time.Hour
	callTimeout = 90 * time.Second
)

var (
	ErrNotFound     = errors.New("cohort not found")
	ErrBatchRunning = errors.New("cohort analysis is still running")
	ErrNoCompanies  = errors.New("no companies to analyze")
)

// CohortStore is the cohort persistence surface.
type CohortStore interface {
	Create(cohort *model.Cohort) error
	GetByID(id int64) (*model.Cohort, error)
	List() ([]model.Cohort, error)
	SetCurrentCompany(id int64, company string) error
	IncrementCompleted(id int64) error
	MarkComplete(id int64) error
	MarkError(id int64) error
	AdjustCounts(id int64, totalDelta, completedDelta int) error
	ReopenForAppend(id int64, added int) error
	AddMember(cohortID, evaluationID int64, position int) error
	MaxPosition(cohortID int64) (int, error)
	MemberCompanyNames(cohortID int64) ([]string, error)
	RemoveMembers(cohortID int64, companyNames []string) (int, error)
	Delete(id int64) error
	Entries(cohortID int64) ([]model.CohortEntry, error)
}

// EvaluationStore is the evaluation persistence surface the engine needs.
type EvaluationStore interface {
	Save(eval *model.Evaluation) error
	GetRecentByName(name string, since time.Time) (*model.Evaluation, error)
}

// Analyzer runs the reasoning call for one company.
type Analyzer interface {
	AnalyzeCompany(ctx context.Context, companyName string) (*llm.CompanyAnalysis, error)
}

// Engine runs cohort batches sequentially in the background. One entity is
// in flight at a time; the limiter spaces reasoning calls a second apart.
type Engine struct {
	cohorts  CohortStore
	evals    EvaluationStore
	analyzer Analyzer
	limiter  *rate.Limiter

	mu    sync.Mutex
	tasks map[int64]context.CancelFunc
}

func NewEngine(cohorts CohortStore, evals EvaluationStore, analyzer Analyzer) *Engine {
	return &Engine{
		cohorts:  cohorts,
		evals:    evals,
		analyzer: analyzer,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		tasks:    make(map[int64]context.CancelFunc),
	}
}

// Create persists a new cohort and starts its analysis in the background.
// Company names are trimmed and deduplicated case-insensitively, first
// spelling wins.
func (e *Engine) Create(name string, companies []string) (*model.Cohort, error) {
	unique := dedupeNames(companies, nil)
	if len(unique) == 0 {
		return nil, ErrNoCompanies
	}

	// Created directly in the analyzing state: a progress poll racing the
	// background task must never observe a settled-looking cohort.
	cohort := &model.Cohort{
		Name:           strings.TrimSpace(name),
		Status:         model.CohortStatusAnalyzing,
		TotalCompanies: len(unique),
		CurrentCompany: unique[0],
	}
	if err := e.cohorts.Create(cohort); err != nil {
		return nil, fmt.Errorf("creating cohort: %w", err)
	}

	e.claim(cohort.ID)
	e.startBatch(cohort.ID, unique, 1)
	return cohort, nil
}

// Get returns a cohort's current progress.
func (e *Engine) Get(id int64) (*model.Cohort, error) {
	cohort, err := e.cohorts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cohort == nil {
		return nil, ErrNotFound
	}
	return cohort, nil
}

func (e *Engine) List() ([]model.Cohort, error) {
	return e.cohorts.List()
}

// Detail returns the cohort with its entries ordered zone-first (fortress
// before dead), then by position within a zone.
func (e *Engine) Detail(id int64) (*model.Cohort, []model.CohortEntry, error) {
	cohort, err := e.Get(id)
	if err != nil {
		return nil, nil, err
	}

	entries, err := e.cohorts.Entries(id)
	if err != nil {
		return nil, nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ri := model.ZoneRank(model.DeriveZone(entries[i].Evaluation.XScore, entries[i].Evaluation.YScore))
		rj := model.ZoneRank(model.DeriveZone(entries[j].Evaluation.XScore, entries[j].Evaluation.YScore))
		if ri != rj {
			return ri < rj
		}
		return entries[i].Position < entries[j].Position
	})

	return cohort, entries, nil
}

// Edit removes and adds companies on a settled cohort. Removals count the
// rows actually deleted; additions are appended and analyzed by a fresh
// background batch.
//
// The task slot is claimed for the whole edit, not just the batch it may
// launch: two concurrent edits would otherwise both pass the status check,
// read the same max position, and hand out duplicate positions.
func (e *Engine) Edit(id int64, remove, add []string) (*model.Cohort, error) {
	if !e.claim(id) {
		return nil, ErrBatchRunning
	}
	launched := false
	defer func() {
		if !launched {
			e.release(id)
		}
	}()

	cohort, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	if cohort.Status != model.CohortStatusComplete && cohort.Status != model.CohortStatusError {
		return nil, ErrBatchRunning
	}

	if len(remove) > 0 {
		removed, err := e.cohorts.RemoveMembers(id, remove)
		if err != nil {
			return nil, fmt.Errorf("removing members: %w", err)
		}
		if removed > 0 {
			if err := e.cohorts.AdjustCounts(id, -removed, -removed); err != nil {
				return nil, fmt.Errorf("adjusting counts: %w", err)
			}
		}
	}

	existing, err := e.cohorts.MemberCompanyNames(id)
	if err != nil {
		return nil, err
	}

	toAdd := dedupeNames(add, existing)
	if len(toAdd) > 0 {
		maxPos, err := e.cohorts.MaxPosition(id)
		if err != nil {
			return nil, err
		}
		if err := e.cohorts.ReopenForAppend(id, len(toAdd)); err != nil {
			return nil, fmt.Errorf("reopening cohort: %w", err)
		}
		launched = true
		e.startBatch(id, toAdd, maxPos+1)
	}

	return e.Get(id)
}

// Delete cancels any running batch and removes the cohort. Evaluations are
// shared across cohorts and stay behind.
func (e *Engine) Delete(id int64) error {
	cohort, err := e.Get(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if cancel, ok := e.tasks[id]; ok {
		cancel()
		delete(e.tasks, id)
	}
	e.mu.Unlock()

	if err := e.cohorts.Delete(cohort.ID); err != nil {
		return fmt.Errorf("deleting cohort: %w", err)
	}
	return nil
}

// claim atomically reserves the cohort's task slot. False means a batch is
// running or another edit is in flight.
func (e *Engine) claim(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tasks[id]; ok {
		return false
	}
	e.tasks[id] = func() {}
	return true
}

func (e *Engine) release(id int64) {
	e.mu.Lock()
	delete(e.tasks, id)
	e.mu.Unlock()
}

// startBatch swaps the caller's claim for the batch's real cancel handle.
// The slot must already be claimed.
func (e *Engine) startBatch(id int64, companies []string, startPos int) {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.tasks[id] = cancel
	e.mu.Unlock()

	go func() {
		defer func() {
			e.mu.Lock()
			delete(e.tasks, id)
			e.mu.Unlock()
			cancel()
		}()
		e.processBatch(ctx, id, companies, startPos)
	}()
}

// processBatch analyzes companies one at a time. A failing company is logged
// and skipped; the cohort ends in the error state only when nothing at all
// succeeded.
func (e *Engine) processBatch(ctx context.Context, id int64, companies []string, startPos int) {
	succeeded := 0
	for i, company := range companies {
		if err := e.limiter.Wait(ctx); err != nil {
			slog.Info("cohort batch cancelled", "cohort_id", id)
			return
		}

		if err := e.processEntity(ctx, id, company, startPos+i); err != nil {
			if ctx.Err() != nil {
				slog.Info("cohort batch cancelled", "cohort_id", id, "company", company)
				return
			}
			slog.Error("company analysis failed, skipping", "cohort_id", id, "company", company, "error", err)
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		if err := e.cohorts.MarkError(id); err != nil {
			slog.Error("marking cohort errored failed", "cohort_id", id, "error", err)
		}
		return
	}
	if err := e.cohorts.MarkComplete(id); err != nil {
		slog.Error("marking cohort complete failed", "cohort_id", id, "error", err)
	}
	slog.Info("cohort batch finished", "cohort_id", id, "succeeded", succeeded, "total", len(companies))
}

func (e *Engine) processEntity(ctx context.Context, cohortID int64, company string, position int) error {
	if err := e.cohorts.SetCurrentCompany(cohortID, company); err != nil {
		return fmt.Errorf("updating progress: %w", err)
	}

	eval, err := e.evals.GetRecentByName(company, time.Now().Add(-reuseWindow))
	if err != nil {
		return fmt.Errorf("reuse lookup: %w", err)
	}

	if eval == nil {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		raw, err := e.analyzer.AnalyzeCompany(callCtx, company)
		cancel()
		if err != nil {
			return fmt.Errorf("analyzing: %w", err)
		}

		eval = evaluator.BuildEvaluation(raw, company)
		if err := e.evals.Save(eval); err != nil {
			return fmt.Errorf("saving evaluation: %w", err)
		}
	} else {
		slog.Info("reusing recent evaluation", "cohort_id", cohortID, "company", company, "evaluation_id", eval.ID)
	}

	if err := e.cohorts.AddMember(cohortID, eval.ID, position); err != nil {
		return fmt.Errorf("linking evaluation: %w", err)
	}
	if err := e.cohorts.IncrementCompleted(cohortID); err != nil {
		return fmt.Errorf("updating progress: %w", err)
	}
	return nil
}

// dedupeNames trims, drops empties, and removes case-insensitive duplicates
// while preserving the order and spelling of first occurrences. Names already
// present in existing are dropped too.
func dedupeNames(names, existing []string) []string {
	seen := make(map[string]bool, len(names)+len(existing))
	for _, name := range existing {
		seen[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var out []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}
