package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"saasradar/internal/cohort"
	"saasradar/internal/model"
)

const (
	maxCohortCompanies = 25
	overviewMaxLen     = 150
	maxBullets         = 3
)

type CohortService interface {
	Create(name string, companies []string) (*model.Cohort, error)
	Get(id int64) (*model.Cohort, error)
	List() ([]model.Cohort, error)
	Detail(id int64) (*model.Cohort, []model.CohortEntry, error)
	Edit(id int64, remove, add []string) (*model.Cohort, error)
	Delete(id int64) error
}

// CohortHandler serves the batch-evaluation API. A nil service means the
// reasoning backend is not configured; every route answers 503.
type CohortHandler struct {
	service CohortService
}

func NewCohortHandler(service CohortService) *CohortHandler {
	return &CohortHandler{service: service}
}

func (h *CohortHandler) unavailable(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cohort analysis is not configured"})
		return true
	}
	return false
}

func (h *CohortHandler) CreateCohort(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	var req CreateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Companies) > maxCohortCompanies {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many companies, maximum is 25"})
		return
	}

	created, err := h.service.Create(req.Name, req.Companies)
	if errors.Is(err, cohort.ErrNoCompanies) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No companies to analyze"})
		return
	}
	if err != nil {
		slog.Error("error creating cohort", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toCohortResponse(created))
}

func (h *CohortHandler) ListCohorts(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	cohorts, err := h.service.List()
	if err != nil {
		slog.Error("error listing cohorts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]CohortResponse, 0, len(cohorts))
	for i := range cohorts {
		res = append(res, toCohortResponse(&cohorts[i]))
	}
	c.JSON(http.StatusOK, CohortListResponse{Cohorts: res})
}

func (h *CohortHandler) GetCohort(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	id, ok := cohortID(c)
	if !ok {
		return
	}

	got, err := h.service.Get(id)
	if errors.Is(err, cohort.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching cohort", "error", err, "cohort_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toCohortResponse(got))
}

func (h *CohortHandler) GetCohortDetail(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	id, ok := cohortID(c)
	if !ok {
		return
	}

	got, entries, err := h.service.Detail(id)
	if errors.Is(err, cohort.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching cohort detail", "error", err, "cohort_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := CohortDetailResponse{Cohort: toCohortResponse(got)}
	for _, entry := range entries {
		e := entry.Evaluation
		res.Entries = append(res.Entries, CohortEntryResponse{
			Position:    entry.Position,
			CompanyName: e.CompanyName,
			Zone:        model.DeriveZone(e.XScore, e.YScore),
			Overview:    truncate(e.Overview, overviewMaxLen),
			KeyRisk:     keyRisk(e.Diligence),
			XScore:      e.XScore,
			YScore:      e.YScore,
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *CohortHandler) GetCohortMatrix(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	id, ok := cohortID(c)
	if !ok {
		return
	}

	_, entries, err := h.service.Detail(id)
	if errors.Is(err, cohort.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching cohort matrix", "error", err, "cohort_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := MatrixResponse{CohortID: id, Points: make([]MatrixPointResponse, 0, len(entries))}
	for _, entry := range entries {
		e := entry.Evaluation
		res.Points = append(res.Points, MatrixPointResponse{
			CompanyName: e.CompanyName,
			Ticker:      tickerGuess(e.CompanyName),
			Zone:        model.DeriveZone(e.XScore, e.YScore),
			XScore:      e.XScore,
			YScore:      e.YScore,
			Bullets:     justificationBullets(e.Justification),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *CohortHandler) EditCohort(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	id, ok := cohortID(c)
	if !ok {
		return
	}

	var req EditCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Add) > maxCohortCompanies {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many companies, maximum is 25"})
		return
	}

	updated, err := h.service.Edit(id, req.Remove, req.Add)
	if errors.Is(err, cohort.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
		return
	}
	if errors.Is(err, cohort.ErrBatchRunning) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cohort analysis is still running"})
		return
	}
	if err != nil {
		slog.Error("error editing cohort", "error", err, "cohort_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toCohortResponse(updated))
}

func (h *CohortHandler) DeleteCohort(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	id, ok := cohortID(c)
	if !ok {
		return
	}

	err := h.service.Delete(id)
	if errors.Is(err, cohort.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
		return
	}
	if err != nil {
		slog.Error("error deleting cohort", "error", err, "cohort_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func cohortID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cohort id"})
		return 0, false
	}
	return id, true
}

func toCohortResponse(c *model.Cohort) CohortResponse {
	return CohortResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Status:             c.Status,
		TotalCompanies:     c.TotalCompanies,
		CompletedCompanies: c.CompletedCompanies,
		CurrentCompany:     c.CurrentCompany,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back off to a rune boundary so multi-byte characters survive the cut.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return strings.TrimSpace(s[:max]) + "..."
}

func keyRisk(diligence []string) string {
	if len(diligence) == 0 {
		return ""
	}
	return diligence[0]
}

// justificationBullets splits a justification into at most three sentences
// for the scatter tooltip.
func justificationBullets(justification string) []string {
	var bullets []string
	for _, part := range strings.Split(justification, ". ") {
		part = strings.TrimSpace(strings.TrimSuffix(part, "."))
		if part == "" {
			continue
		}
		bullets = append(bullets, part)
		if len(bullets) == maxBullets {
			break
		}
	}
	return bullets
}

// tickerGuess fakes a symbol for private companies: first four letters,
// uppercased.
func tickerGuess(companyName string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, companyName)

	if len(cleaned) > 4 {
		cleaned = cleaned[:4]
	}
	return strings.ToUpper(cleaned)
}
