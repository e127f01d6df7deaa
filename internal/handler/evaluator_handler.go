package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"saasradar/internal/model"
)

type EvaluatorService interface {
	Analyze(ctx context.Context, companyName string) (*model.Evaluation, error)
	Get(id int64) (*model.Evaluation, error)
	History(limit int) ([]model.Evaluation, error)
}

type EvaluatorHandler struct {
	service EvaluatorService
}

func NewEvaluatorHandler(service EvaluatorService) *EvaluatorHandler {
	return &EvaluatorHandler{service: service}
}

func (h *EvaluatorHandler) unavailable(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Company analysis is not configured"})
		return true
	}
	return false
}

func (h *EvaluatorHandler) Analyze(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})
		return
	}

	eval, err := h.service.Analyze(c.Request.Context(), company)
	if err != nil {
		slog.Error("error analyzing company", "error", err, "company", company)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, toEvaluationResponse(eval))
}

func (h *EvaluatorHandler) GetEvaluation(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid evaluation id"})
		return
	}

	eval, err := h.service.Get(id)
	if err != nil {
		slog.Error("error fetching evaluation", "error", err, "evaluation_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if eval == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	}

	c.JSON(http.StatusOK, toEvaluationResponse(eval))
}

func (h *EvaluatorHandler) GetHistory(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	limit := getQueryLimit(c)
	evals, err := h.service.History(limit)
	if err != nil {
		slog.Error("error fetching evaluation history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := HistoryResponse{Evaluations: make([]EvaluationResponse, 0, len(evals))}
	for i := range evals {
		res.Evaluations = append(res.Evaluations, toEvaluationResponse(&evals[i]))
	}

	c.JSON(http.StatusOK, res)
}

func toEvaluationResponse(e *model.Evaluation) EvaluationResponse {
	res := EvaluationResponse{
		ID:            e.ID,
		CompanyName:   e.CompanyName,
		Zone:          model.DeriveZone(e.XScore, e.YScore),
		Overview:      e.Overview,
		Justification: e.Justification,
		Diligence:     e.Diligence,
		XScore:        e.XScore,
		YScore:        e.YScore,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
	if e.ScoreFactors != nil {
		res.XFactors = e.ScoreFactors.XFactors
		res.YFactors = e.ScoreFactors.YFactors
	}
	return res
}
