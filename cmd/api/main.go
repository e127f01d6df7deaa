package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"saasradar/db"
	"saasradar/internal/aggregator"
	"saasradar/internal/cohort"
	"saasradar/internal/evaluator"
	"saasradar/internal/handler"
	"saasradar/internal/repository"
	"saasradar/internal/scheduler"
	"saasradar/pkg/feeds"
	"saasradar/pkg/llm"
	"saasradar/pkg/stocks"
)

const analyzeTimeout = 90 * time.Second

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var warm aggregator.SnapshotCache
	if os.Getenv("REDIS_URL") != "" {
		if err := db.ConnectRedis(); err != nil {
			slog.Warn("redis unavailable, snapshot warm-start disabled", "error", err)
		} else {
			defer db.CloseRedis()
			warm = &db.SnapshotStore{TTL: time.Hour}
		}
	}

	reasoning := newReasoningClient()

	rssClient := feeds.NewRSSClient(feeds.DefaultFeeds)
	sources := []aggregator.Source{rssClient}

	social := feeds.NewSocialClient(os.Getenv("X_BEARER_TOKEN"))
	if social.Enabled() {
		sources = append(sources, social)
	} else {
		slog.Info("social source disabled, no bearer token")
	}

	var filter aggregator.RelevanceFilter
	if reasoning != nil {
		filter = reasoning
	}
	agg := aggregator.New(feeds.NewPressProxyClient(), sources, filter, rssClient, warm)

	evalRepo := repository.NewEvaluationRepository(db.DB)
	cohortRepo := repository.NewCohortRepository(db.DB)

	var cohortService handler.CohortService
	var evalService handler.EvaluatorService
	if reasoning != nil {
		cohortService = cohort.NewEngine(cohortRepo, evalRepo, reasoning)
		evalService = evaluator.NewService(evalRepo, reasoning, analyzeTimeout)
	} else {
		slog.Warn("no reasoning API key set, cohort and evaluator endpoints disabled")
	}

	var priceProvider handler.PriceHistoryProvider
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		priceProvider = stocks.NewClient(key)
	}

	newsHandler := handler.NewNewsHandler(agg)
	cohortHandler := handler.NewCohortHandler(cohortService)
	evaluatorHandler := handler.NewEvaluatorHandler(evalService)
	stockHandler := handler.NewStockHandler(priceProvider)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/api/news", newsHandler.GetNews)
	r.GET("/api/news/fundraising", newsHandler.GetFundraising)
	r.GET("/api/news/search", newsHandler.SearchCompany)
	r.POST("/api/cohorts", cohortHandler.CreateCohort)
	r.GET("/api/cohorts", cohortHandler.ListCohorts)
	r.GET("/api/cohorts/:id", cohortHandler.GetCohort)
	r.GET("/api/cohorts/:id/detail", cohortHandler.GetCohortDetail)
	r.GET("/api/cohorts/:id/matrix", cohortHandler.GetCohortMatrix)
	r.PUT("/api/cohorts/:id", cohortHandler.EditCohort)
	r.DELETE("/api/cohorts/:id", cohortHandler.DeleteCohort)
	r.POST("/api/evaluator/analyze", evaluatorHandler.Analyze)
	r.GET("/api/evaluator/history", evaluatorHandler.GetHistory)
	r.GET("/api/evaluator/:id", evaluatorHandler.GetEvaluation)
	r.GET("/api/stocks/history", stockHandler.GetHistory)
	r.GET("/health", newsHandler.GetHealth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.New(agg, refreshInterval()).Run(ctx)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func newReasoningClient() llm.ReasoningClient {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return llm.NewAnthropicClient(key)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return llm.NewOpenAIClient(key)
	}
	return nil
}

func refreshInterval() time.Duration {
	raw := os.Getenv("REFRESH_INTERVAL_MINUTES")
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 {
		slog.Warn("invalid REFRESH_INTERVAL_MINUTES, using default", "value", raw)
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
