package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GarfieldLoveLasagna/TrialLens/config"
	"github.com/GarfieldLoveLasagna/TrialLens/llm"
	"github.com/GarfieldLoveLasagna/TrialLens/providers/clinicaltrials"
	"github.com/GarfieldLoveLasagna/TrialLens/services"
)

var (
	summariesGeneratedCounter prometheus.Counter
	llmHealthFailuresCounter  prometheus.Counter
)

func init() {
	summariesGeneratedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trial_summaries_generated_total",
			Help: "Total number of trial summaries generated successfully.",
		},
	)
	llmHealthFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_health_probe_failures_total",
			Help: "Total number of failed scheduled LLM liveness probes.",
		},
	)
	prometheus.MustRegister(summariesGeneratedCounter, llmHealthFailuresCounter)
}

var nctIDPattern = regexp.MustCompile(`^NCT\d{8}$`)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup LLM Client
	llmClient, err := llm.NewGeminiClient(context.Background(), cfg, logging)
	if err != nil {
		logging.Fatal("LLM client creation failed", zap.Error(err))
	}
	logging.Info("LLM client ready", zap.String("client", llmClient.Name()))

	// Setup Services
	fetcher := clinicaltrials.NewFetcher(cfg, logging)
	trialService := services.NewTrialService(cfg, fetcher, logging)
	summaryService := services.NewSummaryService(cfg, fetcher, llmClient, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupTrialRoutes(router, trialService, summaryService, logging)
	setupHealthRoutes(router, llmClient, logging)

	// Optionaler, geplanter LLM-Liveness-Check
	if cfg.LLMHealthCron != "" {
		cronScheduler := cron.New()
		cronScheduler.AddFunc(cfg.LLMHealthCron, func() {
			probeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := llmClient.HealthCheck(probeCtx); err != nil {
				llmHealthFailuresCounter.Inc()
				logging.Error("Geplanter LLM-Liveness-Check fehlgeschlagen", zap.Error(err))
			} else {
				logging.Info("Geplanter LLM-Liveness-Check ok")
			}
		})
		cronScheduler.Start()
		logging.Info("LLM-Liveness-Cron aktiviert", zap.String("schedule", cfg.LLMHealthCron))
	}

	logging.Info("Starting server",
		zap.String("app", cfg.AppName),
		zap.String("env", cfg.AppEnv),
		zap.String("version", cfg.AppVersion),
		zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupTrialRoutes(router *gin.Engine, trials *services.TrialService, summaries *services.SummaryService, log *zap.Logger) {
	rg := router.Group("/trials")

	// GET /trials/search?condition=...&status=...&limit=...&max_locations=...
	rg.GET("/search", func(c *gin.Context) {
		condition := c.Query("condition")
		if condition == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'condition' is required"})
			return
		}
		statuses := c.QueryArray("status")
		limit := clampQueryInt(c, "limit", 10, 1, 50)
		maxLocations := clampQueryInt(c, "max_locations", 5, 0, 50)

		cards, err := trials.SearchCards(c.Request.Context(), condition, statuses, limit, maxLocations)
		if err != nil {
			log.Error("Trial search failed", zap.String("condition", condition), zap.Error(err))
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
	})

	rg.GET("/:nctId", func(c *gin.Context) {
		nctID := c.Param("nctId")
		if !nctIDPattern.MatchString(nctID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid NCT id"})
			return
		}

		trial, err := trials.Get(c.Request.Context(), nctID)
		if err != nil {
			if errors.Is(err, clinicaltrials.ErrMissingNCTID) {
				// 200 von der Registry, aber ohne Identifier — Datenfehler
				log.Error("Registry document without identifier", zap.String("nct_id", nctID))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "registry returned a study without identifier"})
				return
			}
			log.Error("Trial fetch failed", zap.String("nct_id", nctID), zap.Error(err))
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, trial)
	})

	rg.GET("/:nctId/summary", func(c *gin.Context) {
		nctID := c.Param("nctId")
		if !nctIDPattern.MatchString(nctID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid NCT id"})
			return
		}

		summary, err := summaries.Summarize(c.Request.Context(), nctID)
		if err != nil {
			log.Error("Summary generation failed", zap.String("nct_id", nctID), zap.Error(err))
			writeSummaryError(c, err)
			return
		}
		summariesGeneratedCounter.Inc()
		c.JSON(http.StatusOK, summary)
	})
}

func setupHealthRoutes(router *gin.Engine, llmClient llm.CompletionClient, log *zap.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live-Roundtrip zum LLM-Provider als Liveness-Probe
	router.GET("/health/llm", func(c *gin.Context) {
		reply, err := llmClient.HealthCheck(c.Request.Context())
		if err != nil {
			log.Error("LLM health check failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "LLM health check failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model_reply": reply})
	})
}

// writeUpstreamError übersetzt Registry-Fehler: 404 der Registry wird zu
// not-found, alles andere zu bad-gateway.
func writeUpstreamError(c *gin.Context, err error) {
	var upstream *clinicaltrials.UpstreamError
	if errors.As(err, &upstream) {
		if upstream.NotFound() {
			c.JSON(http.StatusNotFound, gin.H{"error": "trial not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream registry request failed"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream registry request failed"})
}

// writeSummaryError wählt die 502-Variante nach Fehlerart der Pipeline.
func writeSummaryError(c *gin.Context, err error) {
	var upstream *clinicaltrials.UpstreamError
	switch {
	case errors.As(err, &upstream) && upstream.NotFound():
		c.JSON(http.StatusNotFound, gin.H{"error": "trial not found"})
	case errors.Is(err, services.ErrInvalidModelOutput):
		c.JSON(http.StatusBadGateway, gin.H{"error": "LLM returned invalid JSON"})
	case errors.Is(err, services.ErrSchemaValidation):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary: schema validation failed"})
	case errors.Is(err, services.ErrLLMCall):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary: llm call failed"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary"})
	}
}

// clampQueryInt liest einen Integer-Query-Parameter und begrenzt ihn.
func clampQueryInt(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
