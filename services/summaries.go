package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GarfieldLoveLasagna/TrialLens/config"
	"github.com/GarfieldLoveLasagna/TrialLens/llm"
	"github.com/GarfieldLoveLasagna/TrialLens/models"
	"github.com/GarfieldLoveLasagna/TrialLens/providers/clinicaltrials"
)

// Fehlerarten der Summary-Pipeline. Die API-Schicht unterscheidet darüber
// die 502-Varianten; intern gibt es keinerlei Retry oder Recovery.
var (
	// ErrLLMCall: der Provider-Aufruf selbst ist fehlgeschlagen (Auth,
	// Timeout, Rate-Limit, Netz).
	ErrLLMCall = errors.New("llm call failed")
	// ErrInvalidModelOutput: das Modell hat kein parsebares JSON geliefert.
	ErrInvalidModelOutput = errors.New("llm returned invalid JSON")
	// ErrSchemaValidation: parsebares JSON, aber nicht schema-konform.
	ErrSchemaValidation = errors.New("llm output failed schema validation")
)

// SummaryService orchestriert die Pipeline
// fetch → map → input → prompt → complete → parse für eine NCT-ID.
type SummaryService struct {
	Config  *config.Config
	Fetcher *clinicaltrials.Fetcher
	LLM     llm.CompletionClient
	Logger  *zap.Logger

	validate *validator.Validate
}

// NewSummaryService erstellt eine neue Instanz des SummaryService.
func NewSummaryService(cfg *config.Config, fetcher *clinicaltrials.Fetcher, client llm.CompletionClient, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		Config:   cfg,
		Fetcher:  fetcher,
		LLM:      client,
		Logger:   logger,
		validate: validator.New(),
	}
}

// Summarize erzeugt die patientenfreundliche Zusammenfassung einer Studie.
// Die fünf Stufen laufen strikt sequenziell; jeder Fehler schlägt mit seiner
// Fehlerart zum Aufrufer durch.
func (s *SummaryService) Summarize(ctx context.Context, nctID string) (*models.TrialSummary, error) {
	log := s.Logger.With(zap.String("nct_id", nctID))

	raw, err := s.Fetcher.GetStudy(ctx, nctID)
	if err != nil {
		return nil, err
	}

	trial, err := clinicaltrials.MapStudy(raw, s.Config.ClinicalTrialStudyURL)
	if err != nil {
		return nil, err
	}

	input := llm.BuildSummaryInput(trial)
	prompt, err := llm.BuildSummaryPrompt(input)
	if err != nil {
		return nil, err
	}

	log.Info("Fordere Zusammenfassung vom LLM an",
		zap.String("model", s.LLM.Name()),
		zap.String("prompt_version", llm.PromptVersion),
		zap.Int("prompt_bytes", len(prompt)))

	text, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMCall, err)
	}

	summary, err := s.parseSummary(text)
	if err != nil {
		log.Error("Modell-Output konnte nicht übernommen werden", zap.Error(err))
		return nil, err
	}

	log.Info("Zusammenfassung erzeugt", zap.String("source_url", summary.SourceURL))
	return summary, nil
}

// parseSummary parst und validiert den rohen Modelltext. Disclaimer und
// Zeitstempel kommen danach immer vom Server — Modell-Output für diese
// Felder ist nicht vertrauenswürdig, auch wenn er schema-valide wäre.
func (s *SummaryService) parseSummary(raw string) (*models.TrialSummary, error) {
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: output is not parseable as JSON", ErrInvalidModelOutput)
	}

	var summary models.TrialSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := s.validate.Struct(&summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	summary.GeneratedAt = time.Now().UTC()
	summary.SafetyDisclaimer = models.SafetyDisclaimer
	return &summary, nil
}
