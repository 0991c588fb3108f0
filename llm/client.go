package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"github.com/GarfieldLoveLasagna/TrialLens/config"
)

// completionTimeout deckelt jeden LLM-Aufruf; der Provider selbst
// garantiert kein Timeout.
const completionTimeout = 60 * time.Second

// Niedrige Temperatur für deterministische, faktennahe Antworten.
const completionTemperature = float32(0.2)

// CompletionClient ist die Chat-Completion-Fähigkeit, die die Services
// brauchen: ein Prompt rein, roher Antworttext raus. Kein Multi-Turn.
type CompletionClient interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) (string, error)
}

// GeminiClient ist ein dünner Wrapper um den offiziellen genai-Client.
type GeminiClient struct {
	cli    *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient erstellt den Client mit injizierten Credentials aus der
// Konfiguration — keine prozessweiten Globals.
func NewGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: cfg.GeminiModel, logger: logger}, nil
}

// Name gibt den Namen des Clients inklusive Modell zurück.
func (g *GeminiClient) Name() string {
	return "gemini:" + g.model
}

// Complete führt genau einen Completion-Aufruf aus. Kein Retry: jeder
// Provider-Fehler schlägt als einzelner Fehler zum Aufrufer durch.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	g.logger.Debug("Sende Prompt an Gemini",
		zap.String("model", g.model),
		zap.Int("prompt_bytes", len(prompt)))

	temp := completionTemperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty completion from model")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// HealthCheck macht einen kleinen Live-Roundtrip als Liveness-Probe.
func (g *GeminiClient) HealthCheck(ctx context.Context) (string, error) {
	return g.Complete(ctx, "What is the best French cheese?")
}
