package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	AppName    string `envconfig:"APP_NAME" default:"TrialLens"`
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	AppVersion string `envconfig:"APP_VERSION" default:"0.1.0"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// LLM (Gemini) — ohne Key und Modell startet der Prozess nicht
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" required:"true"`

	// ClinicalTrials.gov v2 API
	ClinicalTrialBaseURL  string `envconfig:"CLINICAL_TRIAL_BASE_URL" default:"https://clinicaltrials.gov/api/v2/studies"`
	ClinicalTrialStudyURL string `envconfig:"CLINICAL_TRIAL_STUDY_URL" default:"https://clinicaltrials.gov/study"`

	// Optionaler Cron-Plan für den LLM-Liveness-Check (leer = deaktiviert)
	LLMHealthCron string `envconfig:"LLM_HEALTH_CRON"`
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
