package clinicaltrials

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GarfieldLoveLasagna/TrialLens/config"
)

var httpClient = &http.Client{Timeout: 20 * time.Second}

// UpstreamError transportiert den HTTP-Status der Registry, damit die
// API-Schicht 404 von anderen Upstream-Fehlern unterscheiden kann.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("clinicaltrials request failed: status %d", e.StatusCode)
}

// NotFound meldet, ob die Registry die Studie nicht kennt.
func (e *UpstreamError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Fetcher kapselt die Abfragen gegen die ClinicalTrials.gov v2 API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen ClinicalTrials-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// SearchStudies sucht Studien nach Condition und optionalem Status-Filter
// und liefert die rohen Studiendokumente. Das Limit begrenzt der Aufrufer.
func (f *Fetcher) SearchStudies(ctx context.Context, condition string, statuses []string, limit int) ([]map[string]any, error) {
	log := f.Logger.With(zap.String("condition", condition))
	log.Info("Starte Suche auf ClinicalTrials.gov.")

	params := url.Values{}
	params.Set("query.cond", condition)
	params.Set("pageSize", strconv.Itoa(limit))
	if len(statuses) > 0 {
		params.Set("filter.overallStatus", strings.Join(statuses, "|"))
	}
	searchURL := f.Config.ClinicalTrialBaseURL + "?" + params.Encode()
	log.Debug("Rufe ClinicalTrials-Such-URL auf", zap.String("url", searchURL))

	doc, err := f.getJSON(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	raw, _ := doc["studies"].([]any)
	studies := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if study, ok := v.(map[string]any); ok {
			studies = append(studies, study)
		}
	}
	log.Info("Suche auf ClinicalTrials.gov abgeschlossen", zap.Int("found_studies", len(studies)))
	return studies, nil
}

// GetStudy holt ein einzelnes rohes Studiendokument per NCT-ID.
func (f *Fetcher) GetStudy(ctx context.Context, nctID string) (map[string]any, error) {
	log := f.Logger.With(zap.String("nct_id", nctID))
	log.Info("Hole Studie von ClinicalTrials.gov.")
	return f.getJSON(ctx, f.Config.ClinicalTrialBaseURL+"/"+nctID)
}

// getJSON führt einen GET aus und dekodiert die JSON-Antwort.
// Nicht-2xx-Antworten werden als UpstreamError mit Statuscode gemeldet.
func (f *Fetcher) getJSON(ctx context.Context, rawURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clinicaltrials request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		f.Logger.Error("ClinicalTrials-API hat nicht-2xx-Status zurückgegeben",
			zap.Int("status", resp.StatusCode),
			zap.String("url", rawURL))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("clinicaltrials response decode failed: %w", err)
	}
	return doc, nil
}
