package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/GarfieldLoveLasagna/TrialLens/config"
	"github.com/GarfieldLoveLasagna/TrialLens/models"
	"github.com/GarfieldLoveLasagna/TrialLens/providers/clinicaltrials"
)

// TrialService kümmert sich um Suche und Abruf normalisierter Trials.
type TrialService struct {
	Config  *config.Config
	Fetcher *clinicaltrials.Fetcher
	Logger  *zap.Logger
}

// NewTrialService erstellt eine neue Instanz des TrialService.
func NewTrialService(cfg *config.Config, fetcher *clinicaltrials.Fetcher, logger *zap.Logger) *TrialService {
	return &TrialService{Config: cfg, Fetcher: fetcher, Logger: logger}
}

// Get holt eine einzelne Studie und normalisiert sie.
func (s *TrialService) Get(ctx context.Context, nctID string) (*models.Trial, error) {
	raw, err := s.Fetcher.GetStudy(ctx, nctID)
	if err != nil {
		return nil, err
	}
	return clinicaltrials.MapStudy(raw, s.Config.ClinicalTrialStudyURL)
}

// Search sucht Studien nach Condition und normalisiert die Treffer.
// Dokumente ohne nctId werden übersprungen, nicht als Fehler gewertet.
func (s *TrialService) Search(ctx context.Context, condition string, statuses []string, limit int) ([]*models.Trial, error) {
	docs, err := s.Fetcher.SearchStudies(ctx, condition, statuses, limit)
	if err != nil {
		return nil, err
	}

	trials := make([]*models.Trial, 0, len(docs))
	for _, doc := range docs {
		trial, err := clinicaltrials.MapStudy(doc, s.Config.ClinicalTrialStudyURL)
		if err != nil {
			s.Logger.Warn("Studie ohne Identifier im Suchergebnis übersprungen", zap.Error(err))
			continue
		}
		trials = append(trials, trial)
	}
	return trials, nil
}

// SearchCards sucht Studien und projiziert sie auf die Kartenansicht.
func (s *TrialService) SearchCards(ctx context.Context, condition string, statuses []string, limit, maxLocations int) ([]*models.TrialCard, error) {
	trials, err := s.Search(ctx, condition, statuses, limit)
	if err != nil {
		return nil, err
	}

	cards := make([]*models.TrialCard, 0, len(trials))
	for _, trial := range trials {
		cards = append(cards, ToTrialCard(trial, maxLocations))
	}
	return cards, nil
}

// ToTrialCard projiziert ein Trial auf die reduzierte Listenansicht.
// Die Standort-Vorschau zeigt höchstens maxLocations Einträge;
// LocationCount bleibt nil, wenn das Trial selbst keine Standortliste hat.
func ToTrialCard(t *models.Trial, maxLocations int) *models.TrialCard {
	card := &models.TrialCard{
		NCTID:            t.NCTID,
		URL:              t.URL,
		BriefTitle:       t.BriefTitle,
		Conditions:       t.Conditions,
		Status:           t.Status,
		Phase:            t.Phase,
		StudyType:        t.StudyType,
		LeadSponsor:      t.LeadSponsor,
		LastUpdatePosted: t.LastUpdatePosted,
	}

	if t.Locations != nil {
		count := len(t.Locations)
		card.LocationCount = &count

		preview := t.Locations
		if maxLocations < 0 {
			maxLocations = 0
		}
		if len(preview) > maxLocations {
			preview = preview[:maxLocations]
		}
		if len(preview) > 0 {
			card.Locations = preview
		}
	}
	return card
}
