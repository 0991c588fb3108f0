package llm

import (
	"time"

	"github.com/GarfieldLoveLasagna/TrialLens/models"
)

// Harte Obergrenzen, damit der Prompt unabhängig vom Datenvolumen der
// Registry klein bleibt.
const (
	payloadLocationLimit = 10
	payloadOutcomeLimit  = 10
	payloadContactLimit  = 5
)

// SummaryInput ist der minimierte Payload, den das LLM als Kontext sieht.
// Anders als im Trial-Modell werden fehlende Listen hier bewusst zu leeren
// Listen — das Modell kann "fehlt" und "leer" ohnehin nicht sinnvoll
// unterscheiden.
type SummaryInput struct {
	NCTID                 string                 `json:"nct_id"`
	Title                 string                 `json:"title"`
	BriefTitle            string                 `json:"brief_title"`
	OfficialTitle         *string                `json:"official_title"`
	Conditions            []string               `json:"conditions"`
	Keywords              []string               `json:"keywords"`
	StudyType             *string                `json:"study_type"`
	Status                *string                `json:"status"`
	Phase                 *string                `json:"phase"`
	PrimaryPurpose        *string                `json:"primary_purpose"`
	EnrollmentCount       *int                   `json:"enrollment_count"`
	StartDate             *string                `json:"start_date"`
	PrimaryCompletionDate *string                `json:"primary_completion_date"`
	CompletionDate        *string                `json:"completion_date"`
	LastUpdatePosted      *string                `json:"last_update_posted"`
	Sex                   *string                `json:"sex"`
	MinAge                *string                `json:"min_age"`
	MaxAge                *string                `json:"max_age"`
	HealthyVolunteers     *bool                  `json:"healthy_volunteers"`
	EligibilityCriteria   *string                `json:"eligibility_criteria"`
	Interventions         []string               `json:"interventions"`
	PrimaryOutcomes       []models.TrialOutcome  `json:"primary_outcomes"`
	Locations             []models.TrialLocation `json:"locations"`
	Contacts              []models.TrialContact  `json:"contacts"`
	LeadSponsor           *string                `json:"lead_sponsor"`
	Collaborators         []string               `json:"collaborators"`
	SourceURL             string                 `json:"source_url"`
}

// BuildSummaryInput projiziert ein Trial auf den LLM-Payload:
// offizieller Titel vor Kurztitel, ISO-Daten, Listen gekappt.
func BuildSummaryInput(t *models.Trial) SummaryInput {
	title := t.BriefTitle
	if t.OfficialTitle != nil && *t.OfficialTitle != "" {
		title = *t.OfficialTitle
	}

	return SummaryInput{
		NCTID:                 t.NCTID,
		Title:                 title,
		BriefTitle:            t.BriefTitle,
		OfficialTitle:         t.OfficialTitle,
		Conditions:            head(t.Conditions, len(t.Conditions)),
		Keywords:              head(t.Keywords, len(t.Keywords)),
		StudyType:             t.StudyType,
		Status:                t.Status,
		Phase:                 t.Phase,
		PrimaryPurpose:        t.PrimaryPurpose,
		EnrollmentCount:       t.EnrollmentCount,
		StartDate:             isoDate(t.StartDate),
		PrimaryCompletionDate: isoDate(t.PrimaryCompletionDate),
		CompletionDate:        isoDate(t.CompletionDate),
		LastUpdatePosted:      isoDate(t.LastUpdatePosted),
		Sex:                   t.Sex,
		MinAge:                t.MinAge,
		MaxAge:                t.MaxAge,
		HealthyVolunteers:     t.HealthyVolunteers,
		EligibilityCriteria:   t.EligibilityCriteria,
		Interventions:         head(t.Interventions, len(t.Interventions)),
		PrimaryOutcomes:       head(t.PrimaryOutcomes, payloadOutcomeLimit),
		Locations:             head(t.Locations, payloadLocationLimit),
		Contacts:              head(t.Contacts, payloadContactLimit),
		LeadSponsor:           t.LeadSponsor,
		Collaborators:         head(t.Collaborators, len(t.Collaborators)),
		SourceURL:             t.URL,
	}
}

// head kopiert höchstens n Elemente und liefert nie nil — nil-Slices würden
// im Payload als JSON-null landen statt als leere Liste.
func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func isoDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
