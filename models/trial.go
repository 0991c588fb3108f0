package models

import (
	"time"
)

// Trial repräsentiert eine normalisierte Studie von ClinicalTrials.gov.
// Optionale Skalare sind Pointer, optionale Listen sind nil wenn die Quelle
// nichts liefert — eine leere Liste steht nie für "unbekannt".
type Trial struct {
	NCTID         string  `json:"nct_id"`
	URL           string  `json:"url"`
	BriefTitle    string  `json:"brief_title"`
	OfficialTitle *string `json:"official_title,omitempty"`

	Conditions []string `json:"conditions"`
	Keywords   []string `json:"keywords,omitempty"`

	StudyType *string `json:"study_type,omitempty"`
	Status    *string `json:"status,omitempty"`

	StartDate             *time.Time `json:"start_date,omitempty"`
	PrimaryCompletionDate *time.Time `json:"primary_completion_date,omitempty"`
	CompletionDate        *time.Time `json:"completion_date,omitempty"`
	LastUpdatePosted      *time.Time `json:"last_update_posted,omitempty"`

	Phase           *string `json:"phase,omitempty"`
	PrimaryPurpose  *string `json:"primary_purpose,omitempty"`
	EnrollmentCount *int    `json:"enrollment_count,omitempty"`

	MinAge              *string `json:"min_age,omitempty"`
	MaxAge              *string `json:"max_age,omitempty"`
	Sex                 *string `json:"sex,omitempty"`
	HealthyVolunteers   *bool   `json:"healthy_volunteers,omitempty"`
	EligibilityCriteria *string `json:"eligibility_criteria,omitempty"`

	Interventions   []string        `json:"interventions,omitempty"`
	PrimaryOutcomes []TrialOutcome  `json:"primary_outcomes,omitempty"`
	Locations       []TrialLocation `json:"locations,omitempty"`
	Contacts        []TrialContact  `json:"contacts,omitempty"`

	LeadSponsor   *string  `json:"lead_sponsor,omitempty"`
	Collaborators []string `json:"collaborators,omitempty"`
}

// TrialOutcome ist ein primärer Endpunkt der Studie.
type TrialOutcome struct {
	Measure     string  `json:"measure"`
	TimeFrame   *string `json:"time_frame,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TrialLocation ist ein Studienstandort; alle Felder sind optional.
type TrialLocation struct {
	Facility *string `json:"facility,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Country  *string `json:"country,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// TrialContact ist ein zentraler Ansprechpartner der Studie.
type TrialContact struct {
	Name  *string `json:"name,omitempty"`
	Role  string  `json:"role"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// TrialCard ist die reduzierte Listenansicht eines Trials.
// LocationCount ist genau dann gesetzt, wenn das Quellfeld vorhanden war.
type TrialCard struct {
	NCTID            string          `json:"nct_id"`
	URL              string          `json:"url"`
	BriefTitle       string          `json:"brief_title"`
	Conditions       []string        `json:"conditions"`
	Status           *string         `json:"status,omitempty"`
	Phase            *string         `json:"phase,omitempty"`
	StudyType        *string         `json:"study_type,omitempty"`
	LeadSponsor      *string         `json:"lead_sponsor,omitempty"`
	LastUpdatePosted *time.Time      `json:"last_update_posted,omitempty"`
	Locations        []TrialLocation `json:"locations,omitempty"`
	LocationCount    *int            `json:"location_count,omitempty"`
}
