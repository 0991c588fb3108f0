package models

import (
	"time"
)

// SafetyDisclaimer wird jeder Zusammenfassung serverseitig angehängt.
// Modell-Output für dieses Feld wird immer verworfen.
const SafetyDisclaimer = "Informational only. This summary is based on publicly available ClinicalTrials.gov data and may be incomplete " +
	"or outdated. It is not medical advice. Always discuss trial eligibility, risks, and benefits with a qualified " +
	"healthcare professional and the study team."

// EligibilityHighlights sind grobe Eignungs-Bullets in einfacher Sprache.
// Sie spiegeln nur den Datensatz wider, keine medizinische Beratung.
type EligibilityHighlights struct {
	LikelyEligibleIf    []string `json:"likely_eligible_if"`
	LikelyNotEligibleIf []string `json:"likely_not_eligible_if"`
	UnknownOrUnclear    []string `json:"unknown_or_unclear"`
}

// ParticipationInfo enthält praktische Teilnahme-Hinweise, sofern der
// Datensatz sie hergibt. Die drei Freitextfelder bleiben nil statt geraten.
type ParticipationInfo struct {
	WhatItInvolves       []string `json:"what_it_involves"`
	TimeCommitment       *string  `json:"time_commitment"`
	LocationNotes        *string  `json:"location_notes"`
	CostsAndCompensation *string  `json:"costs_and_compensation"`
}

// TrialSummary ist die patientenfreundliche LLM-Zusammenfassung einer Studie.
// GeneratedAt und SafetyDisclaimer werden serverseitig gesetzt und niemals
// vom Modell übernommen.
type TrialSummary struct {
	NCTID       string    `json:"nct_id" validate:"required"`
	SourceURL   string    `json:"source_url" validate:"required"`
	GeneratedAt time.Time `json:"generated_at"`

	PlainEnglishSummary string `json:"plain_english_summary" validate:"required"`

	KeyFacts      []string              `json:"key_facts"`
	Eligibility   EligibilityHighlights `json:"eligibility"`
	Participation ParticipationInfo     `json:"participation"`

	QuestionsToAskYourDoctor []string `json:"questions_to_ask_your_doctor"`

	SafetyDisclaimer string   `json:"safety_disclaimer"`
	Limitations      []string `json:"limitations"`
}
