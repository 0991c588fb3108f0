package clinicaltrials

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GarfieldLoveLasagna/TrialLens/models"
)

// ErrMissingNCTID bedeutet: das Dokument hat keinen Studien-Identifier.
// Das ist der einzige fatale Mapping-Fehler; alle anderen Felder degradieren
// zu "nicht vorhanden".
var ErrMissingNCTID = errors.New("missing nctId in study.identificationModule")

// Die Registry liefert auch partielle Daten wie "2024-01" oder "2024".
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// MapStudy konvertiert ein rohes ClinicalTrials.gov-Studiendokument in das
// interne Trial-Modell. studyBaseURL ist die Basis der kanonischen Studien-URL.
func MapStudy(study map[string]any, studyBaseURL string) (*models.Trial, error) {
	nctID := ""
	if p := digString(study, "protocolSection", "identificationModule", "nctId"); p != nil {
		nctID = *p
	}
	if nctID == "" {
		return nil, ErrMissingNCTID
	}

	t := &models.Trial{
		NCTID:      nctID,
		URL:        studyBaseURL + "/" + nctID,
		Conditions: []string{},
	}

	if p := digString(study, "protocolSection", "identificationModule", "briefTitle"); p != nil {
		t.BriefTitle = *p
	}
	t.OfficialTitle = digString(study, "protocolSection", "identificationModule", "officialTitle")

	if conds := stringList(digList(study, "protocolSection", "conditionsModule", "conditions")); conds != nil {
		t.Conditions = conds
	}
	t.Keywords = stringList(digList(study, "protocolSection", "conditionsModule", "keywords"))

	t.StudyType = digString(study, "protocolSection", "designModule", "studyType")
	t.Status = digString(study, "protocolSection", "statusModule", "overallStatus")

	t.StartDate = parseStudyDate(dig(study, "protocolSection", "statusModule", "startDateStruct"))
	t.PrimaryCompletionDate = parseStudyDate(dig(study, "protocolSection", "statusModule", "primaryCompletionDateStruct"))
	t.CompletionDate = parseStudyDate(dig(study, "protocolSection", "statusModule", "completionDateStruct"))
	t.LastUpdatePosted = parseStudyDate(dig(study, "protocolSection", "statusModule", "lastUpdateSubmitDate"))

	t.Phase = parsePhase(digList(study, "protocolSection", "designModule", "phases"))
	t.PrimaryPurpose = digString(study, "protocolSection", "designModule", "primaryPurpose")
	t.EnrollmentCount = parseEnrollment(dig(study, "protocolSection", "designModule", "enrollmentInfo", "count"))

	t.MinAge = digString(study, "protocolSection", "eligibilityModule", "minimumAge")
	t.MaxAge = digString(study, "protocolSection", "eligibilityModule", "maximumAge")
	t.Sex = digString(study, "protocolSection", "eligibilityModule", "sex")
	t.EligibilityCriteria = digString(study, "protocolSection", "eligibilityModule", "eligibilityCriteria")
	t.HealthyVolunteers = parseHealthyVolunteers(dig(study, "protocolSection", "eligibilityModule", "healthyVolunteers"))

	t.Interventions = parseInterventions(digList(study, "protocolSection", "armsInterventionsModule", "interventions"))
	t.PrimaryOutcomes = parseOutcomes(digList(study, "protocolSection", "outcomesModule", "primaryOutcomes"))
	t.Locations = parseLocations(digList(study, "protocolSection", "contactsLocationsModule", "locations"))
	t.Contacts = parseContacts(digList(study, "protocolSection", "contactsLocationsModule", "centralContacts"))

	t.LeadSponsor = digString(study, "protocolSection", "sponsorCollaboratorsModule", "leadSponsor", "name")
	t.Collaborators = parseCollaborators(digList(study, "protocolSection", "sponsorCollaboratorsModule", "collaborators"))

	return t, nil
}

// parseStudyDate akzeptiert beide Datumsformen der Registry:
// ein nackter ISO-String oder eine {date, type}-Struktur.
func parseStudyDate(v any) *time.Time {
	switch d := v.(type) {
	case string:
		return parseDate(d)
	case map[string]any:
		if s, ok := d["date"].(string); ok {
			return parseDate(s)
		}
	}
	return nil
}

// parseDate parst ein (ggf. partielles) Datum; kaputte Strings werden zu nil.
func parseDate(s string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parsePhase nimmt das erste Element der Phasenliste; das Sentinel "NA"
// der Registry zählt als "keine Phase".
func parsePhase(phases []any) *string {
	if len(phases) == 0 {
		return nil
	}
	s, ok := phases[0].(string)
	if !ok || s == "" || s == "NA" {
		return nil
	}
	return &s
}

// parseEnrollment akzeptiert native Zahlen und numerische Strings.
func parseEnrollment(v any) *int {
	switch c := v.(type) {
	case float64:
		n := int(c)
		return &n
	case string:
		if n, err := strconv.Atoi(c); err == nil {
			return &n
		}
	}
	return nil
}

// parseHealthyVolunteers ist dreiwertig: true, false oder unbekannt (nil).
// Unbekannt darf nie zu false kollabieren.
func parseHealthyVolunteers(v any) *bool {
	switch hv := v.(type) {
	case bool:
		return &hv
	case string:
		up := strings.ToUpper(strings.TrimSpace(hv))
		switch {
		case strings.Contains(up, "ACCEPT"), up == "YES", up == "Y", up == "TRUE":
			b := true
			return &b
		case up == "NO", up == "N", up == "FALSE":
			b := false
			return &b
		}
	}
	return nil
}

// parseInterventions rendert Einträge als "Name (Typ)" bzw. nur als Name.
// Einträge ohne Namen fliegen raus.
func parseInterventions(raw []any) []string {
	var out []string
	for _, v := range raw {
		it, ok := v.(map[string]any)
		if !ok {
			continue
		}
		name, _ := it["name"].(string)
		if name == "" {
			continue
		}
		if itype, _ := it["type"].(string); itype != "" {
			out = append(out, fmt.Sprintf("%s (%s)", name, itype))
		} else {
			out = append(out, name)
		}
	}
	return out
}

// parseOutcomes übernimmt primäre Endpunkte; ohne measure kein Eintrag.
func parseOutcomes(raw []any) []models.TrialOutcome {
	var out []models.TrialOutcome
	for _, v := range raw {
		o, ok := v.(map[string]any)
		if !ok {
			continue
		}
		measure, _ := o["measure"].(string)
		if measure == "" {
			continue
		}
		out = append(out, models.TrialOutcome{
			Measure:     measure,
			TimeFrame:   optString(o["timeFrame"]),
			Description: optString(o["description"]),
		})
	}
	return out
}

// parseLocations normalisiert Standorte; facility kommt mal als String,
// mal als {name}-Objekt.
func parseLocations(raw []any) []models.TrialLocation {
	var out []models.TrialLocation
	for _, v := range raw {
		loc, ok := v.(map[string]any)
		if !ok {
			continue
		}
		var facility *string
		switch fac := loc["facility"].(type) {
		case string:
			facility = &fac
		case map[string]any:
			facility = optString(fac["name"])
		}
		out = append(out, models.TrialLocation{
			Facility: facility,
			City:     optString(loc["city"]),
			State:    optString(loc["state"]),
			Country:  optString(loc["country"]),
			Status:   optString(loc["status"]),
		})
	}
	return out
}

// parseContacts übernimmt zentrale Ansprechpartner mit Default-Rolle.
func parseContacts(raw []any) []models.TrialContact {
	var out []models.TrialContact
	for _, v := range raw {
		c, ok := v.(map[string]any)
		if !ok {
			continue
		}
		role, _ := c["role"].(string)
		if role == "" {
			role = "Central Contact"
		}
		out = append(out, models.TrialContact{
			Name:  optString(c["name"]),
			Role:  role,
			Phone: optString(c["phone"]),
			Email: optString(c["email"]),
		})
	}
	return out
}

func parseCollaborators(raw []any) []string {
	var out []string
	for _, v := range raw {
		if c, ok := v.(map[string]any); ok {
			if name, _ := c["name"].(string); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func optString(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}
