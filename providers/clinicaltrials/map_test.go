package clinicaltrials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStudyBaseURL = "https://clinicaltrials.gov/study"

// studyDoc baut ein rohes Studiendokument mit den gegebenen Modulen.
func studyDoc(modules map[string]any) map[string]any {
	return map[string]any{"protocolSection": modules}
}

func identModule(nctID string) map[string]any {
	return map[string]any{"nctId": nctID, "briefTitle": "Test Study"}
}

func TestMapStudyMissingNCTID(t *testing.T) {
	cases := []map[string]any{
		{},
		studyDoc(map[string]any{}),
		studyDoc(map[string]any{"identificationModule": map[string]any{}}),
		studyDoc(map[string]any{"identificationModule": map[string]any{"nctId": ""}}),
		studyDoc(map[string]any{"identificationModule": map[string]any{"nctId": float64(42)}}),
	}
	for _, doc := range cases {
		_, err := MapStudy(doc, testStudyBaseURL)
		assert.ErrorIs(t, err, ErrMissingNCTID)
	}
}

func TestMapStudyPreservesIdentifierAndURL(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{"identificationModule": identModule("NCT00000001")}), testStudyBaseURL)
	require.NoError(t, err)

	assert.Equal(t, "NCT00000001", trial.NCTID)
	assert.Equal(t, testStudyBaseURL+"/NCT00000001", trial.URL)
	assert.Equal(t, "Test Study", trial.BriefTitle)
	assert.Equal(t, []string{}, trial.Conditions)
}

func TestMapStudyPhaseNormalization(t *testing.T) {
	cases := []struct {
		phases []any
		want   *string
	}{
		{[]any{"NA"}, nil},
		{[]any{"PHASE2"}, strPtr("PHASE2")},
		{[]any{"PHASE1", "PHASE2"}, strPtr("PHASE1")},
		{[]any{}, nil},
		{nil, nil},
	}
	for _, tc := range cases {
		modules := map[string]any{"identificationModule": identModule("NCT00000001")}
		if tc.phases != nil {
			modules["designModule"] = map[string]any{"phases": tc.phases}
		}
		trial, err := MapStudy(studyDoc(modules), testStudyBaseURL)
		require.NoError(t, err)
		assert.Equal(t, tc.want, trial.Phase)
	}
}

func TestMapStudyHealthyVolunteersTriState(t *testing.T) {
	cases := []struct {
		value any
		want  *bool
	}{
		{"Accepts Healthy Volunteers", boolPtr(true)},
		{"yes", boolPtr(true)},
		{"No", boolPtr(false)},
		{"Maybe", nil},
		{true, boolPtr(true)},
		{false, boolPtr(false)},
		{nil, nil},
		{float64(1), nil},
	}
	for _, tc := range cases {
		modules := map[string]any{"identificationModule": identModule("NCT00000001")}
		if tc.value != nil {
			modules["eligibilityModule"] = map[string]any{"healthyVolunteers": tc.value}
		}
		trial, err := MapStudy(studyDoc(modules), testStudyBaseURL)
		require.NoError(t, err)
		assert.Equal(t, tc.want, trial.HealthyVolunteers, "healthyVolunteers=%v", tc.value)
	}
}

func TestMapStudyDateForms(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"statusModule": map[string]any{
			"startDateStruct":             map[string]any{"date": "2024-01-10", "type": "ACTUAL"},
			"primaryCompletionDateStruct": "2025-03-01",
			"completionDateStruct":        map[string]any{"date": "2026-02"},
			"lastUpdateSubmitDate":        "kaputt",
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	require.NotNil(t, trial.StartDate)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), *trial.StartDate)
	require.NotNil(t, trial.PrimaryCompletionDate)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *trial.PrimaryCompletionDate)
	require.NotNil(t, trial.CompletionDate)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *trial.CompletionDate)
	assert.Nil(t, trial.LastUpdatePosted)
}

func TestMapStudyEnrollmentCount(t *testing.T) {
	cases := []struct {
		value any
		want  *int
	}{
		{float64(120), intPtr(120)},
		{"85", intPtr(85)},
		{"lots", nil},
		{true, nil},
	}
	for _, tc := range cases {
		trial, err := MapStudy(studyDoc(map[string]any{
			"identificationModule": identModule("NCT00000001"),
			"designModule":         map[string]any{"enrollmentInfo": map[string]any{"count": tc.value}},
		}), testStudyBaseURL)
		require.NoError(t, err)
		assert.Equal(t, tc.want, trial.EnrollmentCount, "count=%v", tc.value)
	}
}

func TestMapStudyInterventions(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"armsInterventionsModule": map[string]any{
			"interventions": []any{
				map[string]any{"name": "Aspirin", "type": "DRUG"},
				map[string]any{"name": "Placebo"},
				map[string]any{"type": "DRUG"},
				"not an object",
			},
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	assert.Equal(t, []string{"Aspirin (DRUG)", "Placebo"}, trial.Interventions)
}

func TestMapStudyOutcomesDropWithoutMeasure(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"outcomesModule": map[string]any{
			"primaryOutcomes": []any{
				map[string]any{"measure": "FEV1", "timeFrame": "8 weeks"},
				map[string]any{"description": "no measure"},
			},
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	require.Len(t, trial.PrimaryOutcomes, 1)
	assert.Equal(t, "FEV1", trial.PrimaryOutcomes[0].Measure)
	require.NotNil(t, trial.PrimaryOutcomes[0].TimeFrame)
	assert.Equal(t, "8 weeks", *trial.PrimaryOutcomes[0].TimeFrame)
}

func TestMapStudyLocationFacilityForms(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"contactsLocationsModule": map[string]any{
			"locations": []any{
				map[string]any{"facility": "Uniklinik Köln", "city": "Cologne", "country": "Germany"},
				map[string]any{"facility": map[string]any{"name": "General Hospital"}},
				map[string]any{"city": "Boston"},
			},
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	require.Len(t, trial.Locations, 3)
	assert.Equal(t, "Uniklinik Köln", *trial.Locations[0].Facility)
	assert.Equal(t, "General Hospital", *trial.Locations[1].Facility)
	assert.Nil(t, trial.Locations[2].Facility)
}

func TestMapStudyContactsDefaultRole(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"contactsLocationsModule": map[string]any{
			"centralContacts": []any{
				map[string]any{"name": "Dr. A", "role": "STUDY_DIRECTOR"},
				map[string]any{"name": "Dr. B", "email": "b@example.org"},
			},
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	require.Len(t, trial.Contacts, 2)
	assert.Equal(t, "STUDY_DIRECTOR", trial.Contacts[0].Role)
	assert.Equal(t, "Central Contact", trial.Contacts[1].Role)
}

func TestMapStudyEmptyListsCollapseToAbsent(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"conditionsModule":     map[string]any{"keywords": []any{}},
		"armsInterventionsModule": map[string]any{
			"interventions": []any{map[string]any{"type": "DRUG"}},
		},
		"contactsLocationsModule": map[string]any{"locations": []any{}},
		"sponsorCollaboratorsModule": map[string]any{
			"collaborators": []any{map[string]any{}},
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	assert.Nil(t, trial.Keywords)
	assert.Nil(t, trial.Interventions)
	assert.Nil(t, trial.Locations)
	assert.Nil(t, trial.Collaborators)
}

func TestMapStudySponsors(t *testing.T) {
	trial, err := MapStudy(studyDoc(map[string]any{
		"identificationModule": identModule("NCT00000001"),
		"sponsorCollaboratorsModule": map[string]any{
			"leadSponsor":   map[string]any{"name": "Acme Pharma"},
			"collaborators": []any{map[string]any{"name": "University X"}, map[string]any{"name": ""}},
		},
	}), testStudyBaseURL)
	require.NoError(t, err)

	require.NotNil(t, trial.LeadSponsor)
	assert.Equal(t, "Acme Pharma", *trial.LeadSponsor)
	assert.Equal(t, []string{"University X"}, trial.Collaborators)
}

func TestMapStudyIdempotent(t *testing.T) {
	doc := studyDoc(map[string]any{
		"identificationModule": map[string]any{
			"nctId":         "NCT00000001",
			"briefTitle":    "Test Study",
			"officialTitle": "An Official Test Study",
		},
		"statusModule":     map[string]any{"overallStatus": "RECRUITING", "startDateStruct": map[string]any{"date": "2024-01-10"}},
		"conditionsModule": map[string]any{"conditions": []any{"Asthma"}},
		"designModule":     map[string]any{"studyType": "INTERVENTIONAL", "phases": []any{"PHASE2"}},
	})

	first, err := MapStudy(doc, testStudyBaseURL)
	require.NoError(t, err)
	second, err := MapStudy(doc, testStudyBaseURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
