package clinicaltrials

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GarfieldLoveLasagna/TrialLens/config"
)

func newTestFetcher(baseURL string) *Fetcher {
	cfg := &config.Config{
		ClinicalTrialBaseURL:  baseURL,
		ClinicalTrialStudyURL: testStudyBaseURL,
	}
	return NewFetcher(cfg, zap.NewNop())
}

func TestSearchStudiesBuildsQueryAndDecodes(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"studies": []any{
				map[string]any{"protocolSection": map[string]any{}},
				"not an object",
			},
		})
	}))
	defer srv.Close()

	studies, err := newTestFetcher(srv.URL).SearchStudies(context.Background(), "asthma", []string{"RECRUITING", "COMPLETED"}, 25)
	require.NoError(t, err)

	assert.Len(t, studies, 1)
	assert.Equal(t, []string{"asthma"}, gotQuery["query.cond"])
	assert.Equal(t, []string{"25"}, gotQuery["pageSize"])
	assert.Equal(t, []string{"RECRUITING|COMPLETED"}, gotQuery["filter.overallStatus"])
}

func TestSearchStudiesOmitsEmptyStatusFilter(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"studies": []any{}})
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).SearchStudies(context.Background(), "asthma", nil, 10)
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "filter.overallStatus")
}

func TestGetStudyFetchesByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/NCT00000001", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"protocolSection": map[string]any{
				"identificationModule": map[string]any{"nctId": "NCT00000001"},
			},
		})
	}))
	defer srv.Close()

	doc, err := newTestFetcher(srv.URL).GetStudy(context.Background(), "NCT00000001")
	require.NoError(t, err)
	assert.Equal(t, "NCT00000001", dig(doc, "protocolSection", "identificationModule", "nctId"))
}

func TestGetStudyPreservesUpstreamStatus(t *testing.T) {
	cases := []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway}
	for _, status := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", status)
		}))

		_, err := newTestFetcher(srv.URL).GetStudy(context.Background(), "NCT00000001")
		srv.Close()

		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream, "status=%d", status)
		assert.Equal(t, status, upstream.StatusCode)
		assert.Equal(t, status == http.StatusNotFound, upstream.NotFound())
	}
}

func TestGetStudyRejectsBrokenJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).GetStudy(context.Background(), "NCT00000001")
	require.Error(t, err)
	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
