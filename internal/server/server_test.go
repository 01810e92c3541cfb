package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/assembler"
	"github.com/visapath/visapath-cli/internal/config"
)

// stubCatalog answers every lookup with fixed data.
type stubCatalog struct {
	info     schemas.OccupationInfo
	states   []string
	pathways []schemas.Pathway
}

func (s *stubCatalog) OccupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	return s.info, nil
}

func (s *stubCatalog) States(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	return s.states, nil
}

func (s *stubCatalog) Pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	return s.pathways, nil
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ListenAddr: ":0",
		RateLimit:  1000,
		RateBurst:  1000,
	}
}

func newTestServer(t *testing.T, cfg config.ServerConfig) *Server {
	t.Helper()
	cat := &stubCatalog{
		info: schemas.OccupationInfo{
			Name:      "Software Engineer",
			VisaCodes: []schemas.VisaCode{schemas.Visa189, schemas.Visa190},
		},
		states:   []string{"NSW", "VIC"},
		pathways: []schemas.Pathway{{ID: "general", Title: "General stream"}},
	}
	asm, err := assembler.New(cat, zap.NewNop())
	require.NoError(t, err)

	srv, err := New(cfg, asm, cat, zap.NewNop())
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func validRequest() map[string]interface{} {
	return map[string]interface{}{
		"profile": map[string]interface{}{
			"age":          30,
			"englishLevel": "Superior",
			"occupation":   map[string]string{"occupationId": "software-engineer", "anzscoCode": "261313"},
		},
		"selection": map[string]string{"selectedVisa": "190", "selectedState": "NSW"},
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testServerConfig())
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDecisionGraphEndpoint(t *testing.T) {
	srv := newTestServer(t, testServerConfig())

	t.Run("returns a full assessment", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/decision-graph", validRequest())
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result assembler.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.NotEmpty(t, result.AssessmentID)
		assert.Equal(t, []string{"NSW", "VIC"}, result.States)
		assert.NotEmpty(t, result.Graph.Nodes)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/decision-graph", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing occupation", func(t *testing.T) {
		body := validRequest()
		body["profile"] = map[string]interface{}{"age": 30}
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/decision-graph", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed classification code", func(t *testing.T) {
		body := validRequest()
		body["profile"] = map[string]interface{}{
			"occupation": map[string]string{"anzscoCode": "26x"},
		}
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/decision-graph", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an unknown visa subclass", func(t *testing.T) {
		body := validRequest()
		body["selection"] = map[string]string{"selectedVisa": "888"}
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/decision-graph", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBreakdownEndpoint(t *testing.T) {
	srv := newTestServer(t, testServerConfig())

	profile := map[string]interface{}{
		"age":          30,
		"englishLevel": "Superior",
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown", profile)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Breakdown map[string]int            `json:"breakdown"`
		Score     int                       `json:"score"`
		Outlook   map[string]schemas.Status `json:"outlook"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.Score)
	assert.Equal(t, 30, resp.Breakdown["age"])
	assert.Equal(t, 20, resp.Breakdown["english"])
	// Base 50: 189 fails, 190 reaches 55 (warn), 491 reaches 65 (ok).
	assert.Equal(t, schemas.StatusFail, resp.Outlook["189"])
	assert.Equal(t, schemas.StatusWarn, resp.Outlook["190"])
	assert.Equal(t, schemas.StatusOK, resp.Outlook["491"])
}

func TestEligibilityEndpoints(t *testing.T) {
	srv := newTestServer(t, testServerConfig())

	t.Run("states lookup", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/eligibility/states?occupation_id=software-engineer&visa=190", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"states":["NSW","VIC"]}`, rec.Body.String())
	})

	t.Run("states lookup rejects an invalid visa", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/eligibility/states?occupation_id=se&visa=888", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pathways lookup", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/eligibility/pathways?occupation_id=se&visa=190&state=NSW", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "General stream")
	})

	t.Run("pathways lookup requires a state", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/eligibility/pathways?occupation_id=se&visa=190", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing occupation reference is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/eligibility/states?visa=190", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRateLimiting(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = 1
	cfg.RateBurst = 1
	srv := newTestServer(t, cfg)

	first := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
