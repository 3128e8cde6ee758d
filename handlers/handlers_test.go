package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"report-validation-pipeline/abuse"
	"report-validation-pipeline/classifier"
	"report-validation-pipeline/config"
	"report-validation-pipeline/dedup"
	"report-validation-pipeline/ledger"
	"report-validation-pipeline/models"
	"report-validation-pipeline/pipeline"
)

type stubChecker struct {
	connected bool
}

func (s *stubChecker) IsConnected() bool { return s.connected }

func newTestRouter(t *testing.T) *gin.Engine {
	return newTestRouterWithPublisher(t, nil)
}

func newTestRouterWithPublisher(t *testing.T, publisher ConnectionChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CategoryConfidenceThreshold: 0.1,
		LocationThresholdMeters:     10.0,
		ImageHashThreshold:          0,
		MaxImageBytes:               1024,
	}

	lgr, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.jsonl"))
	if err != nil {
		t.Fatalf("ledger.Open() error = %v", err)
	}
	t.Cleanup(func() { lgr.Close() })

	detector := dedup.New(lgr, cfg.LocationThresholdMeters, cfg.ImageHashThreshold)
	p := pipeline.New(cfg, lgr, classifier.New(), abuse.New(nil), detector, nil, nil)
	h := NewHandlers(cfg, lgr, p, publisher)

	router := gin.New()
	v3 := router.Group("/api/v3")
	{
		v3.POST("/submit", h.Submit)
		v3.GET("/health", h.HealthCheck)
		v3.GET("/status", h.GetStatus)
		v3.GET("/stats", h.GetStats)
	}
	return router
}

func postSubmit(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v3/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitAccepted(t *testing.T) {
	router := newTestRouter(t)

	w := postSubmit(t, router, models.SubmitRequest{
		ReportID:    "r-1",
		UserID:      "citizen-7",
		Description: "Deep pothole on the highway",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp models.SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !resp.Accept {
		t.Errorf("Accept = false, reason %q", resp.Reason)
	}
	if resp.ReportID != "r-1" {
		t.Errorf("ReportID = %q, want %q", resp.ReportID, "r-1")
	}
	if resp.Status != models.StatusAccepted {
		t.Errorf("Status = %q, want %q", resp.Status, models.StatusAccepted)
	}
}

func TestSubmitRejectionIsStillHTTP200(t *testing.T) {
	router := newTestRouter(t)

	w := postSubmit(t, router, models.SubmitRequest{
		ReportID:    "r-2",
		Description: "nothing interesting happened",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (a pipeline rejection is a valid decision)", w.Code, http.StatusOK)
	}

	var resp models.SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp.Accept {
		t.Error("Accept = true for an unclassifiable description")
	}
	if resp.Status != models.StatusRejected {
		t.Errorf("Status = %q, want %q", resp.Status, models.StatusRejected)
	}
}

func TestSubmitValidation(t *testing.T) {
	router := newTestRouter(t)

	lat := 95.0
	lon := 200.0

	tests := []struct {
		name string
		body models.SubmitRequest
	}{
		{
			name: "missing report_id",
			body: models.SubmitRequest{Description: "pothole"},
		},
		{
			name: "latitude out of range",
			body: models.SubmitRequest{ReportID: "r-3", Description: "pothole", Latitude: &lat},
		},
		{
			name: "longitude out of range",
			body: models.SubmitRequest{ReportID: "r-4", Description: "pothole", Longitude: &lon},
		},
		{
			name: "image too large",
			body: models.SubmitRequest{ReportID: "r-5", Description: "pothole", Image: make([]byte, 2048)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postSubmit(t, router, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v3/submit", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v3/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want %q", body["status"], "healthy")
	}
}

func TestStatusReportsPublisherConnection(t *testing.T) {
	tests := []struct {
		name      string
		connected bool
	}{
		{"connected publisher", true},
		{"disconnected publisher", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouterWithPublisher(t, &stubChecker{connected: tc.connected})

			req := httptest.NewRequest(http.MethodGet, "/api/v3/status", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var body struct {
				PublisherConnected *bool `json:"publisher_connected"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if body.PublisherConnected == nil {
				t.Fatal("publisher_connected missing from status response")
			}
			if *body.PublisherConnected != tc.connected {
				t.Errorf("publisher_connected = %v, want %v", *body.PublisherConnected, tc.connected)
			}
		})
	}
}

func TestStatusOmitsPublisherWhenDisabled(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v3/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if _, ok := body["publisher_connected"]; ok {
		t.Error("publisher_connected present although publishing is disabled")
	}
}

func TestStatusAndStatsReflectDecisions(t *testing.T) {
	router := newTestRouter(t)

	postSubmit(t, router, models.SubmitRequest{
		ReportID:    "r-1",
		Description: "Deep pothole on the highway",
	})
	postSubmit(t, router, models.SubmitRequest{
		ReportID:    "r-2",
		Description: "nothing interesting happened",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v3/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d, want %d", w.Code, http.StatusOK)
	}
	var status struct {
		Total    int `json:"total"`
		Accepted int `json:"accepted"`
		Rejected int `json:"rejected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if status.Total != 2 || status.Accepted != 1 || status.Rejected != 1 {
		t.Errorf("status = %+v, want 2 total / 1 accepted / 1 rejected", status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v3/stats", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats endpoint = %d, want %d", w.Code, http.StatusOK)
	}
	var stats models.LedgerStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if stats.ByCategory["Road & Traffic"] != 1 {
		t.Errorf("ByCategory = %v, want one Road & Traffic entry", stats.ByCategory)
	}
}
