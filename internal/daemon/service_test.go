package daemon

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Plans:        2,
		Months:       12,
		TotalCostUSD: 10.5,
		FinalSizeGB:  200,
	}
	curr := Snapshot{
		Plans:        3,
		Months:       24,
		TotalCostUSD: 13.1,
		FinalSizeGB:  250,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Plans != 1 {
		t.Fatalf("Plans delta = %d, want 1", delta.Plans)
	}
	if delta.Months != 12 {
		t.Fatalf("Months delta = %d, want 12", delta.Months)
	}
	if math.Abs(delta.TotalCostUSD-2.6) > 1e-9 {
		t.Fatalf("Cost delta = %.2f, want 2.60", delta.TotalCostUSD)
	}
	if delta.FinalSizeGB != 50 {
		t.Fatalf("FinalSizeGB delta = %v, want 50", delta.FinalSizeGB)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots produced a non-zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func postProject(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/project", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleProject(t *testing.T) {
	h := New(Config{}, nil).Handler()

	rec := postProject(t, h, `{
		"months": 1,
		"plans": [{"name": "db", "schedule": "Monthly", "retention": 1, "storage_tier": "Standard", "data_size_gb": 100}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	var resp ProjectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HorizonMonths != 1 || len(resp.Months) != 1 {
		t.Fatalf("horizon = %d, months = %d, want 1/1", resp.HorizonMonths, len(resp.Months))
	}
	if resp.Months[0].Cost != "2.55" {
		t.Fatalf("month 1 cost = %q, want 2.55", resp.Months[0].Cost)
	}
	if resp.TotalCost != "2.55" || resp.AverageYearlyCost != "2.55" {
		t.Fatalf("total = %q, avg = %q, want 2.55/2.55", resp.TotalCost, resp.AverageYearlyCost)
	}
	if len(resp.Plans) != 1 || resp.Plans[0].Name != "db" || resp.Plans[0].StorageTier != "Standard" {
		t.Fatalf("plans = %+v", resp.Plans)
	}
}

func TestHandleProject_DefaultSizeAndGrowth(t *testing.T) {
	h := New(Config{}, nil).Handler()

	rec := postProject(t, h, `{
		"months": 25,
		"growth_percent": 10,
		"data_size_gb": 100,
		"plans": [{"schedule": "Daily", "retention": 30, "storage_tier": "Standard"}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ProjectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Months[24].SizeGB != "121.00" {
		t.Fatalf("month 25 size = %q, want 121.00", resp.Months[24].SizeGB)
	}
	if resp.Plans[0].DataSizeGB != "100.00" {
		t.Fatalf("plan size = %q, want 100.00", resp.Plans[0].DataSizeGB)
	}
}

func TestHandleProject_Rejects(t *testing.T) {
	h := New(Config{MaxMonths: 72}, nil).Handler()

	tests := []struct {
		name string
		body string
	}{
		{"bad tier", `{"months": 12, "plans": [{"schedule": "Daily", "retention": 7, "storage_tier": "Glacier"}]}`},
		{"bad schedule", `{"months": 12, "plans": [{"schedule": "Hourly", "retention": 7, "storage_tier": "Standard"}]}`},
		{"zero retention", `{"months": 12, "plans": [{"schedule": "Daily", "retention": 0, "storage_tier": "Standard"}]}`},
		{"horizon too long", `{"months": 73, "plans": []}`},
		{"negative growth", `{"months": 12, "growth_percent": -1, "plans": []}`},
		{"unknown field", `{"months": 12, "colour": "red"}`},
		{"malformed", `{"months": `},
		{"cost overflow", `{"months": 12, "plans": [{"schedule": "Daily", "retention": 30, "storage_tier": "Standard", "data_size_gb": 1e308}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postProject(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
			var er ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if er.Code != http.StatusBadRequest || er.Error == "" {
				t.Fatalf("error response = %+v", er)
			}
		})
	}
}

func TestHandlePricing(t *testing.T) {
	h := New(Config{}, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/pricing", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp PricingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StoragePerGBMonth["Standard"] != 0.0255 || resp.StoragePerGBMonth["Archive"] != 0.0026 {
		t.Fatalf("storage prices = %v", resp.StoragePerGBMonth)
	}
	if resp.TransferPerGB != 0 {
		t.Fatalf("transfer = %v, want 0", resp.TransferPerGB)
	}
}

func writePlanFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestPollOnceEmitsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.toml")
	writePlanFile(t, path, `
months = 12

[[plan]]
schedule = "Monthly"
retention = 1
storage_tier = "Standard"
data_size_gb = 100
`)

	s := New(Config{PlanFile: path}, nil)
	ctx := context.Background()

	s.pollOnce(ctx)
	st := s.snapshotStatus()
	if !st.HasSnapshot || st.LastError != "" {
		t.Fatalf("status after first poll = %+v", st)
	}
	if st.Summary.Plans != 1 || math.Abs(st.Summary.TotalCostUSD-12*2.55) > 1e-9 {
		t.Fatalf("summary = %+v", st.Summary)
	}

	// Unchanged file: no new event.
	s.pollOnce(ctx)

	writePlanFile(t, path, `
months = 12

[[plan]]
schedule = "Monthly"
retention = 1
storage_tier = "Standard"
data_size_gb = 100

[[plan]]
schedule = "Weekly"
retention = 4
storage_tier = "Archive"
data_size_gb = 100
`)
	s.pollOnce(ctx)

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	pollCount := s.pollCount
	s.mu.RUnlock()

	if pollCount != 3 {
		t.Fatalf("pollCount = %d, want 3", pollCount)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != EventSnapshot || events[1].Type != EventProjectionChanged {
		t.Fatalf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if events[1].Delta.Plans != 1 {
		t.Fatalf("delta plans = %d, want 1", events[1].Delta.Plans)
	}
}

func TestPollOnceRecordsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.toml")
	writePlanFile(t, path, "[[plan]]\nschedule = \"Daily\"\nretention = 7\nstorage_tier = \"Tape\"\n")

	s := New(Config{PlanFile: path}, nil)
	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	if st.HasSnapshot {
		t.Fatal("snapshot set despite invalid plan file")
	}
	if !strings.Contains(st.LastError, "storage tier") {
		t.Fatalf("LastError = %q", st.LastError)
	}
}

func TestFetchStatus(t *testing.T) {
	s := New(Config{}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	postProject(t, s.Handler(), `{"months": 3, "plans": []}`)

	st, err := FetchStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}
	if st.Requests != 1 {
		t.Fatalf("Requests = %d, want 1", st.Requests)
	}
	if st.HasSnapshot {
		t.Fatal("HasSnapshot = true without a plan file")
	}
}
