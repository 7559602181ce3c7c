package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/engine"
	"github.com/theirongolddev/bkcost/internal/logging"
	"github.com/theirongolddev/bkcost/internal/model"
)

// maxRequestBodySize limits JSON request bodies to 1MB.
const maxRequestBodySize = 1 << 20

// ProjectRequest is the body of POST /v1/project.
type ProjectRequest struct {
	Months        int           `json:"months"`
	GrowthPercent float64       `json:"growth_percent"`
	DataSizeGB    float64       `json:"data_size_gb"` // default for plans without a size
	Plans         []PlanRequest `json:"plans"`
}

// PlanRequest describes one plan in a ProjectRequest.
type PlanRequest struct {
	Name        string   `json:"name,omitempty"`
	Schedule    string   `json:"schedule"`
	Retention   int      `json:"retention"`
	StorageTier string   `json:"storage_tier"`
	DataSizeGB  *float64 `json:"data_size_gb,omitempty"`
}

// MonthRow is one aggregated month. Money and sizes are fixed two-decimal
// strings.
type MonthRow struct {
	Month  int    `json:"month"`
	Cost   string `json:"cost"`
	SizeGB string `json:"size_gb"`
}

// PlanResult summarizes one plan's projection.
type PlanResult struct {
	Name              string `json:"name"`
	Schedule          string `json:"schedule"`
	Retention         int    `json:"retention"`
	StorageTier       string `json:"storage_tier"`
	DataSizeGB        string `json:"data_size_gb"`
	TotalCost         string `json:"total_cost"`
	AverageYearlyCost string `json:"average_yearly_cost"`
}

// ProjectResponse is the body returned by POST /v1/project.
type ProjectResponse struct {
	HorizonMonths     int          `json:"horizon_months"`
	GrowthPercent     float64      `json:"growth_percent"`
	Months            []MonthRow   `json:"months"`
	Plans             []PlanResult `json:"plans"`
	TotalCost         string       `json:"total_cost"`
	AverageYearlyCost string       `json:"average_yearly_cost"`
	AnnualizedCost    string       `json:"annualized_cost"`
}

// ErrorResponse is returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// PricingResponse is served at /v1/pricing.
type PricingResponse struct {
	StoragePerGBMonth map[string]float64 `json:"storage_per_gb_month"`
	TransferPerGB     float64            `json:"transfer_per_gb"`
}

var errBadRequest = errors.New("bad request")

func validateHorizon(months int, growthPercent float64, maxMonths int) error {
	if months < 1 || months > maxMonths {
		return fmt.Errorf("%w: months must be between 1 and %d, got %d", errBadRequest, maxMonths, months)
	}
	if growthPercent < 0 || growthPercent > 100 {
		return fmt.Errorf("%w: growth_percent must be between 0 and 100, got %g", errBadRequest, growthPercent)
	}
	return nil
}

// ToPlans converts the request into validated plans.
func (r ProjectRequest) ToPlans() ([]model.Plan, error) {
	plans := make([]model.Plan, 0, len(r.Plans))
	for i, pr := range r.Plans {
		size := r.DataSizeGB
		if pr.DataSizeGB != nil {
			size = *pr.DataSizeGB
		}
		p, err := model.ParsePlan(pr.Schedule, pr.Retention, pr.StorageTier, size)
		if err != nil {
			return nil, fmt.Errorf("plan %d: %w", i+1, err)
		}
		plans = append(plans, p.WithName(pr.Name))
	}
	return plans, nil
}

func (s *Service) handleProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ProjectRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "request body too large", http.StatusBadRequest)
			return
		}
		writeError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Months == 0 {
		req.Months = s.cfg.Months
	}
	if err := validateHorizon(req.Months, req.GrowthPercent, s.cfg.MaxMonths); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DataSizeGB < 0 {
		writeError(w, "data_size_gb must not be negative", http.StatusBadRequest)
		return
	}

	plans, err := req.ToPlans()
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	pf, _, err := s.projector.Project(plans, req.Months, req.GrowthPercent/100)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidHorizon) || errors.Is(err, model.ErrInvalidPlan) ||
			errors.Is(err, engine.ErrCostOverflow) {
			status = http.StatusBadRequest
		}
		writeError(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, NewProjectResponse(pf))
}

// NewProjectResponse renders a portfolio with fixed two-decimal figures.
func NewProjectResponse(pf model.Portfolio) ProjectResponse {
	resp := ProjectResponse{
		HorizonMonths:     pf.TotalMonths,
		GrowthPercent:     pf.YearlyGrowth * 100,
		Months:            make([]MonthRow, 0, len(pf.Months)),
		Plans:             make([]PlanResult, 0, len(pf.Plans)),
		TotalCost:         cli.Fixed2(pf.TotalCost),
		AverageYearlyCost: cli.Fixed2(pf.AverageYearlyCost),
		AnnualizedCost:    cli.Fixed2(pf.AnnualizedCost),
	}
	for _, m := range pf.Months {
		resp.Months = append(resp.Months, MonthRow{
			Month:  m.Month,
			Cost:   cli.Fixed2(m.Cost),
			SizeGB: cli.Fixed2(m.SizeGB),
		})
	}
	for _, pp := range pf.Plans {
		resp.Plans = append(resp.Plans, PlanResult{
			Name:              pp.Plan.Label(),
			Schedule:          pp.Plan.Schedule().String(),
			Retention:         pp.Plan.Retention(),
			StorageTier:       pp.Plan.StorageTier().String(),
			DataSizeGB:        cli.Fixed2(pp.Plan.DataSizeGB()),
			TotalCost:         cli.Fixed2(pp.TotalCost),
			AverageYearlyCost: cli.Fixed2(pp.AverageYearlyCost),
		})
	}
	return resp
}

func (s *Service) handlePricing(w http.ResponseWriter, _ *http.Request) {
	p := s.projector.Calculator().Pricing()
	resp := PricingResponse{
		StoragePerGBMonth: make(map[string]float64, len(p.StorageCostPerGBMonth)),
		TransferPerGB:     p.TransferCostPerGB,
	}
	for tier, price := range p.StorageCostPerGBMonth {
		resp.StoragePerGBMonth[tier.String()] = price
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, ErrorResponse{Error: message, Code: code})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// logRequests logs each request with a correlation ID.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)

		logging.Logger.Debug("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.statusCode),
			zap.Duration("latency", time.Since(start)))
	})
}

// FetchStatus queries a running service's /v1/status endpoint.
func FetchStatus(ctx context.Context, addr string) (Status, error) {
	var st Status

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response: %w", err)
	}
	return st, nil
}
