package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/logger"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
	"github.com/theirongolddev/rentroll/internal/scenario"
)

// BillingResponse is served at /v1/billing.
type BillingResponse struct {
	Month     string                `json:"month"`
	TotalDue  float64               `json:"total_due"`
	TotalPaid float64               `json:"total_paid"`
	Details   []model.BillingDetail `json:"details"`
}

// BillView is one bill of a tenant's schedule.
type BillView struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	CoverageStart string  `json:"coverage_start,omitempty"`
	CoverageEnd   string  `json:"coverage_end,omitempty"`
	OriginalDate  string  `json:"original_date,omitempty"`
}

// BillsResponse is served at /v1/tenants/{id}/bills.
type BillsResponse struct {
	TenantID string     `json:"tenant_id"`
	Tenant   string     `json:"tenant"`
	Year     int        `json:"year"`
	Total    float64    `json:"total"`
	Capped   bool       `json:"capped"`
	Bills    []BillView `json:"bills"`
}

// BudgetResponse is served at /v1/budget.
type BudgetResponse struct {
	Year      int                 `json:"year"`
	Scenario  string              `json:"scenario"`
	Name      string              `json:"name"`
	Frozen    bool                `json:"frozen"`
	Rows      []model.BudgetRow   `json:"rows"`
	Totals    [12]float64         `json:"totals"`
	Occupancy [12]float64         `json:"occupancy"`
	Impact    model.ImpactSummary `json:"impact"`
}

// Router returns the HTTP API.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/billing", s.handleBilling)
		r.Get("/tenants/{id}/bills", s.handleBills)
		r.Get("/budget", s.handleBudget)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

// writeJSON marshals v as JSON and writes it with the given status code.
func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", zap.Error(err))
	}
}

// writeError writes a structured JSON error response.
func (s *Service) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// loaded returns the current document, answering 503 before the first
// successful load.
func (s *Service) loaded(w http.ResponseWriter) (model.Document, model.Dashboard, bool) {
	doc, dash, ok := s.document()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "NOT_READY", "data file not loaded yet")
	}
	return doc, dash, ok
}

// queryYear parses ?year=, defaulting to the service year.
func (s *Service) queryYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return s.year(s.cfg.Now()), true
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1900 || y > 9999 {
		s.writeError(w, http.StatusBadRequest, "INVALID_YEAR", "invalid year: "+raw)
		return 0, false
	}
	return y, true
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	doc, dash, ok := s.loaded(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("year") == "" && q.Get("quarter") == "" {
		s.writeJSON(w, http.StatusOK, dash)
		return
	}

	year, ok := s.queryYear(w, r)
	if !ok {
		return
	}
	quarter, err := calendar.ParseQuarter(q.Get("quarter"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_QUARTER", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, pipeline.Recalculate(doc, s.options(s.cfg.Now(), year, quarter)))
}

func (s *Service) handleBilling(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := s.loaded(w)
	if !ok {
		return
	}
	month := calendar.MonthOf(s.cfg.Now())
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := calendar.ParseYearMonth(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "INVALID_MONTH", err.Error())
			return
		}
		month = m
	}

	details := pipeline.BillingDetails(pipeline.FromDocument(doc, s.cfg.Conventions), month)
	resp := BillingResponse{Month: month.Key(), Details: details}
	if resp.Details == nil {
		resp.Details = []model.BillingDetail{}
	}
	for _, d := range details {
		resp.TotalDue += d.AmountDue
		resp.TotalPaid += d.AmountPaid
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleBills(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := s.loaded(w)
	if !ok {
		return
	}
	year, ok := s.queryYear(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	t, found := model.FindTenant(doc.Tenants, id)
	if !found {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("tenant %q not found", id))
		return
	}

	in := pipeline.FromDocument(doc, s.cfg.Conventions)
	from, to := calendar.YearStart(year), calendar.YearEnd(year)
	sched := pipeline.TenantBills(in, t, from, to)
	bills := billing.InRange(sched.Bills, from, to)

	resp := BillsResponse{
		TenantID: t.ID,
		Tenant:   t.Name,
		Year:     year,
		Total:    billing.RoundCurrency(billing.Total(bills)),
		Capped:   sched.Capped,
		Bills:    make([]BillView, 0, len(bills)),
	}
	for _, b := range bills {
		resp.Bills = append(resp.Bills, billView(b))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func billView(b billing.Bill) BillView {
	v := BillView{Date: calendar.Format(b.Date), Amount: b.Amount}
	if !b.CoverageStart.IsZero() {
		v.CoverageStart = calendar.Format(b.CoverageStart)
		v.CoverageEnd = calendar.Format(b.CoverageEnd)
	}
	if b.Relocated() {
		v.OriginalDate = calendar.Format(b.OriginalDate)
	}
	return v
}

func (s *Service) handleBudget(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := s.loaded(w)
	if !ok {
		return
	}
	year, ok := s.queryYear(w, r)
	if !ok {
		return
	}
	selector := r.URL.Query().Get("scenario")
	if selector == "" {
		selector = scenario.ActiveID(doc)
	}

	view := scenario.Resolve(doc, selector)
	in := view.Input(doc.Payments, s.cfg.Conventions)
	rows := pipeline.BudgetRows(in, year)
	if rows == nil {
		rows = []model.BudgetRow{}
	}
	s.writeJSON(w, http.StatusOK, BudgetResponse{
		Year:      year,
		Scenario:  view.Selector,
		Name:      view.Name,
		Frozen:    view.Frozen,
		Rows:      rows,
		Totals:    pipeline.ColumnTotals(rows),
		Occupancy: pipeline.OccupancyByMonth(rows, model.LeasableArea(view.Buildings)),
		Impact:    pipeline.Impact(rows, year),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	s.writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
