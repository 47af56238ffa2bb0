package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/application/calculator"
	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/alejandrodnm/calcdesk/internal/ports"
)

const maxBodyBytes = 64 << 10

// Handler expone el catálogo por HTTP/JSON.
type Handler struct {
	svc    *calculator.Service
	charts ports.ChartRenderer // nil = endpoint de gráfico deshabilitado
	mux    *http.ServeMux
}

// NewHandler registra las rutas. charts puede ser nil.
func NewHandler(svc *calculator.Service, charts ports.ChartRenderer) *Handler {
	h := &Handler{svc: svc, charts: charts, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /healthz", h.health)
	h.mux.HandleFunc("GET /calculators", h.listCalculators)
	h.mux.HandleFunc("GET /calculators/{id}", h.getCalculator)
	h.mux.HandleFunc("POST /calculators/{id}", h.calculate)
	h.mux.HandleFunc("GET /calculators/{id}/chart.png", h.chart)
	h.mux.HandleFunc("GET /history", h.history)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type calculatorView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Fields      []domain.Field `json:"fields"`
}

func viewOf(c domain.Calculator) calculatorView {
	return calculatorView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category.String(),
		Fields:      c.Fields,
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listCalculators acepta ?category=business|everyday|physics.
func (h *Handler) listCalculators(w http.ResponseWriter, r *http.Request) {
	calcs := h.svc.Registry().List()
	if q := r.URL.Query().Get("category"); q != "" {
		cat, ok := domain.ParseCategory(q)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category "+strconv.Quote(q))
			return
		}
		calcs = h.svc.Registry().ByCategory(cat)
	}
	views := make([]calculatorView, len(calcs))
	for i, c := range calcs {
		views[i] = viewOf(c)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getCalculator(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Registry().Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

type calculateResponse struct {
	domain.Calculation
	CopyText string `json:"copy_text"`
}

// calculate recibe {"inputs": {...}}; un cuerpo vacío usa los defaults.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Inputs domain.Values `json:"inputs"`
	}
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	calc, err := h.svc.Evaluate(r.Context(), r.PathValue("id"), body.Inputs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calculateResponse{Calculation: calc, CopyText: calc.Result.CopyText()})
}

// chart recibe los inputs como query string: /calculators/irr/chart.png?initial=50000&cf1=20000
func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	if h.charts == nil {
		writeError(w, http.StatusNotFound, "charts are disabled")
		return
	}
	in, err := valuesFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	calc, err := h.svc.Evaluate(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if calc.Result.Chart == nil {
		writeError(w, http.StatusNotFound, "calculator has no chart")
		return
	}
	img, err := h.charts.Render(*calc.Result.Chart)
	if err != nil {
		slog.Error("chart render failed", "calculator", calc.CalculatorID, "err", err)
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// history acepta ?hours=N (por defecto 24).
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	hours := 24.0
	if q := r.URL.Query().Get("hours"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "hours must be a positive number")
			return
		}
		hours = v
	}
	to := time.Now()
	from := to.Add(-time.Duration(hours * float64(time.Hour)))

	calcs, err := h.svc.History(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if calcs == nil {
		calcs = []domain.Calculation{}
	}
	writeJSON(w, http.StatusOK, calcs)
}

func valuesFromQuery(r *http.Request) (domain.Values, error) {
	q := r.URL.Query()
	in := make(domain.Values, len(q))
	for k, vs := range q {
		v, err := strconv.ParseFloat(vs[0], 64)
		if err != nil {
			return nil, errors.New("query parameter " + strconv.Quote(k) + " is not a number")
		}
		in[k] = v
	}
	return in, nil
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownCalculator):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calculator.ErrNoStorage):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "err", err)
	}
}
