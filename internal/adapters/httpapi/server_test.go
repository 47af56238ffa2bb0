package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/application/calculator"
	"github.com/alejandrodnm/calcdesk/internal/catalog"
	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu    sync.Mutex
	calcs []domain.Calculation
}

func (m *memStorage) SaveCalculation(_ context.Context, c domain.Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calcs = append(m.calcs, c)
	return nil
}

func (m *memStorage) GetHistory(context.Context, time.Time, time.Time) ([]domain.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Calculation(nil), m.calcs...), nil
}

func (m *memStorage) GetUsage(context.Context) ([]domain.Usage, error) { return nil, nil }

func (m *memStorage) Close() error { return nil }

type fakeRenderer struct {
	got *domain.Chart
	err error
}

func (f *fakeRenderer) Render(ch domain.Chart) ([]byte, error) {
	f.got = &ch
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG"), nil
}

func newTestHandler(store *memStorage, charts *fakeRenderer) *Handler {
	reg := catalog.New(domain.DefaultSolverConfig())
	var svc *calculator.Service
	if store == nil {
		svc = calculator.New(reg, nil, nil)
	} else {
		svc = calculator.New(reg, store, nil)
	}
	if charts == nil {
		return NewHandler(svc, nil)
	}
	return NewHandler(svc, charts)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestHandler(nil, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListCalculators(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := do(t, h, http.MethodGet, "/calculators", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []calculatorView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 13)

	rec = do(t, h, http.MethodGet, "/calculators?category=physics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var physics []calculatorView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &physics))
	require.NotEmpty(t, physics)
	for _, c := range physics {
		assert.Equal(t, "physics", c.Category)
	}

	rec = do(t, h, http.MethodGet, "/calculators?category=alchemy", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCalculator(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := do(t, h, http.MethodGet, "/calculators/irr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var v calculatorView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "irr", v.ID)
	assert.Equal(t, "business", v.Category)
	require.NotEmpty(t, v.Fields)
	assert.Equal(t, "initial", v.Fields[0].Key)

	rec = do(t, h, http.MethodGet, "/calculators/warp-drive", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculate(t *testing.T) {
	store := &memStorage{}
	h := newTestHandler(store, nil)

	rec := do(t, h, http.MethodPost, "/calculators/irr", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "irr", resp.CalculatorID)
	assert.Equal(t, "IRR: 15.24%", resp.Result.Headline)
	assert.True(t, resp.Result.Computable)
	assert.True(t, strings.HasPrefix(resp.CopyText, "IRR: 15.24%"))
	assert.Len(t, store.calcs, 1)
}

func TestCalculate_WithInputs(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := do(t, h, http.MethodPost, "/calculators/roi", `{"inputs":{"invested":200,"returned":300}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 50, resp.Result.Value, 1e-9)
}

func TestCalculate_NoIRR(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := do(t, h, http.MethodPost, "/calculators/irr",
		`{"inputs":{"initial":0,"cf1":100,"cf2":100,"cf3":100,"cf4":100,"cf5":100}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No IRR", resp.Result.Headline)
	assert.False(t, resp.Result.Computable)
}

func TestCalculate_Errors(t *testing.T) {
	h := newTestHandler(nil, nil)

	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"unknown calculator", "/calculators/nope", "", http.StatusNotFound},
		{"unknown field", "/calculators/roi", `{"inputs":{"colour":1}}`, http.StatusBadRequest},
		{"out of range", "/calculators/loan-payment", `{"inputs":{"months":0}}`, http.StatusBadRequest},
		{"malformed json", "/calculators/roi", `{"inputs":`, http.StatusBadRequest},
		{"unknown top-level key", "/calculators/roi", `{"values":{}}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestHandler(nil, nil), http.MethodDelete, "/calculators/irr", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChart(t *testing.T) {
	r := &fakeRenderer{}
	h := newTestHandler(nil, r)

	rec := do(t, h, http.MethodGet, "/calculators/irr/chart.png?initial=50000&cf1=20000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.NotNil(t, r.got)
	assert.Equal(t, domain.ChartLine, r.got.Kind)

	rec = do(t, h, http.MethodGet, "/calculators/irr/chart.png?initial=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChart_Disabled(t *testing.T) {
	rec := do(t, newTestHandler(nil, nil), http.MethodGet, "/calculators/irr/chart.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChart_RenderError(t *testing.T) {
	h := newTestHandler(nil, &fakeRenderer{err: errors.New("no fonts")})
	rec := do(t, h, http.MethodGet, "/calculators/irr/chart.png", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHistory(t *testing.T) {
	store := &memStorage{}
	h := newTestHandler(store, nil)

	rec := do(t, h, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	do(t, h, http.MethodPost, "/calculators/npv", "")
	rec = do(t, h, http.MethodGet, "/history?hours=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var calcs []domain.Calculation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &calcs))
	require.Len(t, calcs, 1)
	assert.Equal(t, "npv", calcs[0].CalculatorID)

	rec = do(t, h, http.MethodGet, "/history?hours=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_NoStorage(t *testing.T) {
	rec := do(t, newTestHandler(nil, nil), http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// --- RateLimiter ---

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Stop()

	h := rl.Middleware(newTestHandler(nil, nil))
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/healthz", "").Code)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "each client has its own bucket")
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.cleanup(time.Now().Add(2 * clientIdleThreshold))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
