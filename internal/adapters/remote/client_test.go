package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/adapters/httpapi"
	"github.com/alejandrodnm/calcdesk/internal/application/calculator"
	"github.com/alejandrodnm/calcdesk/internal/catalog"
	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := calculator.New(catalog.New(domain.DefaultSolverConfig()), nil, nil)
	srv := httptest.NewServer(httpapi.NewHandler(svc, nil))
	t.Cleanup(srv.Close)
	return srv
}

func fastClient(base string) *Client {
	c := NewClient(base)
	c.retryWait = time.Millisecond
	return c
}

func TestClient_List(t *testing.T) {
	c := fastClient(newTestServer(t).URL)

	calcs, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, calcs, 13)

	var irr domain.Calculator
	for _, calc := range calcs {
		if calc.ID == "irr" {
			irr = calc
		}
	}
	assert.Equal(t, domain.CategoryBusiness, irr.Category)
	assert.NotEmpty(t, irr.Fields)
}

func TestClient_Calculate(t *testing.T) {
	c := fastClient(newTestServer(t).URL + "/")

	calc, err := c.Calculate(context.Background(), "irr", nil)
	require.NoError(t, err)
	assert.Equal(t, "IRR: 15.24%", calc.Result.Headline)
	assert.InDelta(t, 15.24, calc.Result.Value, 0.01)

	calc, err = c.Calculate(context.Background(), "roi", domain.Values{"invested": 100, "returned": 150})
	require.NoError(t, err)
	assert.InDelta(t, 50, calc.Result.Value, 1e-9)
}

func TestClient_DomainErrors(t *testing.T) {
	c := fastClient(newTestServer(t).URL)

	_, err := c.Calculate(context.Background(), "warp-drive", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownCalculator)

	_, err = c.Calculate(context.Background(), "roi", domain.Values{"colour": 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_History_NoStorage(t *testing.T) {
	c := fastClient(newTestServer(t).URL)
	_, err := c.History(context.Background(), 24)
	assert.ErrorContains(t, err, "503")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	calcs, err := fastClient(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, calcs)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fastClient(srv.URL).List(context.Background())
	assert.ErrorContains(t, err, "server error 500")
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fastClient("http://127.0.0.1:1").List(ctx)
	assert.Error(t, err)
}
