package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// Por debajo del límite por cliente que aplica el servidor por defecto.
	requestsPerSec = 4
	requestBurst   = 8

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client habla con la API HTTP de otro calcdesk (-serve) con rate limiting y retries.
type Client struct {
	http      *http.Client
	base      string
	limiter   *rate.Limiter
	retryWait time.Duration
}

// NewClient crea un Client contra baseURL (p.ej. http://localhost:8080).
func NewClient(baseURL string) *Client {
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		base:      strings.TrimRight(baseURL, "/"),
		limiter:   rate.NewLimiter(requestsPerSec, requestBurst),
		retryWait: baseRetryWait,
	}
}

type calculatorDTO struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Fields      []domain.Field `json:"fields"`
}

func (d calculatorDTO) toDomain() domain.Calculator {
	cat, _ := domain.ParseCategory(d.Category)
	return domain.Calculator{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    cat,
		Fields:      d.Fields,
	}
}

// List devuelve el catálogo remoto. Las calculadoras devueltas no tienen Calculate.
func (c *Client) List(ctx context.Context) ([]domain.Calculator, error) {
	var dtos []calculatorDTO
	if err := c.get(ctx, c.base+"/calculators", &dtos); err != nil {
		return nil, fmt.Errorf("remote.List: %w", err)
	}
	out := make([]domain.Calculator, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Calculate evalúa la calculadora id en el servidor remoto.
func (c *Client) Calculate(ctx context.Context, id string, in domain.Values) (domain.Calculation, error) {
	body := struct {
		Inputs domain.Values `json:"inputs,omitempty"`
	}{Inputs: in}

	var calc domain.Calculation
	if err := c.post(ctx, c.base+"/calculators/"+url.PathEscape(id), body, &calc); err != nil {
		return domain.Calculation{}, fmt.Errorf("remote.Calculate %s: %w", id, err)
	}
	return calc, nil
}

// History devuelve los cálculos remotos de las últimas horas.
func (c *Client) History(ctx context.Context, hours float64) ([]domain.Calculation, error) {
	var calcs []domain.Calculation
	u := c.base + "/history?hours=" + strconv.FormatFloat(hours, 'f', -1, 64)
	if err := c.get(ctx, u, &calcs); err != nil {
		return nil, fmt.Errorf("remote.History: %w", err)
	}
	return calcs, nil
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, u string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// post hace un POST JSON con rate limiting y retries.
func (c *Client) post(ctx context.Context, u string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// doWithRetry reintenta errores de red, 429 y 5xx con backoff exponencial.
// Los 4xx se traducen a errores de dominio cuando corresponde.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by calcdesk server", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			err := statusError(resp)
			resp.Body.Close()
			return err
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w (remote: %s)", domain.ErrUnknownCalculator, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w (remote: %s)", domain.ErrInvalidInput, msg)
	default:
		return fmt.Errorf("client error %d: %s", resp.StatusCode, msg)
	}
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
