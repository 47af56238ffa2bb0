package notify_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/adapters/notify"
	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCalc() domain.Calculation {
	return domain.Calculation{
		ID:           "4f7c1f0e-0000-0000-0000-000000000000",
		CalculatorID: "irr",
		Inputs:       domain.Values{"initial": 100000, "cf1": 30000},
		Result: domain.Result{
			Headline:    "IRR: 15.24%",
			Value:       15.24,
			Computable:  true,
			Explanation: "Investing $100,000 returns 15.24% per year",
			Steps:       []domain.Step{{Label: "Root search", Detail: "bisection on NPV(r) = 0"}},
			Tips:        []string{"Compare against your cost of capital"},
			Chart: &domain.Chart{
				Kind:   domain.ChartLine,
				Title:  "NPV vs discount rate",
				Labels: []string{"0.00%", "5.00%"},
				Series: []domain.ChartSeries{{Name: "NPV", Values: []float64{50000, 29884.35}}},
			},
		},
		CreatedAt: time.Now(),
	}
}

func TestConsole_Present(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false, false)

	require.NoError(t, c.Present(context.Background(), makeCalc()))

	out := buf.String()
	assert.Contains(t, out, "[irr] IRR: 15.24%")
	assert.Contains(t, out, "Investing $100,000")
	assert.Contains(t, out, "Root search")
	assert.Contains(t, out, "tip: Compare against your cost of capital")
	assert.Contains(t, out, "initial=100000")
	assert.NotContains(t, out, "NPV vs discount rate")
	assert.NotContains(t, out, "--- copy ---")
}

func TestConsole_Present_ChartAndCopy(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true, true)

	require.NoError(t, c.Present(context.Background(), makeCalc()))

	out := buf.String()
	assert.Contains(t, out, "NPV vs discount rate (line)")
	assert.Contains(t, out, "29,884.35")
	assert.Contains(t, out, "--- copy ---")
	assert.Contains(t, out, "1. Root search: bisection on NPV(r) = 0")
}

func TestConsole_Present_NoIRR(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false, false)

	calc := makeCalc()
	calc.Result = domain.Result{Headline: "No IRR", Explanation: "Unable to find an IRR for these cash flows"}
	require.NoError(t, c.Present(context.Background(), calc))
	assert.Contains(t, buf.String(), "No IRR")
}

func TestConsole_PrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	notify.NewConsoleWriter(&buf, false, false).PrintHistory(nil)
	assert.Contains(t, buf.String(), "no calculations in range")
}

func TestConsole_PrintBatch(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false, false)

	c.PrintBatch([]domain.BatchOutcome{
		{Request: domain.BatchRequest{Name: "plant A", CalculatorID: "irr"}, Calculation: makeCalc()},
		{Request: domain.BatchRequest{CalculatorID: "nope"}, Err: errors.New("unknown calculator")},
	})

	out := buf.String()
	assert.Contains(t, out, "plant A")
	assert.Contains(t, out, "ERROR: unknown calculator")
	assert.Contains(t, out, "2 calculations, 1 failed")
}
