package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Presenter escribiendo en un terminal.
type Console struct {
	out       io.Writer
	showChart bool
	copyText  bool
}

// NewConsole crea un presenter que escribe a stdout.
func NewConsole(showChart, copyText bool) *Console {
	return &Console{out: os.Stdout, showChart: showChart, copyText: copyText}
}

// NewConsoleWriter crea un presenter para tests.
func NewConsoleWriter(w io.Writer, showChart, copyText bool) *Console {
	return &Console{out: w, showChart: showChart, copyText: copyText}
}

// Present imprime resultado, explicación, pasos, tips y opcionalmente los datos del gráfico.
func (c *Console) Present(_ context.Context, calc domain.Calculation) error {
	res := calc.Result

	fmt.Fprintf(c.out, "\n[%s] %s\n", calc.CalculatorID, res.Headline)
	if res.Explanation != "" {
		fmt.Fprintf(c.out, "  %s\n", res.Explanation)
	}

	if len(calc.Inputs) > 0 {
		parts := make([]string, 0, len(calc.Inputs))
		for _, k := range calc.Inputs.Keys() {
			parts = append(parts, fmt.Sprintf("%s=%s", k, humanize.Ftoa(calc.Inputs[k])))
		}
		fmt.Fprintf(c.out, "  inputs: %s\n", strings.Join(parts, " "))
	}

	if len(res.Steps) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("#", "Step", "Detail")
		for i, s := range res.Steps {
			table.Append(fmt.Sprintf("%d", i+1), s.Label, s.Detail)
		}
		table.Render()
	}

	for _, tip := range res.Tips {
		fmt.Fprintf(c.out, "  tip: %s\n", tip)
	}

	if c.showChart && res.Chart != nil {
		c.printChart(*res.Chart)
	}

	if c.copyText {
		fmt.Fprintf(c.out, "\n--- copy ---\n%s\n------------\n", res.CopyText())
	}
	return nil
}

// printChart imprime los datos del gráfico como tabla: una fila por etiqueta, una columna por serie.
func (c *Console) printChart(ch domain.Chart) {
	fmt.Fprintf(c.out, "\n  %s (%s)\n", ch.Title, ch.Kind)

	header := []any{"Label"}
	for _, s := range ch.Series {
		header = append(header, s.Name)
	}
	table := tablewriter.NewWriter(c.out)
	table.Header(header...)

	for i, label := range ch.Labels {
		row := []any{label}
		for _, s := range ch.Series {
			if i < len(s.Values) {
				row = append(row, humanize.CommafWithDigits(s.Values[i], 2))
			} else {
				row = append(row, "")
			}
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintCatalog imprime la lista de calculadoras.
func (c *Console) PrintCatalog(calcs []domain.Calculator) {
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Category", "Title", "Inputs")
	for _, calc := range calcs {
		keys := make([]string, len(calc.Fields))
		for i, f := range calc.Fields {
			keys[i] = f.Key
		}
		table.Append(calc.ID, calc.Category.String(), calc.Title, strings.Join(keys, ","))
	}
	table.Render()
}

// PrintFields imprime los campos de una calculadora con sus defaults y límites.
func (c *Console) PrintFields(calc domain.Calculator) {
	fmt.Fprintf(c.out, "%s: %s\n", calc.Title, calc.Description)
	table := tablewriter.NewWriter(c.out)
	table.Header("Key", "Label", "Kind", "Default", "Range")
	for _, f := range calc.Fields {
		rng := "any"
		if f.Min != 0 || f.Max != 0 {
			rng = fmt.Sprintf("%g … %g", f.Min, f.Max)
		}
		label := f.Label
		if f.Unit != "" {
			label += " (" + f.Unit + ")"
		}
		table.Append(f.Key, label, f.Kind.String(), humanize.Ftoa(f.Default), rng)
	}
	table.Render()
}

// PrintHistory imprime el historial de cálculos.
func (c *Console) PrintHistory(calcs []domain.Calculation) {
	if len(calcs) == 0 {
		fmt.Fprintln(c.out, "no calculations in range")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("When", "Calculator", "Result", "ID")
	for _, calc := range calcs {
		table.Append(
			humanize.Time(calc.CreatedAt),
			calc.CalculatorID,
			calc.Result.Headline,
			shortID(calc.ID),
		)
	}
	table.Render()
}

// PrintUsage imprime el contador de uso por calculadora.
func (c *Console) PrintUsage(usage []domain.Usage) {
	if len(usage) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Calculator", "Uses", "Last used")
	for _, u := range usage {
		table.Append(u.CalculatorID, humanize.Comma(int64(u.Count)), u.LastUsed.Local().Format(time.DateTime))
	}
	table.Render()
}

// PrintBatch imprime el resumen de un lote.
func (c *Console) PrintBatch(outcomes []domain.BatchOutcome) {
	failed := 0
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Name", "Calculator", "Result")
	for i, o := range outcomes {
		result := o.Calculation.Result.Headline
		if o.Err != nil {
			failed++
			result = "ERROR: " + o.Err.Error()
		}
		name := o.Request.Name
		if name == "" {
			name = "-"
		}
		table.Append(fmt.Sprintf("%d", i+1), name, o.Request.CalculatorID, result)
	}
	table.Render()
	fmt.Fprintf(c.out, "  %d calculations, %d failed\n", len(outcomes), failed)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
