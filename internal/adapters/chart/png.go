package chart

import (
	"errors"
	"fmt"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/vicanso/go-charts/v2"
)

// PNGRenderer implementa ports.ChartRenderer con go-charts.
type PNGRenderer struct {
	width  int
	height int
}

// NewPNGRenderer crea un renderer con el tamaño dado (px). Valores <= 0 usan 800×480.
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 480
	}
	return &PNGRenderer{width: width, height: height}
}

// Render dibuja el gráfico como PNG.
func (r *PNGRenderer) Render(ch domain.Chart) ([]byte, error) {
	values, names, err := seriesValues(ch)
	if err != nil {
		return nil, err
	}

	opts := []charts.OptionFunc{
		charts.TitleTextOptionFunc(ch.Title),
		charts.XAxisDataOptionFunc(ch.Labels),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(r.width),
		charts.HeightOptionFunc(r.height),
	}

	var painter *charts.Painter
	switch ch.Kind {
	case domain.ChartLine:
		painter, err = charts.LineRender(values, opts...)
	default:
		painter, err = charts.BarRender(values, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("chart.Render: %w", err)
	}

	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("chart.Render: encode: %w", err)
	}
	return img, nil
}

// seriesValues valida que todas las series estén alineadas con las etiquetas.
func seriesValues(ch domain.Chart) ([][]float64, []string, error) {
	if len(ch.Series) == 0 || len(ch.Labels) == 0 {
		return nil, nil, errors.New("chart.Render: empty chart")
	}
	values := make([][]float64, len(ch.Series))
	names := make([]string, len(ch.Series))
	for i, s := range ch.Series {
		if len(s.Values) != len(ch.Labels) {
			return nil, nil, fmt.Errorf("chart.Render: series %q has %d values for %d labels",
				s.Name, len(s.Values), len(ch.Labels))
		}
		values[i] = s.Values
		names[i] = s.Name
	}
	return values, names, nil
}
