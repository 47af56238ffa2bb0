package ports

import (
	"context"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

// Presenter muestra un cálculo al usuario.
type Presenter interface {
	Present(ctx context.Context, calc domain.Calculation) error
}

// ChartRenderer convierte los datos de gráfico de un resultado en una imagen.
type ChartRenderer interface {
	// Render devuelve la imagen PNG del gráfico.
	Render(chart domain.Chart) ([]byte, error)
}
