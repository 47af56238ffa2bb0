package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

// Storage persiste el historial de cálculos.
type Storage interface {
	// SaveCalculation guarda un cálculo ejecutado.
	SaveCalculation(ctx context.Context, calc domain.Calculation) error

	// GetHistory devuelve los cálculos creados en el rango dado, los más recientes primero.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Calculation, error)

	// GetUsage devuelve cuántas veces se usó cada calculadora.
	GetUsage(ctx context.Context) ([]domain.Usage, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
