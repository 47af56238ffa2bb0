package ports

import (
	"context"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

// ResultCache guarda resultados ya calculados por clave de entrada.
// Las fórmulas son puras, así que un hit es siempre equivalente a recalcular.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.Result, bool)
	Set(ctx context.Context, key string, result domain.Result) error
}
