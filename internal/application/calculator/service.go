package calculator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/catalog"
	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/alejandrodnm/calcdesk/internal/ports"
	"github.com/google/uuid"
)

// ErrNoStorage se devuelve al pedir historial sin storage configurado (modo dry-run).
var ErrNoStorage = errors.New("history storage is disabled")

// Service ejecuta calculadoras del catálogo, usando caché y guardando el historial.
type Service struct {
	registry *catalog.Registry
	storage  ports.Storage     // nil = no persistir
	cache    ports.ResultCache // nil = sin caché
	now      func() time.Time
}

// New crea un Service. storage y cache pueden ser nil.
func New(registry *catalog.Registry, storage ports.Storage, cache ports.ResultCache) *Service {
	return &Service{
		registry: registry,
		storage:  storage,
		cache:    cache,
		now:      time.Now,
	}
}

// Registry devuelve el catálogo usado por el servicio.
func (s *Service) Registry() *catalog.Registry {
	return s.registry
}

// Evaluate resuelve los inputs, calcula (o recupera de caché) y guarda el resultado.
// Un fallo al guardar no es crítico: se loguea y el cálculo se devuelve igual.
func (s *Service) Evaluate(ctx context.Context, id string, in domain.Values) (domain.Calculation, error) {
	calc, err := s.registry.Get(id)
	if err != nil {
		return domain.Calculation{}, err
	}

	values, err := calc.Resolve(in)
	if err != nil {
		return domain.Calculation{}, err
	}

	key := cacheKey(id, values)
	result, hit := s.cachedResult(ctx, key)
	if !hit {
		result, err = calc.Calculate(values)
		if err != nil {
			return domain.Calculation{}, fmt.Errorf("calculator.Evaluate %s: %w", id, err)
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, result); err != nil {
				slog.Warn("cache set failed", "calculator", id, "err", err)
			}
		}
	}

	out := domain.Calculation{
		ID:           uuid.New().String(),
		CalculatorID: id,
		Inputs:       values,
		Result:       result,
		CreatedAt:    s.now().UTC(),
	}

	slog.Debug("calculation done",
		"calculator", id,
		"headline", result.Headline,
		"computable", result.Computable,
		"cache_hit", hit,
	)

	if s.storage != nil {
		if err := s.storage.SaveCalculation(ctx, out); err != nil {
			slog.Warn("failed to save calculation", "calculator", id, "err", err)
		}
	}
	return out, nil
}

func (s *Service) cachedResult(ctx context.Context, key string) (domain.Result, bool) {
	if s.cache == nil {
		return domain.Result{}, false
	}
	return s.cache.Get(ctx, key)
}

// History devuelve los cálculos guardados en el rango dado.
func (s *Service) History(ctx context.Context, from, to time.Time) ([]domain.Calculation, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	return s.storage.GetHistory(ctx, from, to)
}

// Usage devuelve el contador de uso por calculadora.
func (s *Service) Usage(ctx context.Context) ([]domain.Usage, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	return s.storage.GetUsage(ctx)
}
