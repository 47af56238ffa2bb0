package calculator

// batch.go — worker pool para evaluar lotes de cálculos en paralelo.
//
// Las fórmulas son puras y baratas; el paralelismo sirve sobre todo cuando el
// storage o la caché remota (Redis) añaden latencia por cálculo.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"gopkg.in/yaml.v3"
)

// batchFile es el formato YAML de un lote:
//
//	calculations:
//	  - name: plant A
//	    calculator: irr
//	    inputs: {initial: 100000, cf1: 30000}
type batchFile struct {
	Calculations []domain.BatchRequest `yaml:"calculations"`
}

// LoadBatch lee un lote desde un archivo YAML.
func LoadBatch(path string) ([]domain.BatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calculator.LoadBatch: read %q: %w", path, err)
	}
	return ParseBatch(data)
}

// ParseBatch parsea el contenido YAML de un lote.
func ParseBatch(data []byte) ([]domain.BatchRequest, error) {
	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("calculator.ParseBatch: parse YAML: %w", err)
	}
	for i, r := range f.Calculations {
		if r.CalculatorID == "" {
			return nil, fmt.Errorf("calculator.ParseBatch: entry %d has no calculator", i+1)
		}
	}
	return f.Calculations, nil
}

// EvaluateBatch evalúa todas las entradas con un worker pool.
// El resultado mantiene el orden de reqs; los errores quedan en cada BatchOutcome.
//
// Si workers <= 0 usa runtime.NumCPU().
func (s *Service) EvaluateBatch(ctx context.Context, reqs []domain.BatchRequest, workers int) []domain.BatchOutcome {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	outcomes := make([]domain.BatchOutcome, len(reqs))
	workCh := make(chan int, len(reqs))

	// Cada worker escribe solo en su índice, no hace falta lock sobre outcomes.
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				req := reqs[idx]
				outcomes[idx].Request = req
				if err := ctx.Err(); err != nil {
					outcomes[idx].Err = err
					continue
				}
				calc, err := s.Evaluate(ctx, req.CalculatorID, req.Inputs)
				if err != nil {
					slog.Debug("batch entry failed",
						"name", req.Name,
						"calculator", req.CalculatorID,
						"err", err,
					)
					outcomes[idx].Err = err
					continue
				}
				outcomes[idx].Calculation = calc
			}
		}()
	}

	for i := range reqs {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	slog.Debug("batch complete", "entries", len(reqs), "workers", workers)
	return outcomes
}
