package storage

// sqlite.go — historial de cálculos.
//
// Estrategia:
//   - `calculations`: una fila por cálculo ejecutado. Inputs y resultado como JSON,
//     created_at en milisegundos Unix para que los rangos se comparen como enteros.
//   - `usage`: contador por calculadora (UPSERT), evita un COUNT(*) sobre el historial.
//   - Prune automático al arrancar: cálculos con más de 90 días.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
    id            TEXT PRIMARY KEY,
    calculator_id TEXT    NOT NULL,
    inputs        TEXT    NOT NULL,
    result        TEXT    NOT NULL,
    headline      TEXT    NOT NULL DEFAULT '',
    computable    INTEGER NOT NULL DEFAULT 1,
    created_at    INTEGER NOT NULL
);

-- Un contador por calculadora
CREATE TABLE IF NOT EXISTS usage (
    calculator_id TEXT PRIMARY KEY,
    count         INTEGER NOT NULL DEFAULT 0,
    last_used     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calc_created ON calculations(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_calc_id      ON calculations(calculator_id);
`

const retentionCalculations = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCalculation inserta el cálculo y actualiza el contador de uso en una transacción.
func (s *SQLiteStorage) SaveCalculation(ctx context.Context, calc domain.Calculation) error {
	inputs, err := json.Marshal(calc.Inputs)
	if err != nil {
		return fmt.Errorf("storage.SaveCalculation: marshal inputs: %w", err)
	}
	result, err := json.Marshal(calc.Result)
	if err != nil {
		return fmt.Errorf("storage.SaveCalculation: marshal result: %w", err)
	}

	createdAt := calc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	ms := createdAt.UTC().UnixMilli()

	computable := 0
	if calc.Result.Computable {
		computable = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCalculation: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO calculations (id, calculator_id, inputs, result, headline, computable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		calc.ID, calc.CalculatorID, string(inputs), string(result),
		calc.Result.Headline, computable, ms,
	); err != nil {
		return fmt.Errorf("storage.SaveCalculation: insert %s: %w", calc.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO usage (calculator_id, count, last_used) VALUES (?, 1, ?)
		ON CONFLICT(calculator_id) DO UPDATE SET
			count     = count + 1,
			last_used = MAX(last_used, excluded.last_used)`,
		calc.CalculatorID, ms,
	); err != nil {
		return fmt.Errorf("storage.SaveCalculation: upsert usage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveCalculation: commit: %w", err)
	}
	return nil
}

// GetHistory devuelve los cálculos con created_at en [from, to], los más recientes primero.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Calculation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, calculator_id, inputs, result, created_at
		FROM calculations
		WHERE created_at BETWEEN ? AND ?
		ORDER BY created_at DESC, id
	`, from.UTC().UnixMilli(), to.UTC().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var calcs []domain.Calculation
	for rows.Next() {
		var c domain.Calculation
		var inputs, result string
		var ms int64
		if err := rows.Scan(&c.ID, &c.CalculatorID, &inputs, &result, &ms); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &c.Inputs); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: decode inputs %s: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(result), &c.Result); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: decode result %s: %w", c.ID, err)
		}
		c.CreatedAt = time.UnixMilli(ms).UTC()
		calcs = append(calcs, c)
	}
	return calcs, rows.Err()
}

// GetUsage devuelve el contador de uso por calculadora, las más usadas primero.
func (s *SQLiteStorage) GetUsage(ctx context.Context) ([]domain.Usage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT calculator_id, count, last_used FROM usage ORDER BY count DESC, calculator_id`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetUsage: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Usage
	for rows.Next() {
		var u domain.Usage
		var ms int64
		if err := rows.Scan(&u.CalculatorID, &u.Count, &ms); err != nil {
			return nil, fmt.Errorf("storage.GetUsage: scan row: %w", err)
		}
		u.LastUsed = time.UnixMilli(ms).UTC()
		out = append(out, u)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina cálculos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionCalculations).UnixMilli()
	s.db.ExecContext(ctx, `DELETE FROM calculations WHERE created_at < ?`, cutoff)
}
