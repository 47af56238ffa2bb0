package domain

// cashflow.go — NPV y búsqueda de IRR por bisección.
//
// Estrategia:
//   - NPV es una suma directa Σ CF_t / (1+r)^t, sin estado.
//   - IRR busca el r donde NPV cruza cero: primero amplía el bracket
//     duplicando el extremo superior, después biseca.
//   - Sin errores ni panics: "sin solución" se reporta con ok=false.

import (
	"errors"
	"fmt"
	"math"
)

// CashFlowSeries es una serie de flujos por período. t=0 es la inversión inicial
// (normalmente negativa). Ninguna función de este paquete la modifica.
type CashFlowSeries []float64

// SolverConfig contiene los parámetros del buscador de IRR.
type SolverConfig struct {
	// LowerBound es el extremo inferior del bracket. Debe ser > -1 para que
	// (1+r) nunca llegue a cero.
	LowerBound float64
	// UpperBound es el extremo superior inicial (10 = 1000% por período).
	UpperBound float64
	// MaxExpansions es cuántas veces se puede duplicar UpperBound buscando un cambio de signo.
	MaxExpansions int
	// MaxIterations es el número máximo de pasos de bisección.
	MaxIterations int
	// Tolerance es el |NPV| por debajo del cual se considera convergido.
	Tolerance float64
}

// DefaultSolverConfig devuelve los parámetros por defecto del solver.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		LowerBound:    -0.9999,
		UpperBound:    10,
		MaxExpansions: 10,
		MaxIterations: 80,
		Tolerance:     1e-8,
	}
}

// Validate verifica que la configuración sea utilizable.
func (c SolverConfig) Validate() error {
	if c.LowerBound <= -1 {
		return fmt.Errorf("solver: lower bound %.6f must be > -1", c.LowerBound)
	}
	if c.UpperBound <= c.LowerBound {
		return fmt.Errorf("solver: upper bound %.6f must be > lower bound %.6f", c.UpperBound, c.LowerBound)
	}
	if c.MaxExpansions < 0 {
		return errors.New("solver: max expansions must be >= 0")
	}
	if c.MaxIterations <= 0 {
		return errors.New("solver: max iterations must be > 0")
	}
	if c.Tolerance <= 0 {
		return errors.New("solver: tolerance must be > 0")
	}
	return nil
}

// NPV calcula el valor presente neto de los flujos a la tasa dada.
//
//	NPV = Σ_{t=0}^{n} CF_t / (1 + rate)^t
//
// rate <= -1 queda fuera de dominio: el resultado puede ser Inf o NaN.
func NPV(rate float64, cashflows []float64) float64 {
	var npv float64
	for t, cf := range cashflows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// IRR devuelve la tasa interna de retorno con DefaultSolverConfig.
// ok=false significa que no hay cambio de signo de NPV en el rango buscado.
func IRR(cashflows []float64) (rate float64, ok bool) {
	return DefaultSolverConfig().IRR(cashflows)
}

// IRR busca la tasa r con NPV(r) ≈ 0 mediante ampliación de bracket + bisección.
//
// Series con menos de dos períodos o con valores no finitos no tienen IRR.
// Si la bisección agota MaxIterations sin llegar a Tolerance, devuelve el
// punto medio del último bracket.
func (c SolverConfig) IRR(cashflows []float64) (rate float64, ok bool) {
	if len(cashflows) < 2 || !allFinite(cashflows) {
		return 0, false
	}

	low, high := c.LowerBound, c.UpperBound
	npvLow := NPV(low, cashflows)
	npvHigh := NPV(high, cashflows)

	for i := 0; npvLow*npvHigh > 0 && i < c.MaxExpansions; i++ {
		high *= 2
		npvHigh = NPV(high, cashflows)
	}
	if npvLow*npvHigh > 0 {
		return 0, false
	}

	for i := 0; i < c.MaxIterations; i++ {
		mid := (low + high) / 2
		npvMid := NPV(mid, cashflows)
		if math.Abs(npvMid) < c.Tolerance {
			return mid, true
		}
		if npvLow*npvMid <= 0 {
			high = mid
			npvHigh = npvMid
		} else {
			low = mid
			npvLow = npvMid
		}
	}
	return (low + high) / 2, true
}

// PresentValueOfInflows descuenta solo los flujos t >= 1 (excluye la inversión inicial).
func PresentValueOfInflows(rate float64, cashflows []float64) float64 {
	if len(cashflows) < 2 {
		return 0
	}
	var pv float64
	for t := 1; t < len(cashflows); t++ {
		pv += cashflows[t] / math.Pow(1+rate, float64(t))
	}
	return pv
}

// ProfitabilityIndex = PV(flujos t>=1) / |CF_0|.
// Devuelve ok=false si no hay inversión inicial.
func ProfitabilityIndex(rate float64, cashflows []float64) (float64, bool) {
	if len(cashflows) == 0 || cashflows[0] == 0 {
		return 0, false
	}
	return PresentValueOfInflows(rate, cashflows) / math.Abs(cashflows[0]), true
}

// Annuity construye [-initial, inflow, inflow, ...] con `periods` flujos iguales.
func Annuity(initial, inflow float64, periods int) CashFlowSeries {
	if periods < 0 {
		periods = 0
	}
	flows := make(CashFlowSeries, periods+1)
	flows[0] = -initial
	for t := 1; t <= periods; t++ {
		flows[t] = inflow
	}
	return flows
}

// NPVProfile evalúa NPV en cada tasa. Útil para graficar la curva NPV vs tasa.
func NPVProfile(cashflows, rates []float64) []float64 {
	out := make([]float64, len(rates))
	for i, r := range rates {
		out[i] = NPV(r, cashflows)
	}
	return out
}

// Sum devuelve la suma simple de los flujos (equivale a NPV a tasa 0).
func (s CashFlowSeries) Sum() float64 {
	var total float64
	for _, cf := range s {
		total += cf
	}
	return total
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
