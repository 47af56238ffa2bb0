package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

var (
	// ErrUnknownCalculator se devuelve cuando el ID no existe en el catálogo.
	ErrUnknownCalculator = errors.New("unknown calculator")
	// ErrInvalidInput se devuelve cuando un valor de entrada no pasa la validación del campo.
	ErrInvalidInput = errors.New("invalid input")
)

// Category agrupa las calculadoras del catálogo.
type Category int

const (
	CategoryBusiness Category = iota
	CategoryEveryday
	CategoryPhysics
)

// String devuelve el nombre de la categoría.
func (c Category) String() string {
	switch c {
	case CategoryBusiness:
		return "business"
	case CategoryEveryday:
		return "everyday"
	case CategoryPhysics:
		return "physics"
	default:
		return "unknown"
	}
}

// ParseCategory convierte el nombre de una categoría. ok=false si no existe.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "business":
		return CategoryBusiness, true
	case "everyday":
		return CategoryEveryday, true
	case "physics":
		return CategoryPhysics, true
	}
	return 0, false
}

// FieldKind indica cómo se interpreta y muestra un campo.
type FieldKind int

const (
	FieldNumber FieldKind = iota
	FieldPercent
	FieldMoney
	FieldInteger
)

// String devuelve el nombre del tipo de campo.
func (k FieldKind) String() string {
	switch k {
	case FieldPercent:
		return "percent"
	case FieldMoney:
		return "money"
	case FieldInteger:
		return "integer"
	default:
		return "number"
	}
}

// MarshalText permite serializar FieldKind como texto en JSON.
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText es el inverso de MarshalText.
func (k *FieldKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "number":
		*k = FieldNumber
	case "percent":
		*k = FieldPercent
	case "money":
		*k = FieldMoney
	case "integer":
		*k = FieldInteger
	default:
		return fmt.Errorf("unknown field kind %q", b)
	}
	return nil
}

// Field describe un input de la calculadora.
// Min y Max iguales a cero significan "sin límite".
type Field struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Unit    string    `json:"unit,omitempty"`
	Help    string    `json:"help,omitempty"`
	Kind    FieldKind `json:"kind"`
	Default float64   `json:"default"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Step    float64   `json:"step,omitempty"`
}

func (f Field) bounded() bool {
	return f.Min != 0 || f.Max != 0
}

// check valida un valor contra los límites del campo.
func (f Field) check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, f.Key)
	}
	if f.Kind == FieldInteger && v != math.Trunc(v) {
		return fmt.Errorf("%w: %s must be a whole number", ErrInvalidInput, f.Key)
	}
	if f.bounded() && (v < f.Min || v > f.Max) {
		return fmt.Errorf("%w: %s must be between %g and %g", ErrInvalidInput, f.Key, f.Min, f.Max)
	}
	return nil
}

// Values son los valores de entrada indexados por Field.Key.
type Values map[string]float64

// Get devuelve el valor o 0 si no existe.
func (v Values) Get(key string) float64 {
	return v[key]
}

// Has devuelve true si la clave está presente.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Keys devuelve las claves ordenadas alfabéticamente.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Step es un paso del cálculo mostrado al usuario.
type Step struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// ChartKind es el tipo de gráfico sugerido para los datos.
type ChartKind int

const (
	ChartBar ChartKind = iota
	ChartLine
)

// String devuelve el nombre del tipo de gráfico.
func (k ChartKind) String() string {
	if k == ChartLine {
		return "line"
	}
	return "bar"
}

// MarshalText permite serializar ChartKind como texto en JSON.
func (k ChartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText es el inverso de MarshalText.
func (k *ChartKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "bar":
		*k = ChartBar
	case "line":
		*k = ChartLine
	default:
		return fmt.Errorf("unknown chart kind %q", b)
	}
	return nil
}

// ChartSeries es una serie de valores alineada con Chart.Labels.
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart son los datos opcionales para graficar un resultado.
type Chart struct {
	Kind   ChartKind     `json:"kind"`
	Title  string        `json:"title"`
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

// Result es la salida de una calculadora.
type Result struct {
	Headline    string   `json:"headline"`
	Value       float64  `json:"value"`
	Unit        string   `json:"unit,omitempty"`
	Computable  bool     `json:"computable"` // false = "No IRR" u otro resultado no numérico
	Explanation string   `json:"explanation"`
	Steps       []Step   `json:"steps,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	Chart       *Chart   `json:"chart,omitempty"`
}

// CopyText devuelve el bloque de texto plano que se copia al portapapeles.
func (r Result) CopyText() string {
	var sb strings.Builder
	sb.WriteString(r.Headline)
	if r.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(r.Explanation)
	}
	for i, s := range r.Steps {
		fmt.Fprintf(&sb, "\n%d. %s: %s", i+1, s.Label, s.Detail)
	}
	return sb.String()
}

// Calculator es una entrada del catálogo: campos + fórmula pura.
type Calculator struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Fields      []Field
	Calculate   func(Values) (Result, error)
}

// Resolve completa los valores ausentes con los defaults y valida cada campo.
// Rechaza claves que la calculadora no declara.
func (c Calculator) Resolve(in Values) (Values, error) {
	known := make(map[string]struct{}, len(c.Fields))
	out := make(Values, len(c.Fields))
	for _, f := range c.Fields {
		known[f.Key] = struct{}{}
		v, ok := in[f.Key]
		if !ok {
			v = f.Default
		}
		if err := f.check(v); err != nil {
			return nil, err
		}
		out[f.Key] = v
	}
	for k := range in {
		if _, ok := known[k]; !ok {
			return nil, fmt.Errorf("%w: %s does not accept %q", ErrInvalidInput, c.ID, k)
		}
	}
	return out, nil
}

// Defaults devuelve los valores por defecto de todos los campos.
func (c Calculator) Defaults() Values {
	out := make(Values, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Key] = f.Default
	}
	return out
}

// Calculation es un cálculo ejecutado, tal como se guarda en el historial.
type Calculation struct {
	ID           string    `json:"id"`
	CalculatorID string    `json:"calculator_id"`
	Inputs       Values    `json:"inputs"`
	Result       Result    `json:"result"`
	CreatedAt    time.Time `json:"created_at"`
}

// Usage es el contador de uso de una calculadora.
type Usage struct {
	CalculatorID string    `json:"calculator_id"`
	Count        int       `json:"count"`
	LastUsed     time.Time `json:"last_used"`
}
