package catalog

// registry.go — tabla de despacho id → calculadora.
//
// Cada calculadora es un valor domain.Calculator (campos + fórmula pura).
// El registro es de solo lectura una vez construido por New(); se puede
// compartir entre goroutines sin locks.

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

// Registry indexa las calculadoras por ID.
type Registry struct {
	byID map[string]domain.Calculator
}

// NewEmpty crea un registro sin calculadoras (útil en tests).
func NewEmpty() *Registry {
	return &Registry{byID: make(map[string]domain.Calculator)}
}

// New crea el registro con todas las calculadoras incluidas.
// solver se usa en las calculadoras que buscan IRR.
func New(solver domain.SolverConfig) *Registry {
	r := NewEmpty()
	for _, c := range builtins(solver) {
		if err := r.Register(c); err != nil {
			// Los IDs de builtins son constantes: un duplicado es un bug de programación.
			panic(err)
		}
	}
	return r
}

func builtins(solver domain.SolverConfig) []domain.Calculator {
	var all []domain.Calculator
	all = append(all, businessCalculators(solver)...)
	all = append(all, everydayCalculators()...)
	all = append(all, physicsCalculators()...)
	return all
}

// Register añade una calculadora. Falla si el ID está vacío, duplicado o sin fórmula.
func (r *Registry) Register(c domain.Calculator) error {
	if c.ID == "" {
		return fmt.Errorf("catalog.Register: empty id")
	}
	if c.Calculate == nil {
		return fmt.Errorf("catalog.Register: %s has no Calculate func", c.ID)
	}
	if _, dup := r.byID[c.ID]; dup {
		return fmt.Errorf("catalog.Register: duplicate id %q", c.ID)
	}
	r.byID[c.ID] = c
	return nil
}

// Get devuelve la calculadora con ese ID o domain.ErrUnknownCalculator.
func (r *Registry) Get(id string) (domain.Calculator, error) {
	c, ok := r.byID[id]
	if !ok {
		return domain.Calculator{}, fmt.Errorf("%w: %q", domain.ErrUnknownCalculator, id)
	}
	return c, nil
}

// List devuelve todas las calculadoras ordenadas por categoría y luego por ID.
func (r *Registry) List() []domain.Calculator {
	out := make([]domain.Calculator, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ByCategory filtra List() por categoría.
func (r *Registry) ByCategory(cat domain.Category) []domain.Calculator {
	var out []domain.Calculator
	for _, c := range r.List() {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}

// Len devuelve cuántas calculadoras hay registradas.
func (r *Registry) Len() int {
	return len(r.byID)
}
