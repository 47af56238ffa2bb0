package domain

// BatchRequest es una entrada de un lote de cálculos.
type BatchRequest struct {
	Name         string `yaml:"name"`
	CalculatorID string `yaml:"calculator"`
	Inputs       Values `yaml:"inputs"`
}

// BatchOutcome es el resultado de una entrada del lote. Err != nil si falló.
type BatchOutcome struct {
	Request     BatchRequest
	Calculation Calculation
	Err         error
}
