package catalog

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// money formatea con separador de miles y 2 decimales: 108143.29 → "$108,143.29".
func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(round2(-v), 2)
	}
	return "$" + humanize.CommafWithDigits(round2(v), 2)
}

// pct formatea una fracción como porcentaje: 0.1524 → "15.24%".
func pct(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

func num(v float64, unit string) string {
	s := humanize.CommafWithDigits(v, 2)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// round2 redondea a céntimos sobre la representación decimal: 1.005 → 1.01.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
