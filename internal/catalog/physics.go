package catalog

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

const standardGravity = 9.80665 // m/s²

func physicsCalculators() []domain.Calculator {
	return []domain.Calculator{
		{
			ID:          "kinetic-energy",
			Title:       "Kinetic Energy",
			Description: "Energy of a moving mass",
			Category:    domain.CategoryPhysics,
			Fields: []domain.Field{
				{Key: "mass", Label: "Mass", Unit: "kg", Default: 1000, Min: 0, Max: 1e12, Step: 1},
				{Key: "velocity", Label: "Velocity", Unit: "m/s", Default: 20, Min: -3e8, Max: 3e8, Step: 1},
			},
			Calculate: func(v domain.Values) (domain.Result, error) {
				ke := 0.5 * v.Get("mass") * v.Get("velocity") * v.Get("velocity")
				return domain.Result{
					Headline:    "KE = " + num(ke, "J"),
					Value:       ke,
					Unit:        "J",
					Computable:  true,
					Explanation: "About " + num(ke/1000, "kJ"),
					Steps: []domain.Step{
						{Label: "Formula", Detail: "½ · m · v²"},
						{Label: "Substitute", Detail: fmt.Sprintf("0.5 × %g × %g²", v.Get("mass"), v.Get("velocity"))},
					},
					Tips: []string{"Doubling the speed quadruples the energy"},
				}, nil
			},
		},
		{
			ID:          "ohms-law",
			Title:       "Ohm's Law",
			Description: "Voltage and power from current and resistance",
			Category:    domain.CategoryPhysics,
			Fields: []domain.Field{
				{Key: "current", Label: "Current", Unit: "A", Default: 2, Min: -1e6, Max: 1e6, Step: 0.1},
				{Key: "resistance", Label: "Resistance", Unit: "Ω", Default: 10, Min: 0, Max: 1e12, Step: 1},
			},
			Calculate: func(v domain.Values) (domain.Result, error) {
				volts := v.Get("current") * v.Get("resistance")
				watts := volts * v.Get("current")
				return domain.Result{
					Headline:    "V = " + num(volts, "V"),
					Value:       volts,
					Unit:        "V",
					Computable:  true,
					Explanation: "Dissipated power " + num(watts, "W"),
					Steps: []domain.Step{
						{Label: "Voltage", Detail: fmt.Sprintf("V = I · R = %g × %g", v.Get("current"), v.Get("resistance"))},
						{Label: "Power", Detail: fmt.Sprintf("P = V · I = %s", num(watts, "W"))},
					},
				}, nil
			},
		},
		{
			ID:          "free-fall",
			Title:       "Free Fall",
			Description: "Time and impact speed of a dropped object, ignoring drag",
			Category:    domain.CategoryPhysics,
			Fields: []domain.Field{
				{Key: "height", Label: "Height", Unit: "m", Default: 45, Min: 0, Max: 1e5, Step: 1},
				{Key: "gravity", Label: "Gravity", Unit: "m/s²", Default: standardGravity, Min: 0.01, Max: 1000, Step: 0.01},
			},
			Calculate: func(v domain.Values) (domain.Result, error) {
				h, g := v.Get("height"), v.Get("gravity")
				t := math.Sqrt(2 * h / g)
				speed := g * t

				const samples = 10
				labels := make([]string, samples+1)
				heights := make([]float64, samples+1)
				for i := 0; i <= samples; i++ {
					ti := t * float64(i) / samples
					labels[i] = fmt.Sprintf("%.2fs", ti)
					heights[i] = math.Max(h-0.5*g*ti*ti, 0)
				}

				return domain.Result{
					Headline:    fmt.Sprintf("Falls in %.2f s", t),
					Value:       t,
					Unit:        "s",
					Computable:  true,
					Explanation: fmt.Sprintf("Impact speed %.2f m/s (%.1f km/h)", speed, speed*3.6),
					Steps: []domain.Step{
						{Label: "Time", Detail: fmt.Sprintf("√(2h / g) = √(2 × %g / %g)", h, g)},
						{Label: "Speed", Detail: fmt.Sprintf("g · t = %.2f m/s", speed)},
					},
					Chart: &domain.Chart{
						Kind:   domain.ChartLine,
						Title:  "Height over time",
						Labels: labels,
						Series: []domain.ChartSeries{{Name: "Height (m)", Values: heights}},
					},
				}, nil
			},
		},
	}
}
