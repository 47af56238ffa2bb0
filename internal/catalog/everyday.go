package catalog

import (
	"fmt"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

func everydayCalculators() []domain.Calculator {
	return []domain.Calculator{
		{
			ID:          "tip-split",
			Title:       "Tip Splitter",
			Description: "Tip and per-person share of a bill",
			Category:    domain.CategoryEveryday,
			Fields: []domain.Field{
				{Key: "bill", Label: "Bill", Kind: domain.FieldMoney, Default: 80, Min: 0, Max: 1_000_000, Step: 1},
				{Key: "tip", Label: "Tip", Kind: domain.FieldPercent, Unit: "%", Default: 15, Min: 0, Max: 100, Step: 1},
				{Key: "people", Label: "People", Kind: domain.FieldInteger, Default: 2, Min: 1, Max: 100, Step: 1},
			},
			Calculate: func(v domain.Values) (domain.Result, error) {
				tip := v.Get("bill") * v.Get("tip") / 100
				total := v.Get("bill") + tip
				each := total / v.Get("people")
				return domain.Result{
					Headline:    "Each pays " + money(each),
					Value:       round2(each),
					Unit:        "$",
					Computable:  true,
					Explanation: fmt.Sprintf("Tip %s, total %s split %d ways", money(tip), money(total), int(v.Get("people"))),
					Steps: []domain.Step{
						{Label: "Tip", Detail: fmt.Sprintf("%s × %.0f%% = %s", money(v.Get("bill")), v.Get("tip"), money(tip))},
						{Label: "Total", Detail: money(total)},
						{Label: "Per person", Detail: money(each)},
					},
				}, nil
			},
		},
		{
			ID:          "discount",
			Title:       "Discount",
			Description: "Sale price after a percentage discount",
			Category:    domain.CategoryEveryday,
			Fields: []domain.Field{
				{Key: "price", Label: "Original price", Kind: domain.FieldMoney, Default: 120, Min: 0, Max: maxMoney, Step: 1},
				{Key: "discount", Label: "Discount", Kind: domain.FieldPercent, Unit: "%", Default: 25, Min: 0, Max: 100, Step: 1},
			},
			Calculate: func(v domain.Values) (domain.Result, error) {
				saved := v.Get("price") * v.Get("discount") / 100
				final := v.Get("price") - saved
				return domain.Result{
					Headline:    "You pay " + money(final),
					Value:       round2(final),
					Unit:        "$",
					Computable:  true,
					Explanation: "You save " + money(saved),
					Steps: []domain.Step{
						{Label: "Savings", Detail: fmt.Sprintf("%s × %.0f%%", money(v.Get("price")), v.Get("discount"))},
						{Label: "Final price", Detail: money(final)},
					},
				}, nil
			},
		},
		{
			ID:          "fuel-cost",
			Title:       "Trip Fuel Cost",
			Description: "Fuel needed and cost for a trip",
			Category:    domain.CategoryEveryday,
			Fields: []domain.Field{
				{Key: "distance", Label: "Distance", Kind: domain.FieldNumber, Unit: "km", Default: 300, Min: 0, Max: 100_000, Step: 10},
				{Key: "consumption", Label: "Consumption", Kind: domain.FieldNumber, Unit: "L/100km", Default: 6.5, Min: 0, Max: 100, Step: 0.1},
				{Key: "price", Label: "Fuel price", Kind: domain.FieldMoney, Unit: "per L", Default: 1.6, Min: 0, Max: 100, Step: 0.01},
			},
			Calculate: func(v domain.Values) (domain.Result, error) {
				litres := v.Get("distance") * v.Get("consumption") / 100
				cost := litres * v.Get("price")
				return domain.Result{
					Headline:    "Trip cost: " + money(cost),
					Value:       round2(cost),
					Unit:        "$",
					Computable:  true,
					Explanation: fmt.Sprintf("The trip uses %s of fuel", num(litres, "L")),
					Steps: []domain.Step{
						{Label: "Fuel", Detail: fmt.Sprintf("%.0f km × %.1f / 100 = %s", v.Get("distance"), v.Get("consumption"), num(litres, "L"))},
						{Label: "Cost", Detail: money(cost)},
					},
					Tips: []string{"Steady speeds around 90 km/h usually minimize consumption"},
				}, nil
			},
		},
	}
}
