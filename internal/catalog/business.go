package catalog

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

const (
	maxMoney      = 1_000_000_000_000.0
	maxRatePct    = 1000.0 // 1000% por período
	maxLoanMonths = 600    // 50 años
	cashFlowYears = 5
)

func businessCalculators(solver domain.SolverConfig) []domain.Calculator {
	return []domain.Calculator{
		irrCalculator(solver),
		npvCalculator(),
		profitabilityIndexCalculator(),
		loanPaymentCalculator(),
		compoundInterestCalculator(),
		roiCalculator(),
		breakEvenCalculator(),
	}
}

// cashFlowFields son la inversión inicial + cinco flujos anuales.
func cashFlowFields() []domain.Field {
	fields := []domain.Field{{
		Key: "initial", Label: "Initial investment", Kind: domain.FieldMoney,
		Default: 100000, Min: 0, Max: maxMoney, Step: 1000,
		Help: "Amount invested at t=0 (entered as a positive number)",
	}}
	for t := 1; t <= cashFlowYears; t++ {
		fields = append(fields, domain.Field{
			Key: fmt.Sprintf("cf%d", t), Label: fmt.Sprintf("Cash flow year %d", t),
			Kind: domain.FieldMoney, Default: 30000, Min: -maxMoney, Max: maxMoney, Step: 1000,
		})
	}
	return fields
}

// cashFlowsFrom convierte los inputs en la serie [-initial, cf1..cf5].
func cashFlowsFrom(v domain.Values) domain.CashFlowSeries {
	flows := make(domain.CashFlowSeries, 0, cashFlowYears+1)
	flows = append(flows, -v.Get("initial"))
	for t := 1; t <= cashFlowYears; t++ {
		flows = append(flows, v.Get(fmt.Sprintf("cf%d", t)))
	}
	return flows
}

func periodLabels(n int) []string {
	labels := make([]string, n)
	for t := range labels {
		labels[t] = fmt.Sprintf("Y%d", t)
	}
	return labels
}

func irrCalculator(solver domain.SolverConfig) domain.Calculator {
	return domain.Calculator{
		ID:          "irr",
		Title:       "Internal Rate of Return",
		Description: "Discount rate at which the NPV of the cash flows is zero",
		Category:    domain.CategoryBusiness,
		Fields:      cashFlowFields(),
		Calculate: func(v domain.Values) (domain.Result, error) {
			flows := cashFlowsFrom(v)

			profileRates := make([]float64, 11)
			labels := make([]string, len(profileRates))
			for i := range profileRates {
				profileRates[i] = float64(i) * 0.05
				labels[i] = pct(profileRates[i])
			}
			chart := &domain.Chart{
				Kind:   domain.ChartLine,
				Title:  "NPV vs discount rate",
				Labels: labels,
				Series: []domain.ChartSeries{{Name: "NPV", Values: domain.NPVProfile(flows, profileRates)}},
			}

			rate, ok := solver.IRR(flows)
			if !ok {
				return domain.Result{
					Headline:    "No IRR",
					Computable:  false,
					Explanation: "Unable to find an IRR for these cash flows",
					Steps: []domain.Step{
						{Label: "Cash flows", Detail: fmt.Sprint([]float64(flows))},
						{Label: "Sign check", Detail: "NPV does not cross zero in the searched rate range"},
					},
					Tips: []string{
						"IRR needs at least one outflow and one inflow",
						"Enter the initial investment as a positive amount; it is treated as an outflow",
					},
					Chart: chart,
				}, nil
			}

			return domain.Result{
				Headline:   "IRR: " + pct(rate),
				Value:      rate * 100,
				Unit:       "%",
				Computable: true,
				Explanation: fmt.Sprintf("Investing %s returns %s per year over %d years",
					money(v.Get("initial")), pct(rate), cashFlowYears),
				Steps: []domain.Step{
					{Label: "Cash flows", Detail: fmt.Sprint([]float64(flows))},
					{Label: "Undiscounted total", Detail: money(flows.Sum())},
					{Label: "Root search", Detail: "bisection on NPV(r) = 0"},
					{Label: "Check", Detail: fmt.Sprintf("NPV at %s = %s", pct(rate), money(domain.NPV(rate, flows)))},
				},
				Tips: []string{
					"Compare the IRR against your cost of capital; accept projects whose IRR is higher",
					"Cash flows that change sign more than once can have several IRRs",
				},
				Chart: chart,
			}, nil
		},
	}
}

func npvCalculator() domain.Calculator {
	fields := append([]domain.Field{{
		Key: "rate", Label: "Discount rate", Kind: domain.FieldPercent, Unit: "%",
		Default: 10, Min: -99.99, Max: maxRatePct, Step: 0.5,
	}}, cashFlowFields()...)

	return domain.Calculator{
		ID:          "npv",
		Title:       "Net Present Value",
		Description: "Sum of cash flows discounted at a fixed rate",
		Category:    domain.CategoryBusiness,
		Fields:      fields,
		Calculate: func(v domain.Values) (domain.Result, error) {
			rate := v.Get("rate") / 100
			flows := cashFlowsFrom(v)
			npv := domain.NPV(rate, flows)

			pvs := make([]float64, len(flows))
			steps := make([]domain.Step, 0, len(flows)+1)
			for t, cf := range flows {
				pvs[t] = cf / math.Pow(1+rate, float64(t))
				steps = append(steps, domain.Step{
					Label:  fmt.Sprintf("Year %d", t),
					Detail: fmt.Sprintf("%s / (1 + %s)^%d = %s", money(cf), pct(rate), t, money(pvs[t])),
				})
			}
			steps = append(steps, domain.Step{Label: "NPV", Detail: money(npv)})

			verdict := "creates value"
			if npv < 0 {
				verdict = "destroys value"
			}
			return domain.Result{
				Headline:    "NPV: " + money(npv),
				Value:       npv,
				Unit:        "$",
				Computable:  true,
				Explanation: fmt.Sprintf("At a %s discount rate the project %s", pct(rate), verdict),
				Steps:       steps,
				Tips: []string{
					"Use your cost of capital as the discount rate",
					"A positive NPV means the project earns more than the discount rate",
				},
				Chart: &domain.Chart{
					Kind:   domain.ChartBar,
					Title:  "Present value per year",
					Labels: periodLabels(len(flows)),
					Series: []domain.ChartSeries{
						{Name: "Cash flow", Values: append([]float64(nil), flows...)},
						{Name: "Present value", Values: pvs},
					},
				},
			}, nil
		},
	}
}

func profitabilityIndexCalculator() domain.Calculator {
	return domain.Calculator{
		ID:          "profitability-index",
		Title:       "Profitability Index",
		Description: "PV of future inflows divided by the initial investment",
		Category:    domain.CategoryBusiness,
		Fields: []domain.Field{
			{Key: "rate", Label: "Discount rate", Kind: domain.FieldPercent, Unit: "%", Default: 12, Min: -99.99, Max: maxRatePct, Step: 0.5},
			{Key: "initial", Label: "Initial investment", Kind: domain.FieldMoney, Default: 100000, Min: 0.01, Max: maxMoney, Step: 1000},
			{Key: "inflow", Label: "Yearly inflow", Kind: domain.FieldMoney, Default: 30000, Min: -maxMoney, Max: maxMoney, Step: 1000},
			{Key: "years", Label: "Years", Kind: domain.FieldInteger, Default: 5, Min: 1, Max: 100, Step: 1},
		},
		Calculate: func(v domain.Values) (domain.Result, error) {
			rate := v.Get("rate") / 100
			flows := domain.Annuity(v.Get("initial"), v.Get("inflow"), int(v.Get("years")))

			pv := domain.PresentValueOfInflows(rate, flows)
			pi, ok := domain.ProfitabilityIndex(rate, flows)
			if !ok {
				return domain.Result{}, fmt.Errorf("%w: initial investment must be positive", domain.ErrInvalidInput)
			}
			npv := domain.NPV(rate, flows)

			verdict := "Accept: PI above 1 means the inflows are worth more than the investment"
			if pi < 1 {
				verdict = "Reject: PI below 1 means the inflows do not recover the investment"
			}
			return domain.Result{
				Headline:    fmt.Sprintf("PI: %.3f", pi),
				Value:       pi,
				Computable:  true,
				Explanation: verdict,
				Steps: []domain.Step{
					{Label: "PV of inflows", Detail: money(pv)},
					{Label: "Initial investment", Detail: money(v.Get("initial"))},
					{Label: "PI", Detail: fmt.Sprintf("%s / %s = %.3f", money(pv), money(v.Get("initial")), pi)},
					{Label: "NPV", Detail: money(npv)},
				},
				Tips: []string{"PI is useful to rank projects when capital is limited"},
			}, nil
		},
	}
}

// loanPayment es la cuota de un préstamo amortizable (sistema francés).
func loanPayment(amount, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return amount / float64(months)
	}
	return amount * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(months)))
}

func loanPaymentCalculator() domain.Calculator {
	return domain.Calculator{
		ID:          "loan-payment",
		Title:       "Loan Payment",
		Description: "Monthly payment of an amortized loan",
		Category:    domain.CategoryBusiness,
		Fields: []domain.Field{
			{Key: "amount", Label: "Loan amount", Kind: domain.FieldMoney, Default: 10000, Min: 1, Max: 1_000_000_000, Step: 500},
			{Key: "rate", Label: "Annual interest rate", Kind: domain.FieldPercent, Unit: "%", Default: 12, Min: 0, Max: maxRatePct, Step: 0.25},
			{Key: "months", Label: "Term", Kind: domain.FieldInteger, Unit: "months", Default: 24, Min: 1, Max: maxLoanMonths, Step: 1},
		},
		Calculate: func(v domain.Values) (domain.Result, error) {
			amount := v.Get("amount")
			monthlyRate := v.Get("rate") / 100 / 12
			months := int(v.Get("months"))

			payment := loanPayment(amount, monthlyRate, months)
			total := payment * float64(months)
			interest := total - amount

			// Saldo al final de cada año para el gráfico
			var labels []string
			var balances []float64
			balance := amount
			for m := 1; m <= months; m++ {
				balance = balance*(1+monthlyRate) - payment
				if m%12 == 0 || m == months {
					labels = append(labels, fmt.Sprintf("M%d", m))
					balances = append(balances, math.Max(balance, 0))
				}
			}

			return domain.Result{
				Headline:    "Monthly payment: " + money(payment),
				Value:       round2(payment),
				Unit:        "$",
				Computable:  true,
				Explanation: fmt.Sprintf("You pay %s in total, %s of it interest", money(total), money(interest)),
				Steps: []domain.Step{
					{Label: "Monthly rate", Detail: fmt.Sprintf("%.4f%% = %s / 12", monthlyRate*100, pct(v.Get("rate")/100))},
					{Label: "Payment", Detail: "P × r / (1 − (1 + r)^−n)"},
					{Label: "Total paid", Detail: money(total)},
					{Label: "Total interest", Detail: money(interest)},
				},
				Tips: []string{
					"A shorter term raises the payment but lowers the total interest",
				},
				Chart: &domain.Chart{
					Kind:   domain.ChartLine,
					Title:  "Remaining balance",
					Labels: labels,
					Series: []domain.ChartSeries{{Name: "Balance", Values: balances}},
				},
			}, nil
		},
	}
}

func compoundInterestCalculator() domain.Calculator {
	return domain.Calculator{
		ID:          "compound-interest",
		Title:       "Compound Interest",
		Description: "Future value of a deposit with periodic compounding",
		Category:    domain.CategoryBusiness,
		Fields: []domain.Field{
			{Key: "principal", Label: "Principal", Kind: domain.FieldMoney, Default: 10000, Min: 0, Max: maxMoney, Step: 100},
			{Key: "rate", Label: "Annual rate", Kind: domain.FieldPercent, Unit: "%", Default: 5, Min: -99.99, Max: maxRatePct, Step: 0.25},
			{Key: "compounds", Label: "Compounds per year", Kind: domain.FieldInteger, Default: 12, Min: 1, Max: 365, Step: 1},
			{Key: "years", Label: "Years", Kind: domain.FieldInteger, Default: 10, Min: 1, Max: 100, Step: 1},
		},
		Calculate: func(v domain.Values) (domain.Result, error) {
			p := v.Get("principal")
			r := v.Get("rate") / 100
			n := v.Get("compounds")
			years := int(v.Get("years"))

			growth := func(t float64) float64 { return p * math.Pow(1+r/n, n*t) }
			fv := growth(float64(years))

			labels := make([]string, years+1)
			values := make([]float64, years+1)
			for y := 0; y <= years; y++ {
				labels[y] = fmt.Sprintf("Y%d", y)
				values[y] = growth(float64(y))
			}

			return domain.Result{
				Headline:    "Future value: " + money(fv),
				Value:       round2(fv),
				Unit:        "$",
				Computable:  true,
				Explanation: fmt.Sprintf("%s grows by %s in %d years", money(p), money(fv-p), years),
				Steps: []domain.Step{
					{Label: "Formula", Detail: "P × (1 + r/n)^(n·t)"},
					{Label: "Periodic rate", Detail: fmt.Sprintf("%.4f%%", r/n*100)},
					{Label: "Periods", Detail: fmt.Sprintf("%.0f", n*float64(years))},
				},
				Tips: []string{"More frequent compounding helps, but the rate matters far more"},
				Chart: &domain.Chart{
					Kind:   domain.ChartLine,
					Title:  "Balance by year",
					Labels: labels,
					Series: []domain.ChartSeries{{Name: "Balance", Values: values}},
				},
			}, nil
		},
	}
}

func roiCalculator() domain.Calculator {
	return domain.Calculator{
		ID:          "roi",
		Title:       "Return on Investment",
		Description: "Gain relative to the amount invested",
		Category:    domain.CategoryBusiness,
		Fields: []domain.Field{
			{Key: "invested", Label: "Amount invested", Kind: domain.FieldMoney, Default: 1000, Min: 0.01, Max: maxMoney, Step: 100},
			{Key: "returned", Label: "Final value", Kind: domain.FieldMoney, Default: 1250, Min: 0, Max: maxMoney, Step: 100},
		},
		Calculate: func(v domain.Values) (domain.Result, error) {
			invested := v.Get("invested")
			gain := v.Get("returned") - invested
			roi := gain / invested
			return domain.Result{
				Headline:    "ROI: " + pct(roi),
				Value:       roi * 100,
				Unit:        "%",
				Computable:  true,
				Explanation: fmt.Sprintf("Net gain of %s on %s invested", money(gain), money(invested)),
				Steps: []domain.Step{
					{Label: "Gain", Detail: fmt.Sprintf("%s − %s = %s", money(v.Get("returned")), money(invested), money(gain))},
					{Label: "ROI", Detail: fmt.Sprintf("%s / %s = %s", money(gain), money(invested), pct(roi))},
				},
				Tips: []string{"ROI ignores how long the money was invested; use IRR to compare durations"},
			}, nil
		},
	}
}

func breakEvenCalculator() domain.Calculator {
	return domain.Calculator{
		ID:          "break-even",
		Title:       "Break-even Point",
		Description: "Units to sell before covering fixed costs",
		Category:    domain.CategoryBusiness,
		Fields: []domain.Field{
			{Key: "fixed", Label: "Fixed costs", Kind: domain.FieldMoney, Default: 50000, Min: 0, Max: maxMoney, Step: 1000},
			{Key: "price", Label: "Price per unit", Kind: domain.FieldMoney, Default: 25, Min: 0, Max: maxMoney, Step: 1},
			{Key: "variable", Label: "Variable cost per unit", Kind: domain.FieldMoney, Default: 15, Min: 0, Max: maxMoney, Step: 1},
		},
		Calculate: func(v domain.Values) (domain.Result, error) {
			margin := v.Get("price") - v.Get("variable")
			if margin <= 0 {
				return domain.Result{
					Headline:    "No break-even",
					Computable:  false,
					Explanation: "Each unit sold loses money, so fixed costs are never covered",
					Tips:        []string{"Raise the price or lower the variable cost per unit"},
				}, nil
			}
			units := math.Ceil(v.Get("fixed") / margin)
			return domain.Result{
				Headline:    fmt.Sprintf("Break-even: %s units", num(units, "")),
				Value:       units,
				Unit:        "units",
				Computable:  true,
				Explanation: fmt.Sprintf("Revenue of %s covers all costs", money(units*v.Get("price"))),
				Steps: []domain.Step{
					{Label: "Contribution margin", Detail: money(margin)},
					{Label: "Units", Detail: fmt.Sprintf("%s / %s, rounded up", money(v.Get("fixed")), money(margin))},
				},
			}, nil
		},
	}
}
