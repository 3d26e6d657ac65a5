package estimate

import (
	"encoding/json"
	"math"
)

// SavingsStrategy names how monthly savings are estimated.
type SavingsStrategy string

const (
	// SavingsAuto uses the tariff strategy when a tariff record resolves, bill-ratio otherwise.
	SavingsAuto SavingsStrategy = ""
	// SavingsTariff values generation at the tariff, capped at a share of the bill.
	SavingsTariff SavingsStrategy = "tariff"
	// SavingsBillRatio derives the tariff from bill/consumption and saves a flat share of the bill.
	SavingsBillRatio SavingsStrategy = "bill_ratio"
)

// Valid reports whether s is a known strategy (including auto).
func (s SavingsStrategy) Valid() bool {
	switch s {
	case SavingsAuto, SavingsTariff, SavingsBillRatio:
		return true
	}
	return false
}

// Payback is the simple payback period. It is unavailable when annual savings are zero.
type Payback struct {
	years     float64
	available bool
}

// PaybackUnavailable is the sentinel for a payback that cannot be computed.
var PaybackUnavailable = Payback{}

// PaybackYears builds an available payback.
func PaybackYears(years float64) Payback {
	return Payback{years: years, available: true}
}

// Years returns the payback in years and whether it is available.
func (p Payback) Years() (float64, bool) {
	return p.years, p.available
}

// Available reports whether the payback could be computed.
func (p Payback) Available() bool {
	return p.available
}

// MarshalJSON encodes an unavailable payback as null.
func (p Payback) MarshalJSON() ([]byte, error) {
	if !p.available {
		return []byte("null"), nil
	}
	return json.Marshal(p.years)
}

// UnmarshalJSON accepts a number or null.
func (p *Payback) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PaybackUnavailable
		return nil
	}
	var years float64
	if err := json.Unmarshal(data, &years); err != nil {
		return err
	}
	*p = PaybackYears(years)
	return nil
}

// Savings is the financial projection for one system.
type Savings struct {
	Strategy              SavingsStrategy `json:"strategy"`
	EffectiveTariffPerKwh float64         `json:"effective_tariff_per_kwh"`
	MonthlySavings        float64         `json:"monthly_savings"`
	AnnualSavings         float64         `json:"annual_savings"`
	Payback               Payback         `json:"payback_years"`
}

// TariffSavings values generation at the tariff, never exceeding capFraction of the bill.
func TariffSavings(monthlyGenerationKwh, tariffPerKwh, monthlyBill, capFraction, averageInvestment float64) Savings {
	monthly := math.Min(
		nonNegative(monthlyGenerationKwh)*tariffPerKwh,
		nonNegative(monthlyBill)*capFraction,
	)
	return finish(SavingsTariff, tariffPerKwh, monthly, averageInvestment)
}

// BillRatioSavings derives the average tariff from the bill and saves a flat share of it.
// With zero consumption the effective tariff is reported as 0.
func BillRatioSavings(monthlyConsumptionKwh, monthlyBill, capFraction, averageInvestment float64) Savings {
	consumption := nonNegative(monthlyConsumptionKwh)
	bill := nonNegative(monthlyBill)

	var tariff float64
	if consumption > 0 {
		tariff = bill / consumption
	}
	return finish(SavingsBillRatio, tariff, bill*capFraction, averageInvestment)
}

func finish(strategy SavingsStrategy, tariff, monthly, averageInvestment float64) Savings {
	annual := monthly * MonthsPerYear
	return Savings{
		Strategy:              strategy,
		EffectiveTariffPerKwh: tariff,
		MonthlySavings:        monthly,
		AnnualSavings:         annual,
		Payback:               ComputePayback(averageInvestment, annual),
	}
}

// ComputePayback divides the investment by annual savings,
// returning PaybackUnavailable instead of a division by zero.
func ComputePayback(averageInvestment, annualSavings float64) Payback {
	if annualSavings <= 0 || math.IsNaN(annualSavings) || math.IsNaN(averageInvestment) {
		return PaybackUnavailable
	}
	years := averageInvestment / annualSavings
	if math.IsInf(years, 0) {
		return PaybackUnavailable
	}
	return PaybackYears(years)
}
