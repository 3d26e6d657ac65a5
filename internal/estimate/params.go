package estimate

import (
	"fmt"
	"math"
)

// Named constants of the estimation model. Params carries overridable copies.
const (
	// DaysPerMonth is the fixed month length used for generation estimates.
	DaysPerMonth = 30.0

	// DefaultTargetFraction sizes the system to cover 90% of consumption,
	// matching typical net-metering caps.
	DefaultTargetFraction = 0.9

	// DefaultSavingsCapFraction bounds monthly savings to a share of the bill.
	DefaultSavingsCapFraction = 0.75

	// DefaultPriceBandFraction widens a single-kit price into a ±10% quote band.
	DefaultPriceBandFraction = 0.10

	// DefaultEmissionFactorKgPerKwh is the regional grid emission factor (kg CO2 per kWh).
	DefaultEmissionFactorKgPerKwh = 0.0817

	// DefaultCo2AbsorbedPerTreeKg is the CO2 a tree absorbs per year (kg).
	DefaultCo2AbsorbedPerTreeKg = 22.0

	// MonthsPerYear converts monthly figures to annual ones.
	MonthsPerYear = 12

	// MaxMonthlyConsumptionKwh and MaxMonthlyBillAmount are the largest inputs
	// the engine takes at face value; larger values are capped.
	MaxMonthlyConsumptionKwh = 1e7
	MaxMonthlyBillAmount     = 1e9

	// MaxModuleCount caps ModuleCount so the count always fits an int32.
	MaxModuleCount = math.MaxInt32
)

// Params holds the tunable constants of the engine.
type Params struct {
	DaysPerMonth           float64 `json:"days_per_month"`
	TargetFraction         float64 `json:"target_fraction"`
	SavingsCapFraction     float64 `json:"savings_cap_fraction"`
	PriceBandFraction      float64 `json:"price_band_fraction"`
	EmissionFactorKgPerKwh float64 `json:"emission_factor_kg_per_kwh"`
	Co2AbsorbedPerTreeKg   float64 `json:"co2_absorbed_per_tree_kg"`
}

// DefaultParams returns the documented model constants.
func DefaultParams() Params {
	return Params{
		DaysPerMonth:           DaysPerMonth,
		TargetFraction:         DefaultTargetFraction,
		SavingsCapFraction:     DefaultSavingsCapFraction,
		PriceBandFraction:      DefaultPriceBandFraction,
		EmissionFactorKgPerKwh: DefaultEmissionFactorKgPerKwh,
		Co2AbsorbedPerTreeKg:   DefaultCo2AbsorbedPerTreeKg,
	}
}

// Validate rejects parameter sets that would make the model divide by zero
// or produce nonsensical bands.
func (p Params) Validate() error {
	checks := []struct {
		name  string
		value float64
		max   float64
	}{
		{"days_per_month", p.DaysPerMonth, 31},
		{"target_fraction", p.TargetFraction, 1},
		{"savings_cap_fraction", p.SavingsCapFraction, 1},
		{"emission_factor_kg_per_kwh", p.EmissionFactorKgPerKwh, math.Inf(1)},
		{"co2_absorbed_per_tree_kg", p.Co2AbsorbedPerTreeKg, math.Inf(1)},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value <= 0 || c.value > c.max {
			return fmt.Errorf("%w: %s must be in (0, %v], got %v", ErrInvalidParams, c.name, c.max, c.value)
		}
	}
	if math.IsNaN(p.PriceBandFraction) || p.PriceBandFraction < 0 || p.PriceBandFraction >= 1 {
		return fmt.Errorf("%w: price_band_fraction must be in [0, 1), got %v", ErrInvalidParams, p.PriceBandFraction)
	}
	return nil
}

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidParams is returned by Params.Validate.
const ErrInvalidParams = constError("invalid engine parameters")
