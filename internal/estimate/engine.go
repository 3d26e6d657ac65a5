package estimate

import (
	"math"
	"strings"

	"github.com/i9-energia/solar-estimator/internal/catalog"
)

// InstallationType is accepted with an input but does not change the calculation yet.
type InstallationType string

const (
	InstallationResidential InstallationType = "residential"
	InstallationCommercial  InstallationType = "commercial"
	InstallationIndustrial  InstallationType = "industrial"
	InstallationOther       InstallationType = "other"
)

// Valid reports whether t is blank or one of the known installation types.
func (t InstallationType) Valid() bool {
	switch t {
	case "", InstallationResidential, InstallationCommercial, InstallationIndustrial, InstallationOther:
		return true
	}
	return false
}

// Input is one calculation request.
type Input struct {
	CityName              string           `json:"city"`
	MonthlyConsumptionKwh float64          `json:"monthly_consumption_kwh"`
	MonthlyBillAmount     float64          `json:"monthly_bill_amount"`
	SelectedKitID         string           `json:"kit_id,omitempty"`
	InstallationType      InstallationType `json:"installation_type,omitempty"`
	PricingStrategy       PricingStrategy  `json:"pricing_strategy,omitempty"`
	SavingsStrategy       SavingsStrategy  `json:"savings_strategy,omitempty"`
}

// Result is the immutable outcome of a calculation.
type Result struct {
	RequiredCapacityKw     float64          `json:"required_capacity_kw"`
	ModuleCount            int              `json:"module_count"`
	InstalledCapacityKw    float64          `json:"installed_capacity_kw"`
	MonthlyGenerationKwh   float64          `json:"monthly_generation_kwh"`
	PriceMin               float64          `json:"price_min"`
	PriceMax               float64          `json:"price_max"`
	MonthlySavings         float64          `json:"monthly_savings"`
	AnnualSavings          float64          `json:"annual_savings"`
	PaybackYears           Payback          `json:"payback_years"`
	AnnualGenerationKwh    float64          `json:"annual_generation_kwh"`
	AnnualCo2AvoidedKg     float64          `json:"annual_co2_avoided_kg"`
	EquivalentTreesPerYear float64          `json:"equivalent_trees_per_year"`
	EffectiveTariffPerKwh  float64          `json:"effective_tariff_per_kwh"`
	PricingStrategy        PricingStrategy  `json:"pricing_strategy"`
	SavingsStrategy        SavingsStrategy  `json:"savings_strategy"`
	InstallationType       InstallationType `json:"installation_type,omitempty"`
	KitQuotes              []KitQuote       `json:"kit_quotes,omitempty"`

	ResolvedCity   *catalog.CityRecord   `json:"resolved_city"`
	ResolvedKit    *catalog.EquipmentKit `json:"resolved_kit"`
	ResolvedTariff *catalog.TariffRecord `json:"resolved_tariff"`
}

// Engine runs the estimation pipeline with a fixed parameter set.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	params Params
}

// NewEngine creates an engine. Invalid params are replaced by the defaults;
// callers that need to know should run Params.Validate first.
func NewEngine(p Params) *Engine {
	if p.Validate() != nil {
		p = DefaultParams()
	}
	return &Engine{params: p}
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params {
	return e.params
}

// SelectPricing applies the pricing selection rule: an explicit strategy wins,
// otherwise a non-blank kit id selects single-kit and a blank one catalog-scan.
func SelectPricing(in Input) PricingStrategy {
	if in.PricingStrategy != PricingAuto && in.PricingStrategy.Valid() {
		return in.PricingStrategy
	}
	if strings.TrimSpace(in.SelectedKitID) != "" {
		return PricingSingleKit
	}
	return PricingCatalogScan
}

// SelectSavings applies the savings selection rule: an explicit strategy wins,
// otherwise a resolved tariff record selects the tariff strategy and its absence bill-ratio.
func SelectSavings(in Input, tariffResolved bool) SavingsStrategy {
	if in.SavingsStrategy != SavingsAuto && in.SavingsStrategy.Valid() {
		return in.SavingsStrategy
	}
	if tariffResolved {
		return SavingsTariff
	}
	return SavingsBillRatio
}

// Calculate turns an input into a result using the given table snapshot.
// It never fails: unknown cities and kits fall back to defaults, negative or
// non-finite numbers are treated as zero and amounts above MaxMonthlyConsumptionKwh
// or MaxMonthlyBillAmount are capped. A nil snapshot behaves as empty tables.
func (e *Engine) Calculate(tables *catalog.TableSet, in Input) Result {
	p := e.params
	consumption := bounded(in.MonthlyConsumptionKwh, MaxMonthlyConsumptionKwh)
	bill := bounded(in.MonthlyBillAmount, MaxMonthlyBillAmount)

	city, cityOK := tables.ResolveCity(in.CityName)
	tariff, tariffOK := tables.ResolveTariff(in.CityName)
	kit, kitOK := tables.ResolveKit(in.SelectedKitID)

	required := SizeWithDays(consumption, city.Irradiance, kit.Efficiency, p.TargetFraction, p.DaysPerMonth)
	modules := ModuleCount(required, kit.ModuleWattage)
	installed := InstalledCapacity(modules, kit.ModuleWattage)
	generation := GenerationWithDays(installed, city.Irradiance, kit.Efficiency, p.DaysPerMonth)

	res := Result{
		RequiredCapacityKw:   required,
		ModuleCount:          modules,
		InstalledCapacityKw:  installed,
		MonthlyGenerationKwh: generation,
		InstallationType:     in.InstallationType,
	}

	res.PricingStrategy = SelectPricing(in)
	var band PriceRange
	switch res.PricingStrategy {
	case PricingSingleKit:
		band = SingleKitPrice(installed, kit, p.PriceBandFraction)
	default:
		band, res.KitQuotes = CatalogScanPrice(tables.ListKits(), consumption, city.Irradiance, p)
	}
	res.PriceMin, res.PriceMax = band.Min, band.Max

	var savings Savings
	switch SelectSavings(in, tariffOK) {
	case SavingsTariff:
		savings = TariffSavings(generation, tariff.TariffPerKwh, bill, p.SavingsCapFraction, band.Average())
	default:
		savings = BillRatioSavings(consumption, bill, p.SavingsCapFraction, band.Average())
	}
	res.SavingsStrategy = savings.Strategy
	res.EffectiveTariffPerKwh = savings.EffectiveTariffPerKwh
	res.MonthlySavings = savings.MonthlySavings
	res.AnnualSavings = savings.AnnualSavings
	res.PaybackYears = savings.Payback

	env := EnvironmentalImpactWith(generation*MonthsPerYear, p.EmissionFactorKgPerKwh, p.Co2AbsorbedPerTreeKg)
	res.AnnualGenerationKwh = env.AnnualGenerationKwh
	res.AnnualCo2AvoidedKg = env.AnnualCo2AvoidedKg
	res.EquivalentTreesPerYear = env.EquivalentTreesPerYear

	if cityOK {
		res.ResolvedCity = &city
	}
	if kitOK {
		res.ResolvedKit = &kit
	}
	if tariffOK {
		res.ResolvedTariff = &tariff
	}
	return res
}

// Calculate runs the default engine.
func Calculate(tables *catalog.TableSet, in Input) Result {
	return NewEngine(DefaultParams()).Calculate(tables, in)
}

func bounded(v, max float64) float64 {
	return math.Min(nonNegative(v), max)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
