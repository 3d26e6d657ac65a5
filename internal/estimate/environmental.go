package estimate

// Environmental is the avoided-emissions projection for a year of generation.
type Environmental struct {
	AnnualGenerationKwh    float64 `json:"annual_generation_kwh"`
	AnnualCo2AvoidedKg     float64 `json:"annual_co2_avoided_kg"`
	EquivalentTreesPerYear float64 `json:"equivalent_trees_per_year"`
}

// EnvironmentalImpact converts annual generation into avoided CO2 and equivalent trees
// using the default factors.
func EnvironmentalImpact(annualGenerationKwh float64) Environmental {
	return EnvironmentalImpactWith(annualGenerationKwh, DefaultEmissionFactorKgPerKwh, DefaultCo2AbsorbedPerTreeKg)
}

// EnvironmentalImpactWith is EnvironmentalImpact with explicit factors.
// Negative generation is treated as zero.
func EnvironmentalImpactWith(annualGenerationKwh, emissionFactor, co2PerTree float64) Environmental {
	annual := nonNegative(annualGenerationKwh)
	co2 := annual * emissionFactor

	var trees float64
	if co2PerTree > 0 {
		trees = co2 / co2PerTree
	}
	return Environmental{
		AnnualGenerationKwh:    annual,
		AnnualCo2AvoidedKg:     co2,
		EquivalentTreesPerYear: trees,
	}
}
