package estimate

import "math"

// roundingEpsilon absorbs float noise so an exact multiple of the module wattage
// is not bumped up by one module.
const roundingEpsilon = 1e-9

// Size returns the system capacity (kWp) needed to generate targetFraction of the
// monthly consumption. Irradiance and efficiency are positive by catalog invariant.
func Size(monthlyConsumptionKwh, irradiance, efficiency, targetFraction float64) float64 {
	return SizeWithDays(monthlyConsumptionKwh, irradiance, efficiency, targetFraction, DaysPerMonth)
}

// SizeWithDays is Size with an explicit month length.
func SizeWithDays(monthlyConsumptionKwh, irradiance, efficiency, targetFraction, days float64) float64 {
	desired := nonNegative(monthlyConsumptionKwh) * targetFraction
	return desired / (days * irradiance * efficiency)
}

// ModuleCount is the number of modules needed to reach requiredKw.
// It always rounds up; undersizing is never allowed. The result never
// exceeds MaxModuleCount.
func ModuleCount(requiredKw float64, moduleWattage int) int {
	if math.IsNaN(requiredKw) || requiredKw <= 0 || moduleWattage <= 0 {
		return 0
	}
	modules := math.Ceil(requiredKw*1000/float64(moduleWattage) - roundingEpsilon)
	if modules >= MaxModuleCount {
		return MaxModuleCount
	}
	return int(modules)
}

// InstalledCapacity is the rated capacity (kWp) of modules × moduleWattage.
func InstalledCapacity(modules, moduleWattage int) float64 {
	return float64(modules) * float64(moduleWattage) / 1000
}
