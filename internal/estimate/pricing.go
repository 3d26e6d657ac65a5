package estimate

import (
	"math"

	"github.com/i9-energia/solar-estimator/internal/catalog"
)

// PricingStrategy names how the price band is produced.
type PricingStrategy string

const (
	// PricingAuto picks single-kit when a kit id is given, catalog-scan otherwise.
	PricingAuto PricingStrategy = ""
	// PricingSingleKit prices the installed system with one kit, widened by the price band.
	PricingSingleKit PricingStrategy = "single_kit"
	// PricingCatalogScan sizes and prices every kit independently and reports the extremes.
	PricingCatalogScan PricingStrategy = "catalog_scan"
)

// Valid reports whether s is a known strategy (including auto).
func (s PricingStrategy) Valid() bool {
	switch s {
	case PricingAuto, PricingSingleKit, PricingCatalogScan:
		return true
	}
	return false
}

// PriceRange is a min/max investment estimate. Min <= Max always holds.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Average is the midpoint of the range.
func (r PriceRange) Average() float64 {
	return (r.Min + r.Max) / 2
}

// Generation is the realized monthly output (kWh) of an installed system.
func Generation(installedKw, irradiance, efficiency float64) float64 {
	return GenerationWithDays(installedKw, irradiance, efficiency, DaysPerMonth)
}

// GenerationWithDays is Generation with an explicit month length.
func GenerationWithDays(installedKw, irradiance, efficiency, days float64) float64 {
	return installedKw * days * irradiance * efficiency
}

// SingleKitPrice prices installedKw with one kit and widens it by ±band.
func SingleKitPrice(installedKw float64, kit catalog.EquipmentKit, band float64) PriceRange {
	price := installedKw * 1000 * kit.PricePerWatt
	return PriceRange{Min: price * (1 - band), Max: price * (1 + band)}
}

// KitQuote is the sizing and price of one kit in a catalog scan.
type KitQuote struct {
	KitID               string  `json:"kit_id"`
	RequiredCapacityKw  float64 `json:"required_capacity_kw"`
	ModuleCount         int     `json:"module_count"`
	InstalledCapacityKw float64 `json:"installed_capacity_kw"`
	Price               float64 `json:"price"`
}

// QuoteKit sizes the system with the kit's own efficiency and module wattage and prices it.
func QuoteKit(kit catalog.EquipmentKit, monthlyConsumptionKwh, irradiance float64, p Params) KitQuote {
	required := SizeWithDays(monthlyConsumptionKwh, irradiance, kit.Efficiency, p.TargetFraction, p.DaysPerMonth)
	modules := ModuleCount(required, kit.ModuleWattage)
	installed := InstalledCapacity(modules, kit.ModuleWattage)
	return KitQuote{
		KitID:               kit.ID,
		RequiredCapacityKw:  required,
		ModuleCount:         modules,
		InstalledCapacityKw: installed,
		Price:               installed * 1000 * kit.PricePerWatt,
	}
}

// CatalogScanPrice quotes every kit and returns the cheapest and most expensive price.
// An empty kit list is priced with the default kit.
func CatalogScanPrice(kits []catalog.EquipmentKit, monthlyConsumptionKwh, irradiance float64, p Params) (PriceRange, []KitQuote) {
	if len(kits) == 0 {
		kits = []catalog.EquipmentKit{catalog.DefaultKit()}
	}

	quotes := make([]KitQuote, 0, len(kits))
	r := PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, kit := range kits {
		q := QuoteKit(kit, monthlyConsumptionKwh, irradiance, p)
		quotes = append(quotes, q)
		r.Min = math.Min(r.Min, q.Price)
		r.Max = math.Max(r.Max, q.Price)
	}
	return r, quotes
}
