package catalog

// CityRecord holds the solar resource for one city.
type CityRecord struct {
	Name       string   `json:"name" yaml:"name"`
	Irradiance float64  `json:"irradiance" yaml:"irradiance"` // kWh/m²/day
	State      string   `json:"state" yaml:"state"`
	Latitude   *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// TariffRecord is the energy price charged by the distributor serving a city.
type TariffRecord struct {
	City         string  `json:"city" yaml:"city"`
	Distributor  string  `json:"distributor" yaml:"distributor"`
	TariffPerKwh float64 `json:"tariff_per_kwh" yaml:"tariff_per_kwh"`
	Flag         string  `json:"flag,omitempty" yaml:"flag,omitempty"`
}

// EquipmentKit is a selectable inverter/module bundle.
// Efficiency is always a fraction in (0,1]; percent values are converted by the importer.
type EquipmentKit struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	RatedPowerKw  float64 `json:"rated_power_kw" yaml:"rated_power_kw"`
	Efficiency    float64 `json:"efficiency" yaml:"efficiency"`
	PricePerWatt  float64 `json:"price_per_watt" yaml:"price_per_watt"`
	ModuleWattage int     `json:"module_wattage" yaml:"module_wattage"`
	Brand         string  `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model         string  `json:"model,omitempty" yaml:"model,omitempty"`
}

// Fallback values used whenever a lookup misses.
const (
	DefaultIrradiance    = 5.0
	DefaultEfficiency    = 0.85
	DefaultPricePerWatt  = 4.5
	DefaultModuleWattage = 550
	DefaultTariffPerKwh  = 0.65
	DefaultKitID         = "default"
)

// DefaultKit is the kit used when no kit resolves.
func DefaultKit() EquipmentKit {
	return EquipmentKit{
		ID:            DefaultKitID,
		Name:          "Kit Padrão",
		RatedPowerKw:  5,
		Efficiency:    DefaultEfficiency,
		PricePerWatt:  DefaultPricePerWatt,
		ModuleWattage: DefaultModuleWattage,
	}
}

// DefaultCity returns the fallback record for an unmatched city name.
func DefaultCity(name string) CityRecord {
	return CityRecord{Name: name, Irradiance: DefaultIrradiance}
}

// DefaultTariff returns the fallback tariff for an unmatched city name.
func DefaultTariff(city string) TariffRecord {
	return TariffRecord{City: city, TariffPerKwh: DefaultTariffPerKwh}
}
