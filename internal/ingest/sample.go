package ingest

import "github.com/i9-energia/solar-estimator/internal/catalog"

func coord(v float64) *float64 { return &v }

// sampleTables are the example rows of the import template.
func sampleTables() catalog.Tables {
	return catalog.Tables{
		Cities: []catalog.CityRecord{
			{Name: "São Paulo", Irradiance: 4.8, State: "SP", Latitude: coord(-23.5505), Longitude: coord(-46.6333)},
			{Name: "Campinas", Irradiance: 5.4, State: "SP", Latitude: coord(-22.9056), Longitude: coord(-47.0608)},
			{Name: "Santos", Irradiance: 5.0, State: "SP", Latitude: coord(-23.9608), Longitude: coord(-46.3331)},
			{Name: "Ribeirão Preto", Irradiance: 5.5, State: "SP", Latitude: coord(-21.1767), Longitude: coord(-47.8208)},
			{Name: "Sorocaba", Irradiance: 5.2, State: "SP", Latitude: coord(-23.5015), Longitude: coord(-47.4526)},
			{Name: "Jundiaí", Irradiance: 5.2, State: "SP", Latitude: coord(-23.1864), Longitude: coord(-46.8842)},
			{Name: "Piracicaba", Irradiance: 5.4, State: "SP", Latitude: coord(-22.7253), Longitude: coord(-47.6492)},
			{Name: "Limeira", Irradiance: 5.4, State: "SP", Latitude: coord(-22.5647), Longitude: coord(-47.4017)},
		},
		Kits: []catalog.EquipmentKit{
			{ID: "kit_3kw_basic", Name: "Kit Básico 3kW", RatedPowerKw: 3, Efficiency: 0.85, PricePerWatt: 4.8, ModuleWattage: 550, Brand: "Canadian Solar", Model: "CS3W-550MS"},
			{ID: "kit_5kw_inter", Name: "Kit Intermediário 5kW", RatedPowerKw: 5, Efficiency: 0.87, PricePerWatt: 4.5, ModuleWattage: 550, Brand: "Jinko Solar", Model: "JKM550M-7RL4"},
			{ID: "kit_8kw_premium", Name: "Kit Premium 8kW", RatedPowerKw: 8, Efficiency: 0.89, PricePerWatt: 4.2, ModuleWattage: 600, Brand: "Trina Solar", Model: "TSM-600NEG20C.20"},
			{ID: "kit_10kw_comercial", Name: "Kit Comercial 10kW", RatedPowerKw: 10, Efficiency: 0.90, PricePerWatt: 4.0, ModuleWattage: 600, Brand: "LONGi Solar", Model: "LR5-72HIH-600M"},
			{ID: "kit_15kw_industrial", Name: "Kit Industrial 15kW", RatedPowerKw: 15, Efficiency: 0.91, PricePerWatt: 3.8, ModuleWattage: 650, Brand: "JA Solar", Model: "JAM72S30-650/MR"},
		},
		Tariffs: []catalog.TariffRecord{
			{City: "São Paulo", Distributor: "Enel SP", TariffPerKwh: 0.68, Flag: "Verde"},
			{City: "Campinas", Distributor: "CPFL Paulista", TariffPerKwh: 0.62, Flag: "Verde"},
			{City: "Santos", Distributor: "Enel SP", TariffPerKwh: 0.68, Flag: "Verde"},
			{City: "Ribeirão Preto", Distributor: "CPFL Paulista", TariffPerKwh: 0.62, Flag: "Verde"},
			{City: "Sorocaba", Distributor: "Enel SP", TariffPerKwh: 0.68, Flag: "Verde"},
			{City: "Jundiaí", Distributor: "Enel SP", TariffPerKwh: 0.68, Flag: "Verde"},
			{City: "Piracicaba", Distributor: "CPFL Paulista", TariffPerKwh: 0.62, Flag: "Verde"},
			{City: "Limeira", Distributor: "CPFL Paulista", TariffPerKwh: 0.62, Flag: "Verde"},
		},
	}
}
