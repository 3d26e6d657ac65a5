package catalog

import (
	"fmt"
	"math"
	"strings"
)

// TableSet is an immutable snapshot of the three lookup tables.
// Build one with NewTableSet; never mutate the slices it returns.
type TableSet struct {
	cities  []CityRecord
	kits    []EquipmentKit
	tariffs []TariffRecord

	cityIdx   map[string]int
	kitIdx    map[string]int
	tariffIdx map[string]int
}

// Stats summarizes a table set.
type Stats struct {
	TotalCities  int  `json:"total_cities"`
	TotalKits    int  `json:"total_kits"`
	TotalTariffs int  `json:"total_tariffs"`
	HasData      bool `json:"has_data"`
}

// NewTableSet validates every record and builds the lookup indices.
// Any invalid or duplicated record rejects the whole set.
func NewTableSet(cities []CityRecord, kits []EquipmentKit, tariffs []TariffRecord) (*TableSet, error) {
	ts := &TableSet{
		cities:    append([]CityRecord(nil), cities...),
		kits:      append([]EquipmentKit(nil), kits...),
		tariffs:   append([]TariffRecord(nil), tariffs...),
		cityIdx:   make(map[string]int, len(cities)),
		kitIdx:    make(map[string]int, len(kits)),
		tariffIdx: make(map[string]int, len(tariffs)),
	}

	var problems []string

	for i, c := range ts.cities {
		if err := ValidateCity(c); err != nil {
			problems = append(problems, fmt.Sprintf("cities[%d]: %v", i, err))
			continue
		}
		k := foldKey(c.Name)
		if _, dup := ts.cityIdx[k]; dup {
			problems = append(problems, fmt.Sprintf("cities[%d]: %s: %q", i, ErrDuplicateKey, c.Name))
			continue
		}
		ts.cityIdx[k] = i
	}

	for i, kit := range ts.kits {
		if err := ValidateKit(kit); err != nil {
			problems = append(problems, fmt.Sprintf("kits[%d]: %v", i, err))
			continue
		}
		k := foldKey(kit.ID)
		if _, dup := ts.kitIdx[k]; dup {
			problems = append(problems, fmt.Sprintf("kits[%d]: %s: %q", i, ErrDuplicateKey, kit.ID))
			continue
		}
		ts.kitIdx[k] = i
	}

	for i, t := range ts.tariffs {
		if err := ValidateTariff(t); err != nil {
			problems = append(problems, fmt.Sprintf("tariffs[%d]: %v", i, err))
			continue
		}
		k := foldKey(t.City)
		if _, dup := ts.tariffIdx[k]; dup {
			problems = append(problems, fmt.Sprintf("tariffs[%d]: %s: %q", i, ErrDuplicateKey, t.City))
			continue
		}
		ts.tariffIdx[k] = i
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return ts, nil
}

// ValidateCity checks a single city record.
func ValidateCity(c CityRecord) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("city name cannot be empty")
	}
	if !positive(c.Irradiance) {
		return fmt.Errorf("city %q: irradiance must be positive, got %v", c.Name, c.Irradiance)
	}
	if c.Latitude != nil && (math.IsNaN(*c.Latitude) || *c.Latitude < -90 || *c.Latitude > 90) {
		return fmt.Errorf("city %q: latitude out of range: %v", c.Name, *c.Latitude)
	}
	if c.Longitude != nil && (math.IsNaN(*c.Longitude) || *c.Longitude < -180 || *c.Longitude > 180) {
		return fmt.Errorf("city %q: longitude out of range: %v", c.Name, *c.Longitude)
	}
	return nil
}

// ValidateKit checks a single kit record. Efficiency must already be a fraction.
func ValidateKit(k EquipmentKit) error {
	if strings.TrimSpace(k.ID) == "" {
		return fmt.Errorf("kit id cannot be empty")
	}
	if !positive(k.Efficiency) || k.Efficiency > 1 {
		return fmt.Errorf("kit %q: efficiency must be in (0,1], got %v", k.ID, k.Efficiency)
	}
	if !positive(k.PricePerWatt) {
		return fmt.Errorf("kit %q: price per watt must be positive, got %v", k.ID, k.PricePerWatt)
	}
	if k.ModuleWattage <= 0 {
		return fmt.Errorf("kit %q: module wattage must be positive, got %d", k.ID, k.ModuleWattage)
	}
	if math.IsNaN(k.RatedPowerKw) || k.RatedPowerKw < 0 {
		return fmt.Errorf("kit %q: rated power cannot be negative, got %v", k.ID, k.RatedPowerKw)
	}
	return nil
}

// ValidateTariff checks a single tariff record.
func ValidateTariff(t TariffRecord) error {
	if strings.TrimSpace(t.City) == "" {
		return fmt.Errorf("tariff city cannot be empty")
	}
	if !positive(t.TariffPerKwh) {
		return fmt.Errorf("tariff for %q must be positive, got %v", t.City, t.TariffPerKwh)
	}
	return nil
}

// ResolveCity looks a city up by name, case-insensitively.
// On a miss it returns DefaultCity(name) and false.
func (ts *TableSet) ResolveCity(name string) (CityRecord, bool) {
	if ts != nil {
		if i, ok := ts.cityIdx[foldKey(name)]; ok {
			return ts.cities[i], true
		}
	}
	return DefaultCity(name), false
}

// ResolveTariff looks a tariff up by city name, case-insensitively.
// On a miss it returns DefaultTariff(name) and false.
func (ts *TableSet) ResolveTariff(city string) (TariffRecord, bool) {
	if ts != nil {
		if i, ok := ts.tariffIdx[foldKey(city)]; ok {
			return ts.tariffs[i], true
		}
	}
	return DefaultTariff(city), false
}

// ResolveKit looks a kit up by id, case-insensitively.
// On a miss (including a blank id) it returns DefaultKit() and false.
func (ts *TableSet) ResolveKit(id string) (EquipmentKit, bool) {
	if ts != nil {
		if i, ok := ts.kitIdx[foldKey(id)]; ok {
			return ts.kits[i], true
		}
	}
	return DefaultKit(), false
}

// ListCities returns the cities in load order.
func (ts *TableSet) ListCities() []CityRecord {
	if ts == nil {
		return []CityRecord{}
	}
	return append([]CityRecord{}, ts.cities...)
}

// ListKits returns the kits in load order, or the default kit when the catalog is empty.
func (ts *TableSet) ListKits() []EquipmentKit {
	if ts == nil || len(ts.kits) == 0 {
		return []EquipmentKit{DefaultKit()}
	}
	return append([]EquipmentKit{}, ts.kits...)
}

// ListTariffs returns the tariffs in load order.
func (ts *TableSet) ListTariffs() []TariffRecord {
	if ts == nil {
		return []TariffRecord{}
	}
	return append([]TariffRecord{}, ts.tariffs...)
}

// Stats reports table sizes.
func (ts *TableSet) Stats() Stats {
	if ts == nil {
		return Stats{}
	}
	return Stats{
		TotalCities:  len(ts.cities),
		TotalKits:    len(ts.kits),
		TotalTariffs: len(ts.tariffs),
		HasData:      len(ts.cities) > 0 || len(ts.kits) > 0,
	}
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
