package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables(t *testing.T) *TableSet {
	t.Helper()
	ts, err := NewTableSet(
		[]CityRecord{
			{Name: "São Paulo", Irradiance: 4.8, State: "SP"},
			{Name: "Campinas", Irradiance: 5.4, State: "SP"},
		},
		[]EquipmentKit{
			{ID: "kit1", Name: "Kit Básico 3kW", RatedPowerKw: 3, Efficiency: 0.85, PricePerWatt: 4.5, ModuleWattage: 550},
			{ID: "kit2", Name: "Kit Intermediário 5kW", RatedPowerKw: 5, Efficiency: 0.87, PricePerWatt: 4.2, ModuleWattage: 550},
		},
		[]TariffRecord{
			{City: "São Paulo", Distributor: "Enel", TariffPerKwh: 0.65},
		},
	)
	require.NoError(t, err)
	return ts
}

func TestResolveCity_CaseInsensitive(t *testing.T) {
	ts := sampleTables(t)

	city, ok := ts.ResolveCity("  são paulo ")
	require.True(t, ok)
	assert.Equal(t, "São Paulo", city.Name)
	assert.Equal(t, 4.8, city.Irradiance)

	city, ok = ts.ResolveCity("CAMPINAS")
	require.True(t, ok)
	assert.Equal(t, 5.4, city.Irradiance)
}

func TestResolve_UnknownKeysFallBackToDefaults(t *testing.T) {
	ts := sampleTables(t)

	city, ok := ts.ResolveCity("Atlantis")
	assert.False(t, ok)
	assert.Equal(t, DefaultIrradiance, city.Irradiance)
	assert.Equal(t, "Atlantis", city.Name)

	tariff, ok := ts.ResolveTariff("Atlantis")
	assert.False(t, ok)
	assert.Equal(t, 0.65, tariff.TariffPerKwh)

	kit, ok := ts.ResolveKit("does-not-exist")
	assert.False(t, ok)
	assert.Equal(t, 0.85, kit.Efficiency)
	assert.Equal(t, 4.5, kit.PricePerWatt)
	assert.Equal(t, 550, kit.ModuleWattage)

	kit, ok = ts.ResolveKit("")
	assert.False(t, ok)
	assert.Equal(t, DefaultKitID, kit.ID)
}

func TestResolve_NilTableSet(t *testing.T) {
	var ts *TableSet

	city, ok := ts.ResolveCity("Campinas")
	assert.False(t, ok)
	assert.Equal(t, DefaultIrradiance, city.Irradiance)

	assert.Equal(t, []EquipmentKit{DefaultKit()}, ts.ListKits())
	assert.Empty(t, ts.ListCities())
	assert.False(t, ts.Stats().HasData)
}

func TestResolveKit_CaseInsensitive(t *testing.T) {
	ts := sampleTables(t)
	kit, ok := ts.ResolveKit("KIT2")
	require.True(t, ok)
	assert.Equal(t, 0.87, kit.Efficiency)
}

func TestNewTableSet_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		cities  []CityRecord
		kits    []EquipmentKit
		tariffs []TariffRecord
		want    string
	}{
		{
			name:   "zero irradiance",
			cities: []CityRecord{{Name: "Santos", Irradiance: 0}},
			want:   "irradiance must be positive",
		},
		{
			name: "zero efficiency",
			kits: []EquipmentKit{{ID: "k", Efficiency: 0, PricePerWatt: 4, ModuleWattage: 550}},
			want: "efficiency must be in (0,1]",
		},
		{
			name: "percent efficiency leaked into core",
			kits: []EquipmentKit{{ID: "k", Efficiency: 85, PricePerWatt: 4, ModuleWattage: 550}},
			want: "efficiency must be in (0,1]",
		},
		{
			name: "negative price",
			kits: []EquipmentKit{{ID: "k", Efficiency: 0.8, PricePerWatt: -1, ModuleWattage: 550}},
			want: "price per watt must be positive",
		},
		{
			name: "zero module wattage",
			kits: []EquipmentKit{{ID: "k", Efficiency: 0.8, PricePerWatt: 4, ModuleWattage: 0}},
			want: "module wattage must be positive",
		},
		{
			name:    "zero tariff",
			tariffs: []TariffRecord{{City: "Santos", TariffPerKwh: 0}},
			want:    "must be positive",
		},
		{
			name:   "duplicate city ignoring case",
			cities: []CityRecord{{Name: "Santos", Irradiance: 5}, {Name: "SANTOS", Irradiance: 5.1}},
			want:   "duplicate lookup key",
		},
		{
			name: "empty kit id",
			kits: []EquipmentKit{{ID: " ", Efficiency: 0.8, PricePerWatt: 4, ModuleWattage: 550}},
			want: "kit id cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTableSet(tt.cities, tt.kits, tt.tariffs)
			require.Error(t, err)
			assert.Nil(t, ts)
			assert.True(t, errors.Is(err, ErrInvalidRecord))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewTableSet_CollectsAllProblems(t *testing.T) {
	_, err := NewTableSet(
		[]CityRecord{{Name: "", Irradiance: 5}},
		[]EquipmentKit{{ID: "k", Efficiency: 2, PricePerWatt: 4, ModuleWattage: 550}},
		[]TariffRecord{{City: "x", TariffPerKwh: -1}},
	)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 3)
}

func TestListKits_EmptyCatalogReturnsDefault(t *testing.T) {
	ts, err := NewTableSet(nil, nil, nil)
	require.NoError(t, err)

	kits := ts.ListKits()
	require.Len(t, kits, 1)
	assert.Equal(t, DefaultKitID, kits[0].ID)
	assert.Empty(t, ts.Tables().Kits)
}

func TestListCities_ReturnsCopy(t *testing.T) {
	ts := sampleTables(t)
	cities := ts.ListCities()
	cities[0].Irradiance = 99

	city, _ := ts.ResolveCity("São Paulo")
	assert.Equal(t, 4.8, city.Irradiance)
}

func TestBuiltin_IsValid(t *testing.T) {
	ts := Builtin()
	stats := ts.Stats()
	assert.Equal(t, 22, stats.TotalCities)
	assert.Equal(t, 8, stats.TotalKits)
	assert.Equal(t, 8, stats.TotalTariffs)
	assert.True(t, stats.HasData)

	city, ok := ts.ResolveCity("ribeirão preto")
	require.True(t, ok)
	assert.Equal(t, 5.5, city.Irradiance)

	kit, ok := ts.ResolveKit("APSystems")
	require.True(t, ok)
	assert.Equal(t, 4.05, kit.PricePerWatt)
	assert.Equal(t, 565, kit.ModuleWattage)
}

func TestYAMLRoundTrip(t *testing.T) {
	ts := sampleTables(t)
	data, err := EncodeYAML(ts)
	require.NoError(t, err)

	back, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, ts.Tables(), back.Tables())
}

func TestStore_ReplaceIsAtomic(t *testing.T) {
	first := sampleTables(t)
	second, err := NewTableSet(
		[]CityRecord{{Name: "Santos", Irradiance: 5.0}},
		[]EquipmentKit{{ID: "solo", Efficiency: 0.8, PricePerWatt: 3, ModuleWattage: 600}},
		[]TariffRecord{{City: "Santos", TariffPerKwh: 0.7}},
	)
	require.NoError(t, err)

	store := NewStore(first)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				snap := store.Load()
				_, hasSP := snap.ResolveCity("São Paulo")
				_, hasSantosTariff := snap.ResolveTariff("Santos")
				// A snapshot is either fully old or fully new.
				assert.NotEqual(t, hasSP, hasSantosTariff)
			}
		}()
	}
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			store.Replace(second)
		} else {
			store.Replace(first)
		}
	}
	wg.Wait()
}

func TestStore_ReplaceNilKeepsCurrent(t *testing.T) {
	ts := sampleTables(t)
	store := NewStore(ts)
	store.Replace(nil)
	assert.Same(t, ts, store.Load())

	prev := store.Reset()
	assert.Same(t, ts, prev)
	assert.Equal(t, 22, store.Load().Stats().TotalCities)
}
