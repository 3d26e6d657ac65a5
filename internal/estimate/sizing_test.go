package estimate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleCount(t *testing.T) {
	tests := []struct {
		name     string
		required float64
		wattage  int
		want     int
	}{
		{"rounds up partial module", 3.1373, 550, 6},
		{"exact multiple stays exact", 3.3, 550, 6},
		{"exact multiple with float noise", 0.1 + 0.2 + 3.0, 550, 6},
		{"tiny requirement needs one module", 0.001, 550, 1},
		{"zero requirement", 0, 550, 0},
		{"negative requirement", -2, 550, 0},
		{"invalid wattage", 3, 0, 0},
		{"not a number", math.NaN(), 550, 0},
		{"huge requirement is capped", 1e30, 550, MaxModuleCount},
		{"infinite requirement is capped", math.Inf(1), 550, MaxModuleCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleCount(tt.required, tt.wattage))
		})
	}
}

func TestSize(t *testing.T) {
	assert.InDelta(t, 360.0/127.5, Size(400, 5.0, 0.85, 0.9), tolerance)
	assert.Equal(t, 0.0, Size(-400, 5.0, 0.85, 0.9))
	assert.InDelta(t, 400.0/(31*5.0*0.85), SizeWithDays(400, 5.0, 0.85, 1.0, 31), tolerance)
}

func TestGenerationIsAtLeastDesired(t *testing.T) {
	for consumption := 10.0; consumption < 2000; consumption += 13 {
		required := Size(consumption, 4.8, 0.83, DefaultTargetFraction)
		modules := ModuleCount(required, 585)
		installed := InstalledCapacity(modules, 585)
		assert.GreaterOrEqual(t, Generation(installed, 4.8, 0.83), consumption*DefaultTargetFraction-tolerance)
	}
}

func TestSingleKitPrice(t *testing.T) {
	r := SingleKitPrice(3.3, kitWithPrice(4.05), DefaultPriceBandFraction)
	assert.InDelta(t, 12028.5, r.Min, tolerance)
	assert.InDelta(t, 14701.5, r.Max, tolerance)
	assert.InDelta(t, 13365.0, r.Average(), tolerance)

	flat := SingleKitPrice(3.3, kitWithPrice(4.05), 0)
	assert.Equal(t, flat.Min, flat.Max)
}
