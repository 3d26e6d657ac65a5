package estimate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i9-energia/solar-estimator/internal/catalog"
)

func kitWithPrice(ppw float64) catalog.EquipmentKit {
	k := catalog.DefaultKit()
	k.PricePerWatt = ppw
	return k
}

func TestTariffSavings(t *testing.T) {
	t.Run("generation below cap", func(t *testing.T) {
		s := TariffSavings(300, 0.65, 500, 0.75, 15000)
		assert.Equal(t, SavingsTariff, s.Strategy)
		assert.InDelta(t, 195.0, s.MonthlySavings, tolerance)
		assert.InDelta(t, 2340.0, s.AnnualSavings, tolerance)
		years, ok := s.Payback.Years()
		require.True(t, ok)
		assert.InDelta(t, 15000.0/2340.0, years, tolerance)
	})

	t.Run("capped by bill", func(t *testing.T) {
		s := TariffSavings(1000, 0.65, 500, 0.75, 15000)
		assert.InDelta(t, 375.0, s.MonthlySavings, tolerance)
	})

	t.Run("zero bill makes payback unavailable", func(t *testing.T) {
		s := TariffSavings(1000, 0.65, 0, 0.75, 15000)
		assert.Equal(t, 0.0, s.MonthlySavings)
		assert.Equal(t, PaybackUnavailable, s.Payback)
	})
}

func TestBillRatioSavings(t *testing.T) {
	s := BillRatioSavings(400, 300, 0.75, 10000)
	assert.Equal(t, SavingsBillRatio, s.Strategy)
	assert.InDelta(t, 0.75, s.EffectiveTariffPerKwh, tolerance)
	assert.InDelta(t, 225.0, s.MonthlySavings, tolerance)
	assert.InDelta(t, 2700.0, s.AnnualSavings, tolerance)

	zero := BillRatioSavings(0, 0, 0.75, 10000)
	assert.Equal(t, 0.0, zero.EffectiveTariffPerKwh)
	assert.False(t, zero.Payback.Available())
}

func TestComputePayback(t *testing.T) {
	assert.Equal(t, PaybackUnavailable, ComputePayback(10000, 0))
	assert.Equal(t, PaybackUnavailable, ComputePayback(10000, -1))
	assert.Equal(t, PaybackUnavailable, ComputePayback(math.NaN(), 100))
	assert.Equal(t, PaybackYears(5), ComputePayback(10000, 2000))
}

func TestPaybackJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		P Payback `json:"p"`
	}{PaybackYears(4.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":4.5}`, string(data))

	data, err = json.Marshal(struct {
		P Payback `json:"p"`
	}{PaybackUnavailable})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":null}`, string(data))

	var back struct {
		P Payback `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":7.25}`), &back))
	years, ok := back.P.Years()
	assert.True(t, ok)
	assert.Equal(t, 7.25, years)
}
