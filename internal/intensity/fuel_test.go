package intensity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuelCodesAndFactors(t *testing.T) {
	tests := []struct {
		fuel      FuelType
		code      string
		factor    float64
		renewable bool
	}{
		{FuelWind, "WND", 11, true},
		{FuelSolar, "SUN", 41, true},
		{FuelHydro, "WAT", 24, true},
		{FuelOil, "OIL", 650, false},
		{FuelGas, "NG", 490, false},
		{FuelCoal, "COL", 820, false},
		{FuelNuclear, "NUC", 12, false},
		{FuelOther, "OTH", 230, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.fuel.String())
			assert.Equal(t, tt.factor, tt.fuel.EmissionFactor())
			assert.Equal(t, tt.renewable, tt.fuel.Renewable())
		})
	}
}

func TestFuelsOrder(t *testing.T) {
	fuels := Fuels()
	assert.Len(t, fuels, 8)
	assert.Equal(t, FuelWind, fuels[0])
	assert.Equal(t, FuelOther, fuels[7])
}

func TestUnknownFuelString(t *testing.T) {
	assert.Equal(t, "unknown", FuelType(99).String())
}
