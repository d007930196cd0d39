package intensity

import (
	"math"
)

// SeriesName is the column name of the derived carbon-intensity series.
const SeriesName = "carbon_intensity"

// CarbonIntensity reduces a generation table to the grid-average carbon
// intensity per hour, in gCO2eq/kWh (numerically equal to kgCO2/MWh).
// Negative generation samples are data-provider corrections, not
// generation; they are clipped to zero before aggregation. The clipping
// happens on a copy, so the caller's table is never mutated. Hours with
// zero total generation have no defined intensity and come back as NaN.
func CarbonIntensity(table *GenerationTable) *Series {
	values := make([]float64, table.Rows())
	for i, row := range table.Values {
		var total, weighted float64
		for j, v := range row {
			if v < 0 {
				v = 0
			}
			total += v
			weighted += emissionFactors[j] * v
		}
		if total == 0 {
			values[i] = math.NaN()
			continue
		}
		values[i] = weighted / total
	}

	return &Series{
		Name:   SeriesName,
		Index:  table.Index,
		Values: values,
	}
}

// RenewableShare computes the fraction of each hour's generation coming
// from wind, solar and hydro. Negative samples are clipped the same way
// as in CarbonIntensity; hours with zero total generation are NaN.
func RenewableShare(table *GenerationTable) *Series {
	values := make([]float64, table.Rows())
	for i, row := range table.Values {
		var total, renewable float64
		for j, v := range row {
			if v < 0 {
				v = 0
			}
			total += v
			if FuelType(j).Renewable() {
				renewable += v
			}
		}
		if total == 0 {
			values[i] = math.NaN()
			continue
		}
		values[i] = renewable / total
	}

	return &Series{
		Name:   "renewable_share",
		Index:  table.Index,
		Values: values,
	}
}
