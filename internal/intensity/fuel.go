package intensity

// FuelType identifies one of the eight generation technology categories
// the EBA feed reports. The set is closed; the zero-based values double
// as column positions in a GenerationTable.
type FuelType int

const (
	FuelWind FuelType = iota
	FuelSolar
	FuelHydro
	FuelOil
	FuelGas
	FuelCoal
	FuelNuclear
	FuelOther

	// NumFuels is the number of fuel types, and the column count of
	// every generation table.
	NumFuels = int(FuelOther) + 1
)

// fuelCodes are the series-id codes in fixed column order.
var fuelCodes = [NumFuels]string{
	"WND", // wind
	"SUN", // solar
	"WAT", // hydro
	"OIL", // oil
	"NG",  // natural gas
	"COL", // coal
	"NUC", // nuclear
	"OTH", // other
}

// emissionFactors holds the carbon intensity of each fuel type in
// gCO2eq/kWh. The values are part of the public contract: they define
// the numeric meaning of every derived series.
var emissionFactors = [NumFuels]float64{
	FuelWind:    11,
	FuelSolar:   41,
	FuelHydro:   24,
	FuelOil:     650,
	FuelGas:     490,
	FuelCoal:    820,
	FuelNuclear: 12,
	FuelOther:   230,
}

// String returns the feed's code for the fuel type.
func (f FuelType) String() string {
	if f < 0 || int(f) >= NumFuels {
		return "unknown"
	}
	return fuelCodes[f]
}

// EmissionFactor returns the fuel's carbon intensity in gCO2eq/kWh.
func (f FuelType) EmissionFactor() float64 {
	return emissionFactors[f]
}

// Renewable reports whether the fuel counts toward the renewable share.
func (f FuelType) Renewable() bool {
	switch f {
	case FuelWind, FuelSolar, FuelHydro:
		return true
	default:
		return false
	}
}

// Fuels returns all fuel types in fixed column order.
func Fuels() [NumFuels]FuelType {
	var fuels [NumFuels]FuelType
	for i := range fuels {
		fuels[i] = FuelType(i)
	}
	return fuels
}
