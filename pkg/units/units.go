// Package units implements the quantity resolver: parsing of `<number> <unit>`
// value strings and sexagesimal angles into typed physical quantities.
//
// The unit table covers the units that show up in source configuration files
// (distances, luminosities, masses, flux densities, angles, frequencies,
// velocities). Parsing is pure and safe for concurrent use; all failures are
// reported as malformed-quantity errors.
package units

import (
	"strconv"
	"strings"

	"github.com/astrokit/astrosource/pkg/errors"
)

// Dimension identifies the physical dimension of a unit. Quantities can only
// be converted within a single dimension.
type Dimension string

const (
	Length        Dimension = "length"
	Mass          Dimension = "mass"
	Power         Dimension = "power"
	FluxDensity   Dimension = "flux_density"
	AngleDim      Dimension = "angle"
	Frequency     Dimension = "frequency"
	Velocity      Dimension = "velocity"
	Temperature   Dimension = "temperature"
	Dimensionless Dimension = "dimensionless"
)

// Unit is a named unit with a conversion factor to its dimension's base unit.
type Unit struct {
	Symbol string
	Dim    Dimension
	Factor float64
}

// Base units per dimension: m, kg, W, Jy, deg, Hz, m/s, K.
var table = map[string]Unit{
	// length
	"m":   {"m", Length, 1},
	"cm":  {"cm", Length, 1e-2},
	"mm":  {"mm", Length, 1e-3},
	"km":  {"km", Length, 1e3},
	"au":  {"au", Length, 1.495978707e11},
	"pc":  {"pc", Length, 3.0856775814913673e16},
	"kpc": {"kpc", Length, 3.0856775814913673e19},
	"Mpc": {"Mpc", Length, 3.0856775814913673e22},

	// mass
	"g":     {"g", Mass, 1e-3},
	"kg":    {"kg", Mass, 1},
	"M_sun": {"M_sun", Mass, 1.98840987e30},

	// power
	"W":     {"W", Power, 1},
	"L_sun": {"L_sun", Power, 3.828e26},

	// flux density
	"Jy":  {"Jy", FluxDensity, 1},
	"mJy": {"mJy", FluxDensity, 1e-3},
	"uJy": {"uJy", FluxDensity, 1e-6},

	// angle
	"deg":       {"deg", AngleDim, 1},
	"rad":       {"rad", AngleDim, 180 / 3.141592653589793},
	"hourangle": {"hourangle", AngleDim, 15},
	"arcmin":    {"arcmin", AngleDim, 1.0 / 60},
	"arcsec":    {"arcsec", AngleDim, 1.0 / 3600},
	"mas":       {"mas", AngleDim, 1.0 / 3.6e6},

	// frequency
	"Hz":  {"Hz", Frequency, 1},
	"kHz": {"kHz", Frequency, 1e3},
	"MHz": {"MHz", Frequency, 1e6},
	"GHz": {"GHz", Frequency, 1e9},

	// velocity
	"m/s":  {"m/s", Velocity, 1},
	"km/s": {"km/s", Velocity, 1e3},

	// temperature
	"K": {"K", Temperature, 1},
}

// Lookup returns the unit registered under the given symbol.
func Lookup(symbol string) (Unit, bool) {
	u, ok := table[symbol]
	return u, ok
}

// Quantity is a numeric value paired with a physical unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Parse resolves a raw `<number> <unit>` string into a quantity. A bare
// number parses as dimensionless. The unit token is matched case-sensitively
// against the unit table.
func Parse(raw string) (Quantity, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 || len(fields) > 2 {
		return Quantity{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"expected '<number> <unit>'").WithDetail("raw", raw)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, errors.Wrap(err, errors.ErrorTypeMalformedQuantity,
			"unparseable numeric component").WithDetail("raw", raw)
	}

	if len(fields) == 1 {
		return Quantity{Value: value, Unit: Unit{Symbol: "", Dim: Dimensionless, Factor: 1}}, nil
	}

	unit, ok := table[fields[1]]
	if !ok {
		return Quantity{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"unrecognized unit token").WithDetail("unit", fields[1]).WithDetail("raw", raw)
	}

	return Quantity{Value: value, Unit: unit}, nil
}

// MustParse is Parse for statically known inputs. It panics on error.
func MustParse(raw string) Quantity {
	q, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return q
}

// String formats the quantity so that Parse(q.String()) reproduces an
// equivalent quantity.
func (q Quantity) String() string {
	s := strconv.FormatFloat(q.Value, 'g', -1, 64)
	if q.Unit.Symbol == "" {
		return s
	}
	return s + " " + q.Unit.Symbol
}

// Base returns the value expressed in the base unit of q's dimension.
func (q Quantity) Base() float64 {
	return q.Value * q.Unit.Factor
}

// Convert re-expresses the quantity in the unit registered under symbol.
// Converting across dimensions is a malformed-quantity error.
func (q Quantity) Convert(symbol string) (Quantity, error) {
	target, ok := table[symbol]
	if !ok {
		return Quantity{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"unrecognized unit token").WithDetail("unit", symbol)
	}
	if target.Dim != q.Unit.Dim {
		return Quantity{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"incompatible dimensions").
			WithDetail("from", string(q.Unit.Dim)).
			WithDetail("to", string(target.Dim))
	}
	return Quantity{Value: q.Base() / target.Factor, Unit: target}, nil
}
