package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/astrokit/astrosource/pkg/errors"
)

// AngleKind selects the sexagesimal convention for an angle string: right
// ascension uses hour notation, declination uses degree notation.
type AngleKind int

const (
	RA AngleKind = iota
	Dec
)

func (k AngleKind) String() string {
	if k == RA {
		return "ra"
	}
	return "dec"
}

// Angle is an angular quantity stored in degrees.
type Angle struct {
	Degrees float64
}

var (
	hmsRe = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d+)?)h(?:(\d+(?:\.\d+)?)m(?:(\d+(?:\.\d+)?)s)?)?$`)
	dmsRe = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d+)?)d(?:(\d+(?:\.\d+)?)m(?:(\d+(?:\.\d+)?)s)?)?$`)
)

// ParseAngle resolves a sexagesimal or decimal angle string into an angular
// quantity. `1h02m03s` parses as hour angle, `1d02m03s` as degrees, and a
// bare decimal as degrees. Declinations outside [-90, 90] degrees are
// rejected.
func ParseAngle(raw string, kind AngleKind) (Angle, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Angle{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"empty angle string").WithDetail("kind", kind.String())
	}

	var deg float64
	switch {
	case hmsRe.MatchString(s):
		hours, err := sexagesimal(hmsRe.FindStringSubmatch(s))
		if err != nil {
			return Angle{}, wrapAngle(err, raw, kind)
		}
		deg = hours * 15
	case dmsRe.MatchString(s):
		var err error
		deg, err = sexagesimal(dmsRe.FindStringSubmatch(s))
		if err != nil {
			return Angle{}, wrapAngle(err, raw, kind)
		}
	default:
		var err error
		deg, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return Angle{}, wrapAngle(err, raw, kind)
		}
	}

	if kind == Dec && (deg < -90 || deg > 90) {
		return Angle{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"declination out of range").WithDetail("raw", raw)
	}

	return Angle{Degrees: deg}, nil
}

// sexagesimal folds the submatches [sign major minor seconds] into a single
// value in units of the major component.
func sexagesimal(m []string) (float64, error) {
	major, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, err
	}

	value := major
	if m[3] != "" {
		minor, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, err
		}
		if minor >= 60 {
			return 0, fmt.Errorf("minutes component %v out of range", minor)
		}
		value += minor / 60
	}
	if m[4] != "" {
		sec, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return 0, err
		}
		if sec >= 60 {
			return 0, fmt.Errorf("seconds component %v out of range", sec)
		}
		value += sec / 3600
	}

	if m[1] == "-" {
		value = -value
	}
	return value, nil
}

func wrapAngle(err error, raw string, kind AngleKind) error {
	return errors.Wrap(err, errors.ErrorTypeMalformedQuantity, "unparseable angle").
		WithDetail("raw", raw).
		WithDetail("kind", kind.String())
}

// Quantity re-expresses the angle as a degree quantity.
func (a Angle) Quantity() Quantity {
	return Quantity{Value: a.Degrees, Unit: table["deg"]}
}

// Hours returns the angle in hour-angle units.
func (a Angle) Hours() float64 {
	return a.Degrees / 15
}

// Arcsec returns the angle in arcseconds.
func (a Angle) Arcsec() float64 {
	return a.Degrees * 3600
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return a.Degrees * math.Pi / 180
}

// HMS formats the angle in hour-minute-second notation.
func (a Angle) HMS() string {
	return formatSexagesimal(a.Hours(), 'h')
}

// DMS formats the angle in degree-minute-second notation.
func (a Angle) DMS() string {
	return formatSexagesimal(a.Degrees, 'd')
}

func formatSexagesimal(value float64, major byte) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	whole := math.Floor(value)
	rem := (value - whole) * 60
	minutes := math.Floor(rem)
	seconds := (rem - minutes) * 60

	// Guard against 60s rollover from floating point residue.
	if seconds > 59.9999999 {
		seconds = 0
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		whole++
	}

	return fmt.Sprintf("%s%d%c%02dm%.4fs", sign, int(whole), major, int(minutes), seconds)
}
