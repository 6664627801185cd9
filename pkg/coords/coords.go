// Package coords provides celestial coordinates for astrosource. A sky
// position is always derived from its raw ra/dec/frame strings on demand,
// never stored alongside them.
package coords

import (
	"fmt"
	"math"

	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/units"
)

// Frame is a celestial reference frame tag.
type Frame string

const (
	ICRS     Frame = "icrs"
	FK5      Frame = "fk5"
	FK4      Frame = "fk4"
	Galactic Frame = "galactic"
)

// DefaultFrame is assumed when a source declares no frame.
const DefaultFrame = ICRS

var knownFrames = map[Frame]struct{}{
	ICRS:     {},
	FK5:      {},
	FK4:      {},
	Galactic: {},
}

// ParseFrame validates a raw frame token. An unrecognized token is a
// malformed-quantity error rather than a silent fallback.
func ParseFrame(raw string) (Frame, error) {
	if raw == "" {
		return DefaultFrame, nil
	}
	f := Frame(raw)
	if _, ok := knownFrames[f]; !ok {
		return "", errors.New(errors.ErrorTypeMalformedQuantity,
			"unrecognized reference frame").WithDetail("frame", raw)
	}
	return f, nil
}

// SkyPosition is a celestial coordinate: right ascension, declination and
// the frame they are expressed in.
type SkyPosition struct {
	RA    units.Angle
	Dec   units.Angle
	Frame Frame
}

// New builds a sky position from raw ra/dec/frame strings. An empty frame
// falls back to icrs.
func New(ra, dec, frame string) (SkyPosition, error) {
	f, err := ParseFrame(frame)
	if err != nil {
		return SkyPosition{}, err
	}

	raAngle, err := units.ParseAngle(ra, units.RA)
	if err != nil {
		return SkyPosition{}, err
	}

	decAngle, err := units.ParseAngle(dec, units.Dec)
	if err != nil {
		return SkyPosition{}, err
	}

	return SkyPosition{RA: raAngle, Dec: decAngle, Frame: f}, nil
}

// Separation returns the on-sky angular separation to another position,
// computed with the Vincenty formula. Both positions must be expressed in
// the same frame.
func (p SkyPosition) Separation(other SkyPosition) (units.Angle, error) {
	if p.Frame != other.Frame {
		return units.Angle{}, errors.New(errors.ErrorTypeMalformedQuantity,
			"separation requires matching frames").
			WithDetail("frame", string(p.Frame)).
			WithDetail("other", string(other.Frame))
	}

	ra1, dec1 := p.RA.Radians(), p.Dec.Radians()
	ra2, dec2 := other.RA.Radians(), other.Dec.Radians()
	dra := ra2 - ra1

	num := math.Hypot(
		math.Cos(dec2)*math.Sin(dra),
		math.Cos(dec1)*math.Sin(dec2)-math.Sin(dec1)*math.Cos(dec2)*math.Cos(dra),
	)
	den := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(dra)

	return units.Angle{Degrees: math.Atan2(num, den) * 180 / math.Pi}, nil
}

// String renders the position in sexagesimal notation.
func (p SkyPosition) String() string {
	return fmt.Sprintf("%s %s (%s)", p.RA.HMS(), p.Dec.DMS(), p.Frame)
}
