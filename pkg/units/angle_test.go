package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrosource/pkg/errors"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		kind    AngleKind
		wantDeg float64
	}{
		{"ra hour notation", "1h00m00s", RA, 15},
		{"ra with seconds", "1h00m01s", RA, 15 + 15.0/3600},
		{"ra fractional seconds", "12h30m45.6s", RA, (12 + 30.0/60 + 45.6/3600) * 15},
		{"dec degree notation", "1d00m00s", Dec, 1},
		{"dec with seconds", "1d00m01s", Dec, 1 + 1.0/3600},
		{"negative dec", "-41d02m03s", Dec, -(41 + 2.0/60 + 3.0/3600)},
		{"decimal degrees", "83.25", Dec, 83.25},
		{"hours only", "5h", RA, 75},
		{"degrees and minutes", "10d30m", Dec, 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAngle(tt.raw, tt.kind)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantDeg, a.Degrees, 1e-10)
		})
	}
}

func TestParseAngleMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind AngleKind
	}{
		{"empty", "", RA},
		{"garbage", "north by northwest", RA},
		{"minutes overflow", "1h75m00s", RA},
		{"seconds overflow", "1d00m99s", Dec},
		{"dec above range", "91d00m00s", Dec},
		{"dec below range", "-90.5", Dec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAngle(tt.raw, tt.kind)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedQuantity))
		})
	}
}

func TestAngleConversions(t *testing.T) {
	a, err := ParseAngle("1h00m00s", RA)
	require.NoError(t, err)

	assert.InDelta(t, 1, a.Hours(), 1e-12)
	assert.InDelta(t, 15*3600, a.Arcsec(), 1e-6)
	assert.Equal(t, "deg", a.Quantity().Unit.Symbol)
	assert.InDelta(t, 15, a.Quantity().Value, 1e-12)
}

func TestAngleFormatRoundTrip(t *testing.T) {
	tests := []struct {
		raw    string
		kind   AngleKind
		format func(Angle) string
	}{
		{"12h30m45.6s", RA, Angle.HMS},
		{"1h00m01s", RA, Angle.HMS},
		{"-41d02m03s", Dec, Angle.DMS},
		{"0d00m00.5s", Dec, Angle.DMS},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			a, err := ParseAngle(tt.raw, tt.kind)
			require.NoError(t, err)

			back, err := ParseAngle(tt.format(a), tt.kind)
			require.NoError(t, err)
			assert.InDelta(t, a.Degrees, back.Degrees, 1e-7)
		})
	}
}
