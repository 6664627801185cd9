package source

import (
	"bytes"
	"fmt"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrosource/pkg/data"
	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/units"
)

func TestTypedAccessors(t *testing.T) {
	src := buildFromText(t, sampleConfig)

	distance, err := src.Distance()
	require.NoError(t, err)
	assert.Equal(t, 1.0, distance.Value)
	assert.Equal(t, "kpc", distance.Unit.Symbol)

	luminosity, err := src.Luminosity()
	require.NoError(t, err)
	assert.Equal(t, 1.0, luminosity.Value)
	assert.Equal(t, "L_sun", luminosity.Unit.Symbol)

	pos, err := src.Position()
	require.NoError(t, err)
	assert.InDelta(t, 15, pos.RA.Degrees, 1e-10)
	assert.InDelta(t, 1, pos.Dec.Degrees, 1e-10)
	assert.Equal(t, "icrs", string(pos.Frame))

	// Round-trip: format-then-parse reproduces the quantity.
	back, err := units.Parse(distance.String())
	require.NoError(t, err)
	assert.Equal(t, distance, back)
}

func TestPositionMissingCoordinates(t *testing.T) {
	src := buildFromText(t, `
[INFO]
name = nameless
distance = 2 kpc
`)

	_, err := src.Position()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingProperty))
}

func TestPositionDefaultFrame(t *testing.T) {
	src := buildFromText(t, `
[INFO]
name = G333
ra = 1h00m00s
dec = 1d00m00s
`)

	pos, err := src.Position()
	require.NoError(t, err)
	assert.Equal(t, "icrs", string(pos.Frame))
}

func TestPositionBadFrame(t *testing.T) {
	src := buildFromText(t, `
[INFO]
name = G333
ra = 1h00m00s
dec = 1d00m00s
frame = sideways
`)

	_, err := src.Position()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedQuantity))
}

func TestQuantity(t *testing.T) {
	src := buildFromText(t, sampleConfig)

	t.Run("subsource angular property", func(t *testing.T) {
		mm1, err := src.Subsource("MM1")
		require.NoError(t, err)

		radius, err := mm1.Quantity("radius")
		require.NoError(t, err)
		assert.Equal(t, 0.1, radius.Value)
		assert.Equal(t, "arcsec", radius.Unit.Symbol)
		assert.Equal(t, units.AngleDim, radius.Unit.Dim)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := src.Quantity("mass")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMissingProperty))
	})

	t.Run("unparseable unit", func(t *testing.T) {
		bad := buildFromText(t, `
[INFO]
name = G333
oddity = 1 bogon
`)
		_, err := bad.Quantity("oddity")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedQuantity))
	})
}

func TestRaw(t *testing.T) {
	src := buildFromText(t, sampleConfig)

	frame, err := src.Raw("frame")
	require.NoError(t, err)
	assert.Equal(t, "icrs", frame)

	_, err = src.Raw("absent")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingProperty))
}

func TestLookupsAreCaseSensitive(t *testing.T) {
	src := buildFromText(t, sampleConfig)

	_, err := src.Subsource("mm1")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	_, err = src.Data("DATA1")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestSubsourcePositionDistinctFromRoot(t *testing.T) {
	src := buildFromText(t, sampleConfig)

	rootPos, err := src.Position()
	require.NoError(t, err)

	mm1, err := src.Subsource("MM1")
	require.NoError(t, err)
	mm1Pos, err := mm1.Position()
	require.NoError(t, err)

	assert.NotEqual(t, rootPos, mm1Pos)

	sep, err := rootPos.Separation(mm1Pos)
	require.NoError(t, err)
	assert.Greater(t, sep.Arcsec(), 0.0)
}

func TestResolutionIsLazy(t *testing.T) {
	// A malformed property the caller never reads is never reported.
	src := buildFromText(t, `
[INFO]
name = G333
distance = not a distance
`)

	_, err := src.Raw("distance")
	require.NoError(t, err)

	_, err = src.Distance()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedQuantity))
}

func TestLoadAll(t *testing.T) {
	calls := 0
	require.NoError(t, data.Register("loadall_test_kind", func(data.Params) (data.Payload, error) {
		calls++
		return calls, nil
	}))

	src := buildFromText(t, `
[INFO]
name = G333

[one]
type = loadall_test_kind
file = /a

[two]
type = loadall_test_kind
file = /b
`)

	require.NoError(t, src.LoadAll())
	assert.Equal(t, 2, calls)

	// Idempotent: descriptors are already loaded.
	require.NoError(t, src.LoadAll())
	assert.Equal(t, 2, calls)
}

func TestString(t *testing.T) {
	require.NoError(t, data.Register("string_test_kind", func(data.Params) (data.Payload, error) {
		return "payload", nil
	}))

	src := buildFromText(t, `
[INFO]
name = G333
distance = 1 kpc

[img]
type = string_test_kind
file = /data/img.fits
`)

	assert.Equal(t, "G333\n----\nname = G333\ndistance = 1 kpc", src.String())

	d, err := src.Data("img")
	require.NoError(t, err)
	_, err = d.Load()
	require.NoError(t, err)

	assert.Equal(t, "G333\n----\nname = G333\ndistance = 1 kpc\nLoaded data:\n\timg", src.String())
}

func TestSummaryJSON(t *testing.T) {
	src := buildFromText(t, sampleConfig)

	var buf bytes.Buffer
	require.NoError(t, src.EncodeJSON(&buf))

	var sum Summary
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &sum))

	assert.Equal(t, "G333.6-0.2", sum.Name)
	assert.Equal(t, "1 kpc", sum.Properties["distance"])
	require.Len(t, sum.Subsources, 1)
	assert.Equal(t, "MM1", sum.Subsources[0].Name)
	require.Len(t, sum.Data, 1)
	assert.Equal(t, DataSummary{Name: "data1", Kind: "fits_file", State: "unloaded"}, sum.Data[0])
}

func TestLoadAllStopsOnFailure(t *testing.T) {
	require.NoError(t, data.Register("failing_test_kind", func(data.Params) (data.Payload, error) {
		return nil, fmt.Errorf("broken")
	}))

	src := buildFromText(t, `
[INFO]
name = G333

[bad]
type = failing_test_kind
file = /a
`)

	err := src.LoadAll()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLoad))
}
