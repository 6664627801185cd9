package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/units"
)

func TestParamsFile(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		file, err := Params{"file": "/data/cube.fits"}.File()
		require.NoError(t, err)
		assert.Equal(t, "/data/cube.fits", file)
	})

	t.Run("absent", func(t *testing.T) {
		_, err := Params{"type": "fits_file"}.File()
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeLoad))
	})
}

func TestParamsOptions(t *testing.T) {
	p := Params{
		"file":                "cube.fits",
		"loader_usedask":      "false",
		"loader_usedask_type": "bool",
		"loader_hdu":          "3",
		"loader_hdu_type":     "int",
		"loader_rms":          "1.2 mJy",
		"loader_rms_type":     "quantity",
		"loader_scale":        "0.5",
		"loader_scale_type":   "float",
		"loader_mode":         "readonly",
	}

	opts, err := p.Options()
	require.NoError(t, err)

	assert.Equal(t, false, opts["usedask"])
	assert.Equal(t, 3, opts["hdu"])
	assert.Equal(t, 0.5, opts["scale"])
	assert.Equal(t, "readonly", opts["mode"]) // no _type: kept raw

	rms, ok := opts["rms"].(units.Quantity)
	require.True(t, ok)
	assert.Equal(t, 1.2, rms.Value)
	assert.Equal(t, "mJy", rms.Unit.Symbol)

	// Non-loader keys never leak into options.
	assert.NotContains(t, opts, "file")
}

func TestParamsOptionsBadCoercion(t *testing.T) {
	p := Params{
		"loader_hdu":      "three",
		"loader_hdu_type": "int",
	}

	_, err := p.Options()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedQuantity))
}
