// Package cube implements the `spectral_cube` data loader: a FITS image with
// at least three axes, the third being spectral. It registers itself in the
// global loader registry at init.
package cube

import (
	"strings"

	"github.com/astrokit/astrosource/pkg/data"
	"github.com/astrokit/astrosource/pkg/data/loaders/fits"
	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/units"
)

// Kind is the data kind served by this loader.
const Kind = "spectral_cube"

func init() {
	data.MustRegister(Kind, load)
}

// Cube is a loaded spectral cube: the underlying FITS file plus the spectral
// axis description.
type Cube struct {
	File *fits.File

	// Spectral axis (FITS axis 3)
	NChan        int64
	SpectralType string         // CTYPE3, e.g. FREQ or VRAD
	RefValue     units.Quantity // CRVAL3 in CUNIT3
	Step         units.Quantity // CDELT3 in CUNIT3

	// RestFreq is set from the loader_restfreq option when declared.
	RestFreq *units.Quantity
}

func load(params data.Params) (data.Payload, error) {
	path, err := params.File()
	if err != nil {
		return nil, err
	}

	f, err := fits.Open(path)
	if err != nil {
		return nil, err
	}

	c, err := FromFITS(f)
	if err != nil {
		return nil, err
	}

	opts, err := params.Options()
	if err != nil {
		return nil, err
	}
	if rf, ok := opts["restfreq"].(units.Quantity); ok {
		c.RestFreq = &rf
	}

	return c, nil
}

// FromFITS interprets an opened FITS file as a spectral cube.
func FromFITS(f *fits.File) (*Cube, error) {
	axes, err := f.Naxis()
	if err != nil {
		return nil, err
	}
	if len(axes) < 3 {
		return nil, errors.New(errors.ErrorTypeLoad, "spectral cube needs at least 3 axes").
			WithDetail("naxis", len(axes))
	}

	c := &Cube{File: f, NChan: axes[2]}

	if ctype, ok := f.Header.Get("CTYPE3"); ok {
		c.SpectralType = strings.TrimSpace(ctype)
	}

	unit := "Hz"
	if cunit, ok := f.Header.Get("CUNIT3"); ok {
		unit = strings.TrimSpace(cunit)
	}
	axisUnit, ok := units.Lookup(unit)
	if !ok {
		return nil, errors.New(errors.ErrorTypeLoad, "unrecognized spectral axis unit").
			WithDetail("unit", unit)
	}

	if crval, err := f.Header.Float("CRVAL3"); err == nil {
		c.RefValue = units.Quantity{Value: crval, Unit: axisUnit}
	}
	if cdelt, err := f.Header.Float("CDELT3"); err == nil {
		c.Step = units.Quantity{Value: cdelt, Unit: axisUnit}
	}

	return c, nil
}
