package data

import (
	"strconv"
	"strings"

	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/units"
)

// Params holds a descriptor's raw configuration key/value pairs.
type Params map[string]string

// optionPrefix marks keys that carry additional loader arguments. A key
// `loader_<name>` supplies the argument, and an optional companion
// `loader_<name>_type` coerces its value (int, float, bool or quantity).
const optionPrefix = "loader_"

// File returns the declared data file path. Its absence is reported as a
// load failure since the path is only consumed at load time.
func (p Params) File() (string, error) {
	file, ok := p["file"]
	if !ok || file == "" {
		return "", errors.New(errors.ErrorTypeLoad, "no file declared for data section")
	}
	return file, nil
}

// Get returns a raw parameter value.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Options extracts typed loader arguments from `loader_*` keys.
//
//	file: cube.fits
//	type: spectral_cube
//	loader_usedask: false
//	loader_usedask_type: bool
//
// yields {"usedask": false}.
func (p Params) Options() (map[string]interface{}, error) {
	opts := make(map[string]interface{})
	for key, raw := range p {
		if !strings.HasPrefix(key, optionPrefix) || strings.HasSuffix(key, "_type") {
			continue
		}
		name := strings.TrimPrefix(key, optionPrefix)

		var (
			value interface{} = raw
			err   error
		)
		switch p[key+"_type"] {
		case "int":
			value, err = strconv.Atoi(raw)
		case "float":
			value, err = strconv.ParseFloat(raw, 64)
		case "bool":
			value, err = strconv.ParseBool(raw)
		case "quantity":
			value, err = units.Parse(raw)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeMalformedQuantity,
				"bad loader option").WithDetail("option", name).WithDetail("raw", raw)
		}

		opts[name] = value
	}
	return opts, nil
}
