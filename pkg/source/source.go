package source

import (
	"fmt"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/astrokit/astrosource/pkg/coords"
	"github.com/astrokit/astrosource/pkg/data"
	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/units"
)

// Source is a node of the source tree: a name, raw typed-on-demand
// properties, owned subsources and owned data descriptors. A node is
// immutable after construction; the only indirect mutation is a descriptor
// caching its payload on load.
type Source struct {
	name string

	properties map[string]string
	propOrder  []string

	subsources map[string]*Source
	subOrder   []string

	data      map[string]*data.Descriptor
	dataOrder []string

	logger *zap.Logger
}

// Name returns the node name: the `name` property for the root, the section
// name for subsources.
func (s *Source) Name() string { return s.name }

// PropertyKeys returns the property names in declaration order.
func (s *Source) PropertyKeys() []string {
	return append([]string(nil), s.propOrder...)
}

// Raw returns the unresolved property string, for properties that are not
// quantities (e.g. name, frame).
func (s *Source) Raw(key string) (string, error) {
	raw, ok := s.properties[key]
	if !ok {
		return "", errors.New(errors.ErrorTypeMissingProperty,
			fmt.Sprintf("property %s not declared", key)).
			WithDetail("source", s.name)
	}
	return raw, nil
}

// Quantity resolves any stored property as a typed quantity. Resolution runs
// on every call from the immutable raw string, so repeated calls always
// observe the same value.
func (s *Source) Quantity(key string) (units.Quantity, error) {
	raw, err := s.Raw(key)
	if err != nil {
		return units.Quantity{}, err
	}
	q, err := units.Parse(raw)
	if err != nil {
		return units.Quantity{}, errors.Wrap(err, errors.ErrorTypeMalformedQuantity,
			fmt.Sprintf("property %s is not a quantity", key)).
			WithDetail("source", s.name)
	}
	return q, nil
}

// Distance returns the `distance` property as a quantity.
func (s *Source) Distance() (units.Quantity, error) {
	return s.Quantity("distance")
}

// Luminosity returns the `luminosity` property as a quantity.
func (s *Source) Luminosity() (units.Quantity, error) {
	return s.Quantity("luminosity")
}

// Position derives the sky position from the ra, dec and frame properties.
// It is never stored; every call recomputes it from the raw strings. An
// absent frame defaults to icrs.
func (s *Source) Position() (coords.SkyPosition, error) {
	ra, err := s.Raw("ra")
	if err != nil {
		return coords.SkyPosition{}, err
	}
	dec, err := s.Raw("dec")
	if err != nil {
		return coords.SkyPosition{}, err
	}
	frame := s.properties["frame"]
	return coords.New(ra, dec, frame)
}

// Subsource returns the named subsource; lookup is case-sensitive and
// exact-match.
func (s *Source) Subsource(name string) (*Source, error) {
	sub, ok := s.subsources[name]
	if !ok {
		return nil, errors.New(errors.ErrorTypeNotFound,
			fmt.Sprintf("no subsource %s", name)).
			WithDetail("source", s.name)
	}
	return sub, nil
}

// Subsources returns the subsource names in declaration order.
func (s *Source) Subsources() []string {
	return append([]string(nil), s.subOrder...)
}

// Data returns the named data descriptor; lookup is case-sensitive and
// exact-match.
func (s *Source) Data(name string) (*data.Descriptor, error) {
	d, ok := s.data[name]
	if !ok {
		return nil, errors.New(errors.ErrorTypeNotFound,
			fmt.Sprintf("no data section %s", name)).
			WithDetail("source", s.name)
	}
	return d, nil
}

// DataSections returns the data descriptor names in declaration order.
func (s *Source) DataSections() []string {
	return append([]string(nil), s.dataOrder...)
}

// LoadAll materializes every data descriptor owned by this node. The first
// failure stops the walk and is returned.
func (s *Source) LoadAll() error {
	for _, name := range s.dataOrder {
		s.logger.Info("loading data section", zap.String("section", name))
		if _, err := s.data[name].Load(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the node: name, properties, and which data is loaded.
func (s *Source) String() string {
	lines := []string{s.name, strings.Repeat("-", len(s.name))}
	for _, key := range s.propOrder {
		lines = append(lines, fmt.Sprintf("%s = %s", key, s.properties[key]))
	}

	var loaded []string
	for _, name := range s.dataOrder {
		if s.data[name].State() == data.Loaded {
			loaded = append(loaded, name)
		}
	}
	if len(loaded) > 0 {
		lines = append(lines, "Loaded data:")
		for _, name := range loaded {
			lines = append(lines, "\t"+name)
		}
	}

	return strings.Join(lines, "\n")
}

// Summary is the serializable description of a node.
type Summary struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	Subsources []Summary         `json:"subsources,omitempty"`
	Data       []DataSummary     `json:"data,omitempty"`
}

// DataSummary describes one data descriptor.
type DataSummary struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	State string `json:"state"`
}

// Summary builds the full recursive description of the node.
func (s *Source) Summary() Summary {
	sum := Summary{Name: s.name}
	if len(s.properties) > 0 {
		sum.Properties = make(map[string]string, len(s.properties))
		for k, v := range s.properties {
			sum.Properties[k] = v
		}
	}
	for _, name := range s.subOrder {
		sum.Subsources = append(sum.Subsources, s.subsources[name].Summary())
	}
	for _, name := range s.dataOrder {
		d := s.data[name]
		sum.Data = append(sum.Data, DataSummary{
			Name:  name,
			Kind:  d.Kind(),
			State: d.State().String(),
		})
	}
	return sum
}

// EncodeJSON writes the node summary as JSON.
func (s *Source) EncodeJSON(w io.Writer) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Summary())
}
