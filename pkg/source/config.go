// Package source resolves a textual configuration tree into a navigable
// graph of source nodes with typed, unit-aware property access and lazily
// loaded data descriptors.
package source

import (
	"strings"

	"gopkg.in/ini.v1"

	"github.com/astrokit/astrosource/pkg/errors"
)

// ConfigSection is one configuration section: its raw key/value pairs in
// declaration order plus any nested child sections. Nesting is expressed in
// the file with dotted section names: `[MM1.core]` is a child of `[MM1]`.
type ConfigSection struct {
	// Name is the last path segment of the section name.
	Name string
	// Keys holds the raw key/value pairs. Duplicate keys within a section
	// follow the reader's last-write-wins behavior.
	Keys map[string]string
	// KeyOrder preserves declaration order of Keys.
	KeyOrder []string
	// Children are the nested sections in declaration order.
	Children []*ConfigSection
}

// Config is the parsed configuration: the ordered top-level sections.
type Config struct {
	Sections []*ConfigSection
}

// Section returns the first top-level section with the given name,
// case-sensitively.
func (c *Config) Section(name string) (*ConfigSection, bool) {
	for _, sec := range c.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return nil, false
}

// LoadConfig reads and parses an INI configuration file.
func LoadConfig(path string) (*Config, error) {
	return parse(path)
}

// ParseConfig parses INI configuration text.
func ParseConfig(src []byte) (*Config, error) {
	return parse(src)
}

func parse(source interface{}) (*Config, error) {
	// Non-unique sections are kept apart so that a duplicated INFO section
	// can be detected at build time instead of being merged silently.
	f, err := ini.LoadSources(ini.LoadOptions{AllowNonUniqueSections: true}, source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "cannot read configuration")
	}

	cfg := &Config{}
	byPath := map[string]*ConfigSection{}

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}

		node := &ConfigSection{
			Name: sec.Name(),
			Keys: make(map[string]string, len(sec.Keys())),
		}
		for _, key := range sec.Keys() {
			node.Keys[key.Name()] = key.Value()
			node.KeyOrder = append(node.KeyOrder, key.Name())
		}
		// Duplicate section names overwrite here, so a dotted child
		// attaches to the most recently declared section of that name.
		byPath[sec.Name()] = node

		// `A.B` attaches under `A`; anything else is top-level. A child
		// declared before its parent is a structural error.
		if i := strings.LastIndex(sec.Name(), "."); i >= 0 {
			parent, ok := byPath[sec.Name()[:i]]
			if !ok {
				return nil, errors.New(errors.ErrorTypeConfig,
					"nested section declared before its parent").
					WithDetail("section", sec.Name())
			}
			node.Name = sec.Name()[i+1:]
			parent.Children = append(parent.Children, node)
		} else {
			cfg.Sections = append(cfg.Sections, node)
		}
	}

	return cfg, nil
}
