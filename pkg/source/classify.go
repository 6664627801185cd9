package source

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/astrokit/astrosource/pkg/data"
	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/logger"
	"github.com/astrokit/astrosource/pkg/metrics"
)

// infoSection is the section that carries the root node's properties.
const infoSection = "INFO"

// subsourceType is the declared type marking a nested source node.
const subsourceType = "subsource"

// Load reads a configuration file and builds the source tree.
func Load(path string) (*Source, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg)
}

// Build resolves a parsed configuration into the source tree. The walk
// happens once: every section is classified here, and structural problems
// abort the build before any tree is returned. No file access happens; data
// sections become unloaded descriptors.
func Build(cfg *Config) (*Source, error) {
	var info *ConfigSection
	count := 0
	for _, sec := range cfg.Sections {
		if sec.Name == infoSection {
			info = sec
			count++
		}
	}
	if count != 1 {
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("expected exactly one %s section, found %d", infoSection, count))
	}
	if len(info.Children) > 0 {
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("%s section cannot have nested sections", infoSection))
	}

	root := newNode(info.Keys["name"], info)
	if root.name == "" {
		root.logger.Warn("source declares no name")
	}
	root.logger.Info("building source tree")

	for _, sec := range cfg.Sections {
		if sec.Name == infoSection {
			continue
		}
		if err := attach(root, sec); err != nil {
			return nil, err
		}
	}

	metrics.SourcesBuilt.Inc()
	return root, nil
}

// attach classifies one section and hangs the resulting node off parent.
//
// Dispatch: `type: subsource` (or the backward-compatible fallback of ra/dec
// with no type) builds a nested source node, recursively; any other declared
// type builds a data descriptor, with the kind kept opaque so that loader
// lookup, not classification, decides whether it is usable. The declared
// type is case-insensitive; descriptors carry the lowercased kind.
func attach(parent *Source, sec *ConfigSection) error {
	declared, hasType := sec.Keys["type"]
	declared = strings.ToLower(declared)

	switch {
	case declared == subsourceType,
		!hasType && hasKey(sec, "ra") && hasKey(sec, "dec"):
		sub := newNode(sec.Name, sec)
		for _, child := range sec.Children {
			if err := attach(sub, child); err != nil {
				return err
			}
		}
		addSubsource(parent, sec.Name, sub)

	case hasType:
		if len(sec.Children) > 0 {
			return errors.New(errors.ErrorTypeConfig,
				fmt.Sprintf("data section %s cannot have nested sections", sec.Name))
		}
		params := make(data.Params, len(sec.Keys))
		for k, v := range sec.Keys {
			if k == "type" {
				continue
			}
			params[k] = v
		}
		addData(parent, sec.Name, data.NewDescriptor(sec.Name, declared, params))

	default:
		return errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("section %s declares no type and no ra/dec pair", sec.Name))
	}

	return nil
}

func hasKey(sec *ConfigSection, key string) bool {
	_, ok := sec.Keys[key]
	return ok
}

func newNode(name string, sec *ConfigSection) *Source {
	s := &Source{
		name:       name,
		properties: make(map[string]string, len(sec.Keys)),
		subsources: map[string]*Source{},
		data:       map[string]*data.Descriptor{},
		logger:     logger.Get().With(zap.String("source", name)),
	}
	for _, key := range sec.KeyOrder {
		s.properties[key] = sec.Keys[key]
		s.propOrder = append(s.propOrder, key)
	}
	return s
}

// Redefined names follow the reader's last-write-wins behavior.
func addSubsource(parent *Source, name string, sub *Source) {
	if _, exists := parent.subsources[name]; !exists {
		parent.subOrder = append(parent.subOrder, name)
	}
	parent.subsources[name] = sub
}

func addData(parent *Source, name string, d *data.Descriptor) {
	if _, exists := parent.data[name]; !exists {
		parent.dataOrder = append(parent.dataOrder, name)
	}
	parent.data[name] = d
}
