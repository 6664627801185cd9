// Package data implements lazy references to external data products: the
// descriptor state machine, its payload cache, and the process-wide registry
// of loaders keyed by data kind.
package data

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/logger"
)

// Payload is the materialized in-memory representation of a loaded data
// product. Its concrete type is whatever the loader for the descriptor's
// kind produces.
type Payload interface{}

// Loader materializes a data product from descriptor parameters. Loaders are
// registered once per kind at startup and invoked lazily on load requests.
type Loader func(params Params) (Payload, error)

// Registry manages loader registration and lookup by data kind.
type Registry struct {
	loaders map[string]Loader
	mu      sync.RWMutex
	logger  *zap.Logger
}

// Global registry instance; bundled loaders register here from init().
var globalRegistry = NewRegistry()

// NewRegistry creates a new empty loader registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
		logger:  logger.Get().With(zap.String("component", "loader_registry")),
	}
}

// Register registers a loader for a data kind.
func (r *Registry) Register(kind string, loader Loader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[kind]; exists {
		return errors.New(errors.ErrorTypeInternal, fmt.Sprintf("loader for kind %s already registered", kind))
	}

	r.loaders[kind] = loader
	r.logger.Info("data loader registered", zap.String("kind", kind))
	return nil
}

// Lookup returns the loader registered for a kind.
func (r *Registry) Lookup(kind string) (Loader, error) {
	r.mu.RLock()
	loader, exists := r.loaders[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeUnknownKind,
			fmt.Sprintf("no loader registered for kind %s", kind))
	}

	return loader, nil
}

// Kinds returns the sorted list of registered data kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.loaders))
	for kind := range r.loaders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Register registers a loader in the global registry.
func Register(kind string, loader Loader) error {
	return globalRegistry.Register(kind, loader)
}

// MustRegister registers a loader in the global registry and panics on
// conflict. Intended for loader package init() functions.
func MustRegister(kind string, loader Loader) {
	if err := Register(kind, loader); err != nil {
		panic(err)
	}
}

// Lookup returns a loader from the global registry.
func Lookup(kind string) (Loader, error) {
	return globalRegistry.Lookup(kind)
}

// Kinds lists the kinds registered in the global registry.
func Kinds() []string {
	return globalRegistry.Kinds()
}
