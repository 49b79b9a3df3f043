package source

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pmwatch/internal/application/port"
)

// Factory builds an activity source for a base URL and request timeout.
type Factory func(baseURL string, timeout time.Duration) port.ActivitySource

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register is called from the init() of each source package.
func Register(name string, factory Factory) {
	if factory == nil {
		log.Warn().Str("source", name).Msg("invalid activity source factory")
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; exists {
		log.Warn().Str("source", name).Msg("activity source already registered, overwriting")
	}
	registry[name] = factory
}

func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := registry[name]
	return factory, ok
}

// New builds the named source or reports the registered names.
func New(name, baseURL string, timeout time.Duration) (port.ActivitySource, error) {
	factory, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("activity source %q not registered (have %v)", name, Names())
	}
	return factory(baseURL, timeout), nil
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
