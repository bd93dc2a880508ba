package processor

import (
	"fmt"
	"sync"
)

// Registry maps format names to encoders. Format aliases ("jpg" for "jpeg")
// resolve to the same encoder.
type Registry struct {
	encoders map[string]Encoder
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

func (r *Registry) Register(enc Encoder, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[enc.Format()] = enc
	for _, alias := range aliases {
		r.encoders[alias] = enc
	}
}

func (r *Registry) Get(format string) (Encoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[format]
	return enc, ok
}

// GetOrError returns an encoder by format name, or an error if not found.
func (r *Registry) GetOrError(format string) (Encoder, error) {
	enc, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: no encoder for %q", ErrUnsupportedFormat, format)
	}
	return enc, nil
}

func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}
	return names
}
