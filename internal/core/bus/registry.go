// If you are AI: This file implements the Registry that maps source names to streams.

package bus

import (
	"sort"
	"sync"
)

// Registry manages the lifecycle of streams, one per configured source.
// Lock expectations: Mutex-protected for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	streams map[string]*Stream
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[string]*Stream),
	}
}

// GetOrCreate retrieves an existing stream or creates a new one.
// The boolean is true if the stream was created by this call.
func (r *Registry) GetOrCreate(name string) (*Stream, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stream, exists := r.streams[name]; exists {
		return stream, false
	}
	stream := NewStream(name)
	r.streams[name] = stream
	return stream, true
}

// Get retrieves a stream by name, returning nil if not found.
func (r *Registry) Get(name string) *Stream {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.streams[name]
}

// Remove removes a stream that has no publisher and no subscribers.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stream, exists := r.streams[name]
	if !exists || !stream.IsEmpty() {
		return false
	}
	delete(r.streams, name)
	return true
}

// Count returns the number of streams in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}

// List returns all stream names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.streams))
	for name := range r.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
