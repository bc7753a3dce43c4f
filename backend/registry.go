package backend

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

// registry holds registered backends in registration order.
var (
	registryMu sync.RWMutex
	backends   []Backend
)

// Register adds a backend to the registry.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced in
// place and keeps its position in the sniffing order.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if i := indexOf(b.Name()); i >= 0 {
		backends[i] = b
		return
	}
	backends = append(backends, b)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if i := indexOf(name); i >= 0 {
		backends = slices.Delete(backends, i, i+1)
	}
}

// indexOf returns the position of name, or -1. Callers hold registryMu.
func indexOf(name string) int {
	return slices.IndexFunc(backends, func(b Backend) bool { return b.Name() == name })
}

// Available returns the registered backend names in sniffing order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name()
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return indexOf(name) >= 0
}

// Get returns a backend by name.
// Returns nil if the backend is not registered.
func Get(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if i := indexOf(name); i >= 0 {
		return backends[i]
	}
	return nil
}

// Match returns the first registered backend accepting header, or nil.
func Match(header []byte) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, b := range backends {
		if b.Match(header) {
			return b
		}
	}
	return nil
}

// Sniff peeks at the first SniffLen bytes of r and picks a backend for it.
// Streams wrapped in gzip or zstd compression are decompressed first. The
// returned reader yields the whole image stream, peeked bytes included, and
// must be used in place of r; closing it releases the decompressors.
func Sniff(r io.Reader) (Backend, io.ReadCloser, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &stream{Reader: br}
	for layer := 0; ; layer++ {
		header, err := br.Peek(SniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, s, fmt.Errorf("backend: reading header: %w", err)
		}
		c := compressionOf(header)
		if c == nil || layer == maxLayers {
			if b := Match(header); b != nil {
				return b, s, nil
			}
			return nil, s, fmt.Errorf("%w: header % x", ErrUnknownFormat, header)
		}
		if br, err = s.push(c, br); err != nil {
			return nil, s, err
		}
	}
}

// MustGet returns the backend registered under name or panics.
func MustGet(name string) Backend {
	b := Get(name)
	if b == nil {
		panic(fmt.Sprintf("backend: %q not registered", name))
	}
	return b
}

// Lookup is like Get but reports a missing backend as an error wrapping
// ErrBackendNotAvailable.
func Lookup(name string) (Backend, error) {
	if b := Get(name); b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
}
