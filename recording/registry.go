// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrUnknownBackend is returned by NewBackend for a name nothing registered.
var ErrUnknownBackend = errors.New("recording: unknown backend")

// BackendFactory creates a new backend instance.
type BackendFactory func() Backend

var registry struct {
	sync.RWMutex
	factories map[string]BackendFactory
}

// Register makes a backend available under name. Backend packages call it
// from init, so importing one for its side effect is enough to use it.
// It panics on a nil factory or a duplicate name.
func Register(name string, factory BackendFactory) {
	if factory == nil {
		panic("recording: nil factory for backend " + name)
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.factories[name]; dup {
		panic("recording: backend " + name + " registered twice")
	}
	if registry.factories == nil {
		registry.factories = make(map[string]BackendFactory)
	}
	registry.factories[name] = factory
}

// Unregister removes a backend. Used by tests.
func Unregister(name string) {
	registry.Lock()
	defer registry.Unlock()
	delete(registry.factories, name)
}

// NewBackend creates a fresh instance of the named backend.
func NewBackend(name string) (Backend, error) {
	registry.RLock()
	factory, ok := registry.factories[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v; missing import?)", ErrUnknownBackend, name, Backends())
	}
	return factory(), nil
}

// Backends returns the registered names, sorted.
func Backends() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.factories[name]
	return ok
}
