//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

// Package registry manages the registration and retrieval of metric providers.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/edugrade/answer-eval/provider"
)

// Registry defines the interface for metric provider registries.
type Registry interface {
	// Register registers a provider to the registry.
	Register(name string, p provider.Provider) error
	// Get retrieves a provider by name.
	Get(name string) (provider.Provider, error)
	// List returns the names of all registered providers.
	List() []string
}

// registry is the default implementation of Registry.
type registry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
}

// New creates an empty provider registry. The engine seeds it with the
// preset metrics; callers can register additional providers before a run.
func New() Registry {
	return &registry{providers: make(map[string]provider.Provider)}
}

// Register registers a provider to the registry.
// A provider registered under an existing name overwrites it.
func (r *registry) Register(name string, p provider.Provider) error {
	if p == nil {
		return errors.New("provider is nil")
	}
	if name == "" {
		name = p.Name()
	}
	if name == "" {
		return errors.New("provider name is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	return nil
}

// Get gets a provider by name.
// Returns os.ErrNotExist if the provider is not found.
func (r *registry) Get(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("get provider %s: %w", name, os.ErrNotExist)
}

// List returns the names of all registered providers sorted lexicographically.
func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
