package omnitable

import (
	"fmt"
	"sort"
	"sync"
)

var (
	storesMu sync.RWMutex
	stores   = make(map[string]StoreFactory)
)

// StoreFactory creates a Store from configuration.
// The config map contains store-specific configuration keys.
type StoreFactory func(config map[string]string) (Store, error)

// Register registers a store factory under the given name.
// It is typically called from init() in backend packages.
//
// Register panics if factory is nil or the name is already registered.
func Register(name string, factory StoreFactory) {
	storesMu.Lock()
	defer storesMu.Unlock()

	if factory == nil {
		panic("omnitable: Register factory is nil")
	}
	if _, dup := stores[name]; dup {
		panic("omnitable: Register called twice for store " + name)
	}
	stores[name] = factory
}

// Open opens a store by name with the given configuration.
//
// Example:
//
//	store, err := omnitable.Open("s3", map[string]string{
//	    "region": "us-west-2",
//	})
func Open(name string, config map[string]string) (Store, error) {
	storesMu.RLock()
	factory, ok := stores[name]
	storesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return factory(config)
}

// Stores returns a sorted list of registered store names.
func Stores() []string {
	storesMu.RLock()
	defer storesMu.RUnlock()

	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered returns true if a store with the given name is registered.
func IsRegistered(name string) bool {
	storesMu.RLock()
	defer storesMu.RUnlock()
	_, ok := stores[name]
	return ok
}

// Unregister removes a registered store. Primarily useful for testing.
func Unregister(name string) bool {
	storesMu.Lock()
	defer storesMu.Unlock()

	if _, ok := stores[name]; ok {
		delete(stores, name)
		return true
	}
	return false
}
