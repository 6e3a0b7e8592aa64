package client

import (
	"fmt"
	"sync"

	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// Factory builds a Client for one driver.
type Factory func() (Client, error)

var (
	clientRegistry = make(map[string]Factory)
	registryMutex  sync.RWMutex
)

// Register registers a client Factory for the given driver name.
// Driver packages call this from init(); importing a driver package is all it
// takes to make the driver available.
func Register(driver string, factory Factory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, exists := clientRegistry[driver]; exists {
		logger.Warnf("Client for driver '%s' already registered. Overwriting.", driver)
	}
	clientRegistry[driver] = factory
}

// New builds the Client registered under the given driver name.
func New(driver string) (Client, error) {
	registryMutex.RLock()
	factory, ok := clientRegistry[driver]
	registryMutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no client registered for driver: %s", driver)
	}
	return factory()
}

// Drivers returns the names of every registered driver.
func Drivers() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	names := make([]string, 0, len(clientRegistry))
	for name := range clientRegistry {
		names = append(names, name)
	}
	return names
}
