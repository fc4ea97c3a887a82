package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownDriver matches every UnknownDriverError via errors.Is.
var ErrUnknownDriver = errors.New("decoder not recognized")

// Measurement is the decoded form of a payload as produced by a Driver.
type Measurement interface {
	// Fields returns the present values keyed by field name.
	Fields() map[string]any
	// Lines returns a human-readable report, one entry per line.
	Lines() []string
}

// Driver decodes payloads of one device family.
type Driver interface {
	Name() string
	Decode(context.Context, []byte) (Measurement, error)
}

// UnknownDriverError is returned by Lookup for names nobody registered.
type UnknownDriverError struct {
	Name      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("decoder %q not recognized, available decoders: %s", e.Name, strings.Join(e.Available, ", "))
}

// Is implements errors.Is support for ErrUnknownDriver.
func (e *UnknownDriverError) Is(target error) bool {
	return target == ErrUnknownDriver
}

var (
	regMu    sync.RWMutex
	registry = map[string]Driver{}
)

// Register stores a driver under its lower-cased name. Registering the same
// name twice replaces the earlier driver.
func Register(drv Driver) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[strings.ToLower(drv.Name())] = drv
}

// Lookup returns the driver registered under name, ignoring case.
func Lookup(name string) (Driver, error) {
	regMu.RLock()
	drv, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	regMu.RUnlock()
	if !ok {
		return nil, &UnknownDriverError{Name: name, Available: Names()}
	}
	return drv, nil
}

// Names returns the registered driver names in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
