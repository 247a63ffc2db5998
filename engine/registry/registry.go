// Package registry implements the process-wide parameter name table shared by every live material.
// Each distinct resource-parameter name is assigned a stable small integer slot the first time it is
// registered, and every material reports its resources against the same slot space.
package registry

import "sync"

// nameRegistry is the implementation of the NameRegistry interface.
type nameRegistry struct {
	mu *sync.RWMutex

	names []string
	slots map[string]int
}

// NameRegistry assigns each distinct parameter name a stable slot index. Slots only ever grow:
// a name registered once keeps its slot for the lifetime of the registry.
// Registration is safe for concurrent use; reads of already-registered names only take the read lock.
type NameRegistry interface {
	// Register returns the slot for the given name, appending the name if it has not been seen before.
	// Repeated calls with the same name return the same slot regardless of call order.
	//
	// Parameters:
	//   - name: the parameter name to register
	//
	// Returns:
	//   - int: the slot index assigned to the name
	Register(name string) int

	// Slot looks up the slot of a name without registering it.
	//
	// Parameters:
	//   - name: the parameter name to look up
	//
	// Returns:
	//   - int: the slot index, or -1 if the name was never registered
	//   - bool: true if the name is registered
	Slot(name string) (int, bool)

	// Name returns the name registered at the given slot.
	//
	// Parameters:
	//   - slot: the slot index to look up
	//
	// Returns:
	//   - string: the registered name, or an empty string if the slot is out of range
	//   - bool: true if the slot is in range
	Name(slot int) (string, bool)

	// Count returns the total number of distinct names ever registered.
	//
	// Returns:
	//   - int: the number of registered names
	Count() int

	// Names returns a snapshot of all registered names in slot order.
	//
	// Returns:
	//   - []string: a copy of the registered names
	Names() []string
}

var _ NameRegistry = &nameRegistry{}

// NewNameRegistry creates an empty NameRegistry.
//
// Parameters:
//   - options: variadic list of NameRegistryBuilderOption functions to configure the registry
//
// Returns:
//   - NameRegistry: a new, empty registry
func NewNameRegistry(options ...NameRegistryBuilderOption) NameRegistry {
	r := &nameRegistry{
		mu:    &sync.RWMutex{},
		slots: make(map[string]int),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *nameRegistry) Register(name string) int {
	r.mu.RLock()
	if slot, ok := r.slots[name]; ok {
		r.mu.RUnlock()
		return slot
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// another writer may have inserted the name between the two locks
	if slot, ok := r.slots[name]; ok {
		return slot
	}
	slot := len(r.names)
	r.names = append(r.names, name)
	r.slots[name] = slot
	return slot
}

func (r *nameRegistry) Slot(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[name]
	if !ok {
		return -1, false
	}
	return slot, true
}

func (r *nameRegistry) Name(slot int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if slot < 0 || slot >= len(r.names) {
		return "", false
	}
	return r.names[slot], true
}

func (r *nameRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

func (r *nameRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
