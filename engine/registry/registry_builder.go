package registry

// NameRegistryBuilderOption is a functional option for configuring a NameRegistry via NewNameRegistry.
type NameRegistryBuilderOption func(*nameRegistry)

// WithNames pre-registers the given names in order, so their slots are fixed before any material
// is instantiated. Duplicate names keep their first slot.
//
// Parameters:
//   - names: the names to register
//
// Returns:
//   - NameRegistryBuilderOption: a function that applies the names option to a registry
func WithNames(names ...string) NameRegistryBuilderOption {
	return func(r *nameRegistry) {
		for _, name := range names {
			if _, ok := r.slots[name]; ok {
				continue
			}
			r.slots[name] = len(r.names)
			r.names = append(r.names, name)
		}
	}
}
