package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
)

// ErrResourceCount is returned when a material's resource list length differs from the number of
// registered parameter names.
var ErrResourceCount = errors.New("material resource count does not match the name registry")

// BoundResource is one slot of a material as seen by the binder.
type BoundResource struct {
	Slot int

	// Name is the parameter name registered for the slot, whether or not the material populated it.
	Name string

	// Resource is the stored value, or the inert value for unpopulated slots.
	Resource material.Resource

	// Populated is true if the material holds a value for the slot.
	Populated bool
}

// MaterialBinding is the fixed-length, slot-ordered resource list of one material, ready for
// upload. Every binding built within a frame has the same length.
type MaterialBinding struct {
	Label     string
	Version   uint64
	Resources []BoundResource
	Flags     []string
}

// Len returns the number of slots in the binding.
func (b *MaterialBinding) Len() int {
	return len(b.Resources)
}

// Lookup returns the bound resource registered under a parameter name.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - BoundResource: the slot entry
//   - bool: false if no slot carries the name
func (b *MaterialBinding) Lookup(name string) (BoundResource, bool) {
	for _, r := range b.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return BoundResource{}, false
}

// ColorData encodes every slot as a GPUColorParam in slot order. Non-color slots encode as zero.
//
// Returns:
//   - []byte: Len() × 16 bytes
func (b *MaterialBinding) ColorData() []byte {
	var p material.GPUColorParam
	size := p.Size()
	buf := make([]byte, 0, size*len(b.Resources))
	for _, r := range b.Resources {
		p = material.GPUColorParam{}
		if r.Resource.Kind == material.ResourceKindColor {
			p.Color = r.Resource.Color
		}
		buf = append(buf, p.Marshal()...)
	}
	return buf
}
