// Package collision tracks GUID usage across the point clouds and images
// written into a single e57 file so that two sections never publish
// descriptors carrying the same GUID.
package collision

import (
	"fmt"

	"github.com/e57fmt/e57/errs"
	"github.com/e57fmt/e57/internal/hash"
)

// Registry tracks GUIDs assigned to sections of one file in progress and
// reports a collision if the same GUID is registered twice, whether
// caller-supplied or derived.
type Registry struct {
	guids map[string]struct{}
	order []string
}

// NewRegistry creates an empty GUID registry.
func NewRegistry() *Registry {
	return &Registry{
		guids: make(map[string]struct{}),
		order: make([]string, 0),
	}
}

// Register records guid as used, returning errs.ErrGuidCollision if it was
// already registered.
func (r *Registry) Register(guid string) error {
	if _, exists := r.guids[guid]; exists {
		return fmt.Errorf("%w: %q", errs.ErrGuidCollision, guid)
	}

	r.guids[guid] = struct{}{}
	r.order = append(r.order, guid)

	return nil
}

// Derive synthesizes a GUID from physicalOffset and ordinal, registers it,
// and returns the formatted string. Used when the caller does not supply a
// GUID for AddPointCloud/AddImageBlob.
func (r *Registry) Derive(physicalOffset uint64, ordinal int) (string, error) {
	id := hash.SectionID(physicalOffset, ordinal)
	guid := fmt.Sprintf("e57-%016x", id)

	if err := r.Register(guid); err != nil {
		return "", err
	}

	return guid, nil
}

// Guids returns the GUIDs registered so far, in registration order.
func (r *Registry) Guids() []string {
	return r.order
}

// Count returns the number of registered GUIDs.
func (r *Registry) Count() int {
	return len(r.order)
}

// Reset clears all registered GUIDs, preserving map capacity.
func (r *Registry) Reset() {
	for k := range r.guids {
		delete(r.guids, k)
	}
	r.order = r.order[:0]
}
