package physics

import "sort"

// BodyID identifies a body inside one World. IDs start at 1; zero means
// unregistered.
type BodyID int

// registry is a sparse set of bodies keyed by BodyID. Iteration over the
// dense slice is insertion ordered until something is removed.
type registry struct {
	denseIDs    []BodyID
	denseBodies []*Body
	sparse      []int
}

func (r *registry) Has(id BodyID) bool {
	if id <= 0 || int(id)-1 >= len(r.sparse) {
		return false
	}
	idx := r.sparse[id-1]
	return idx >= 0 && idx < len(r.denseIDs) && r.denseIDs[idx] == id
}

// Get returns the body for id, or nil.
func (r *registry) Get(id BodyID) *Body {
	if !r.Has(id) {
		return nil
	}
	return r.denseBodies[r.sparse[id-1]]
}

func (r *registry) Set(id BodyID, b *Body) {
	if id <= 0 {
		return
	}
	for int(id)-1 >= len(r.sparse) {
		r.sparse = append(r.sparse, -1)
	}
	if r.Has(id) {
		r.denseBodies[r.sparse[id-1]] = b
		return
	}
	r.denseIDs = append(r.denseIDs, id)
	r.denseBodies = append(r.denseBodies, b)
	r.sparse[id-1] = len(r.denseIDs) - 1
}

// Remove swaps the last body into the removed slot.
func (r *registry) Remove(id BodyID) {
	if !r.Has(id) {
		return
	}
	idx := r.sparse[id-1]
	last := len(r.denseIDs) - 1
	lastID := r.denseIDs[last]

	r.denseIDs[idx] = r.denseIDs[last]
	r.denseBodies[idx] = r.denseBodies[last]
	r.sparse[lastID-1] = idx

	r.denseBodies[last] = nil
	r.denseIDs = r.denseIDs[:last]
	r.denseBodies = r.denseBodies[:last]
	r.sparse[id-1] = -1
}

func (r *registry) Len() int {
	return len(r.denseIDs)
}

// Bodies returns the dense body list.
func (r *registry) Bodies() []*Body {
	return r.denseBodies
}

// view is the filtered and sorted iteration order the step driver uses:
// enabled bodies only, by update order, then by registration order.
type view struct {
	bodies []*Body
	dirty  bool
}

func (v *view) invalidate() {
	v.dirty = true
}

func (v *view) get(r *registry) []*Body {
	if !v.dirty {
		return v.bodies
	}
	v.dirty = false

	clear(v.bodies)
	v.bodies = v.bodies[:0]
	for _, b := range r.Bodies() {
		if b.enabled {
			v.bodies = append(v.bodies, b)
		}
	}
	sort.SliceStable(v.bodies, func(i, j int) bool {
		a, b := v.bodies[i], v.bodies[j]
		if a.updateOrder != b.updateOrder {
			return a.updateOrder < b.updateOrder
		}
		return a.sequence < b.sequence
	})
	return v.bodies
}
