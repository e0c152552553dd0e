package geom

import "github.com/chewxy/math32"

// The ID reported by a HitRecord that did not hit anything.
const NoHit int32 = -1

// HitRecord tracks the closest intersection found so far for a ray.
type HitRecord struct {
	// Distance to the intersection in units of the ray direction.
	Dist float32

	// Index of the intersected triangle in the slice the accelerator
	// was built from or NoHit.
	ID int32
}

// Create a record that has not hit anything yet.
func NewHitRecord() HitRecord {
	return HitRecord{
		Dist: math32.Inf(1),
		ID:   NoHit,
	}
}

// Returns true if the record holds an intersection.
func (h HitRecord) Hit() bool {
	return h.ID != NoHit
}

// Update the record if a hit at distance t with the given triangle id beats
// the current one. A strictly closer hit always wins; at exactly the same
// distance the lower id wins so that the result does not depend on the order
// in which candidates are visited.
func (h *HitRecord) Offer(t float32, id int32) bool {
	if t < h.Dist || (t == h.Dist && id < h.ID) {
		h.Dist = t
		h.ID = id
		return true
	}
	return false
}

// Returns true if a and b describe the same intersection: either both
// missed or both hit at distances within a relative tolerance of relEps. Ids
// are not compared since triangles sharing an edge or vertex can be hit at
// the same distance up to rounding.
func SameHit(a, b HitRecord, relEps float32) bool {
	if a.Hit() != b.Hit() {
		return false
	}
	if !a.Hit() {
		return true
	}
	scale := math32.Max(1, math32.Max(math32.Abs(a.Dist), math32.Abs(b.Dist)))
	return math32.Abs(a.Dist-b.Dist) <= relEps*scale
}
