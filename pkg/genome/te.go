package genome

import "slices"

// TE is the current span of an active transposable element.
type TE struct {
	ID     int `json:"id"`
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the index one past the TE's last symbol.
func (t TE) End() int { return t.Start + t.Length }

// registry tracks active TEs in the order they were inserted.
// Ids come from a counter that is never reset, so an id is never handed out twice.
type registry struct {
	nextID int
	order  []int
	spans  map[int]TE
}

func newRegistry() *registry {
	return &registry{spans: make(map[int]TE)}
}

func (r *registry) add(start, length int) int {
	r.nextID++
	id := r.nextID
	r.spans[id] = TE{ID: id, Start: start, Length: length}
	r.order = append(r.order, id)
	return id
}

func (r *registry) get(id int) (TE, bool) {
	te, ok := r.spans[id]
	return te, ok
}

func (r *registry) remove(id int) {
	if _, ok := r.spans[id]; !ok {
		return
	}
	delete(r.spans, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func (r *registry) ids() []int {
	return slices.Clone(r.order)
}

// collide applies the collision and shift rules for an insertion of length
// symbols at pos. TEs with start < pos <= end are removed and returned with
// their pre-insertion spans. Surviving TEs starting at or after pos are moved
// right by length.
func (r *registry) collide(pos, length int) []TE {
	var hit []TE
	for _, id := range r.order {
		te := r.spans[id]
		switch {
		case te.Start < pos && pos <= te.End():
			hit = append(hit, te)
		case te.Start >= pos:
			te.Start += length
			r.spans[id] = te
		}
	}
	for _, te := range hit {
		r.remove(te.ID)
	}
	return hit
}
