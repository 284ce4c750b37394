package genome

import "fmt"

// node is one position in a LinkedGenome. next is an index into the arena.
type node struct {
	sym  Symbol
	pos  int
	next int
}

// LinkedGenome stores the genome as a circular chain of nodes held in an
// arena. Each node records its logical position; walking from the anchor
// (position 0) yields positions 0, 1, 2, ... until the chain wraps back to the
// anchor. Splicing is a constant-time relink once the predecessor is found,
// followed by a renumbering pass over every node between the splice and the
// anchor.
type LinkedGenome struct {
	nodes  []node
	anchor int // arena index of position 0, -1 when empty
	size   int
	tes    *registry
}

// NewLinkedGenome creates a genome of n gaps.
func NewLinkedGenome(n int) *LinkedGenome {
	g := &LinkedGenome{
		nodes:  make([]node, n),
		anchor: -1,
		size:   n,
		tes:    newRegistry(),
	}
	for i := range g.nodes {
		g.nodes[i] = node{sym: Gap, pos: i, next: (i + 1) % n}
	}
	if n > 0 {
		g.anchor = 0
	}
	return g
}

func (g *LinkedGenome) InsertTE(pos, length int) (int, error) {
	if err := checkInsert(pos, length, g.size); err != nil {
		return 0, err
	}
	for _, te := range g.tes.collide(pos, length) {
		g.mark(te)
	}

	first := len(g.nodes)
	last := first + length - 1
	for i := 0; i < length; i++ {
		g.nodes = append(g.nodes, node{sym: Active, pos: pos + i, next: first + i + 1})
	}

	if g.size == 0 {
		g.nodes[last].next = first
		g.anchor = first
	} else {
		var pred int
		if pos == 0 {
			pred = g.locate(g.size - 1)
		} else {
			pred = g.locate(pos - 1)
		}
		succ := g.nodes[pred].next
		g.nodes[pred].next = first
		g.nodes[last].next = succ
		if pos == 0 {
			g.anchor = first
		}
		for cur := succ; cur != g.anchor; cur = g.nodes[cur].next {
			g.nodes[cur].pos += length
		}
	}
	g.size += length

	return g.tes.add(pos, length), nil
}

func (g *LinkedGenome) CopyTE(te, offset int) (int, bool) {
	src, ok := g.tes.get(te)
	if !ok {
		return 0, false
	}
	id, err := g.InsertTE(wrap(src.Start, offset, g.size), src.Length)
	if err != nil {
		panic("genome: copy produced invalid insertion: " + err.Error())
	}
	return id, true
}

func (g *LinkedGenome) DisableTE(te int) {
	span, ok := g.tes.get(te)
	if !ok {
		return
	}
	g.mark(span)
	g.tes.remove(te)
}

func (g *LinkedGenome) ActiveTEs() []int { return g.tes.ids() }

func (g *LinkedGenome) Span(te int) (TE, bool) { return g.tes.get(te) }

func (g *LinkedGenome) Len() int { return g.size }

func (g *LinkedGenome) String() string {
	b := make([]byte, 0, g.size)
	cur := g.anchor
	for i := 0; i < g.size; i++ {
		b = append(b, g.nodes[cur].sym.Byte())
		cur = g.nodes[cur].next
	}
	return string(b)
}

// Verify walks the chain from the anchor and checks that positions run
// 0, 1, 2, ... and that the walk closes on the anchor after Len() nodes.
func (g *LinkedGenome) Verify() error {
	if g.size != len(g.nodes) {
		return fmt.Errorf("%w: size %d but %d nodes allocated", ErrCorruptChain, g.size, len(g.nodes))
	}
	if g.size == 0 {
		if g.anchor != -1 {
			return fmt.Errorf("%w: empty genome has anchor %d", ErrCorruptChain, g.anchor)
		}
		return nil
	}
	cur := g.anchor
	for i := 0; i < g.size; i++ {
		if g.nodes[cur].pos != i {
			return fmt.Errorf("%w: node %d holds position %d, want %d", ErrCorruptChain, cur, g.nodes[cur].pos, i)
		}
		cur = g.nodes[cur].next
	}
	if cur != g.anchor {
		return fmt.Errorf("%w: walk of %d nodes ends at node %d, not the anchor", ErrCorruptChain, g.size, cur)
	}
	return nil
}

// locate walks from the anchor to the node holding pos. A miss means the
// renumbering invariant is broken, which is a defect rather than a user error.
func (g *LinkedGenome) locate(pos int) int {
	cur := g.anchor
	for i := 0; i < g.size; i++ {
		if g.nodes[cur].pos == pos {
			return cur
		}
		cur = g.nodes[cur].next
	}
	panic(fmt.Sprintf("genome: no node holds position %d: %v", pos, ErrCorruptChain))
}

func (g *LinkedGenome) mark(te TE) {
	cur := g.locate(te.Start)
	for i := 0; i < te.Length; i++ {
		g.nodes[cur].sym = Inactive
		cur = g.nodes[cur].next
	}
}
