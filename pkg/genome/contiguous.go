package genome

import "slices"

// ContiguousGenome stores the genome in a slice. Insertion shifts every symbol
// after the splice point; lookups are direct indexing.
type ContiguousGenome struct {
	symbols []Symbol
	tes     *registry
}

// NewContiguousGenome creates a genome of n gaps.
func NewContiguousGenome(n int) *ContiguousGenome {
	symbols := make([]Symbol, n)
	for i := range symbols {
		symbols[i] = Gap
	}
	return &ContiguousGenome{symbols: symbols, tes: newRegistry()}
}

func (g *ContiguousGenome) InsertTE(pos, length int) (int, error) {
	if err := checkInsert(pos, length, len(g.symbols)); err != nil {
		return 0, err
	}
	for _, te := range g.tes.collide(pos, length) {
		g.mark(te)
	}
	block := make([]Symbol, length)
	for i := range block {
		block[i] = Active
	}
	g.symbols = slices.Insert(g.symbols, pos, block...)
	return g.tes.add(pos, length), nil
}

func (g *ContiguousGenome) CopyTE(te, offset int) (int, bool) {
	src, ok := g.tes.get(te)
	if !ok {
		return 0, false
	}
	id, err := g.InsertTE(wrap(src.Start, offset, len(g.symbols)), src.Length)
	if err != nil {
		panic("genome: copy produced invalid insertion: " + err.Error())
	}
	return id, true
}

func (g *ContiguousGenome) DisableTE(te int) {
	span, ok := g.tes.get(te)
	if !ok {
		return
	}
	g.mark(span)
	g.tes.remove(te)
}

func (g *ContiguousGenome) ActiveTEs() []int { return g.tes.ids() }

func (g *ContiguousGenome) Span(te int) (TE, bool) { return g.tes.get(te) }

func (g *ContiguousGenome) Len() int { return len(g.symbols) }

func (g *ContiguousGenome) String() string {
	b := make([]byte, len(g.symbols))
	for i, s := range g.symbols {
		b[i] = s.Byte()
	}
	return string(b)
}

func (g *ContiguousGenome) mark(te TE) {
	for i := te.Start; i < te.End(); i++ {
		g.symbols[i] = Inactive
	}
}
