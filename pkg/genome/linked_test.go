package genome

import (
	"errors"
	"testing"
)

func TestLinkedGenomeRenumbersAfterSplice(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		pos    int
		length int
		want   string
	}{
		{"front", 5, 0, 2, "AA-----"},
		{"middle", 5, 3, 2, "---AA--"},
		{"end", 5, 5, 1, "-----A"},
		{"empty", 0, 0, 4, "AAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLinkedGenome(tt.n)
			if _, err := g.InsertTE(tt.pos, tt.length); err != nil {
				t.Fatalf("InsertTE: %v", err)
			}
			if err := g.Verify(); err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if got := g.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if g.nodes[g.anchor].pos != 0 {
				t.Fatalf("anchor holds position %d", g.nodes[g.anchor].pos)
			}
		})
	}
}

func TestLinkedGenomeFrontInsertMovesAnchor(t *testing.T) {
	g := NewLinkedGenome(3)
	old := g.anchor
	if _, err := g.InsertTE(0, 2); err != nil {
		t.Fatalf("InsertTE: %v", err)
	}
	if g.anchor == old {
		t.Fatal("anchor did not move to the new first node")
	}
	if g.nodes[old].pos != 2 {
		t.Fatalf("old anchor position = %d, want 2", g.nodes[old].pos)
	}
}

func TestLinkedGenomeVerifyDetectsBrokenNumbering(t *testing.T) {
	g := NewLinkedGenome(4)
	if _, err := g.InsertTE(2, 2); err != nil {
		t.Fatalf("InsertTE: %v", err)
	}
	tail := g.locate(5)
	g.nodes[tail].pos = 9

	if err := g.Verify(); !errors.Is(err, ErrCorruptChain) {
		t.Fatalf("Verify() = %v, want ErrCorruptChain", err)
	}
}

func TestLinkedGenomeLocatePanicsOnCorruption(t *testing.T) {
	g := NewLinkedGenome(4)
	g.nodes[2].pos = 7

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a position no node holds")
		}
	}()
	g.locate(2)
}

func TestLinkedGenomeVerifyDetectsOpenChain(t *testing.T) {
	g := NewLinkedGenome(4)
	g.nodes[3].next = 2

	if err := g.Verify(); !errors.Is(err, ErrCorruptChain) {
		t.Fatalf("Verify() = %v, want ErrCorruptChain", err)
	}
}
