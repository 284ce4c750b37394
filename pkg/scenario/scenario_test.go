package scenario

import "testing"

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Op{Kind: OpSize, Args: []int{10}}, "size 10"},
		{Op{Kind: OpInsert, Args: []int{2, 3}}, "insert 2 3"},
		{Op{Kind: OpCopy, Args: []int{1, -4}}, "copy 1 -4"},
		{Op{Kind: OpExpect, Text: "--AA-"}, "expect --AA-"},
		{Op{Kind: OpExpect}, "expect"},
		{Op{Kind: OpExpectActive}, "expect-active none"},
		{Op{Kind: OpExpectActive, Args: []int{1, 3}}, "expect-active 1 3"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFingerprintIgnoresLayout(t *testing.T) {
	a := Scenario{Name: "a", Ops: []Op{{Kind: OpSize, Args: []int{4}, Line: 2, Indent: "- "}}}
	b := Scenario{Name: "b", Ops: []Op{{Kind: OpSize, Args: []int{4}, Line: 9, Indent: "  * "}}}
	c := Scenario{Name: "a", Ops: []Op{{Kind: OpSize, Args: []int{5}}}}

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint depends on layout")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("fingerprint ignores arguments")
	}
}

func TestMutatingSteps(t *testing.T) {
	s := Scenario{Ops: []Op{
		{Kind: OpSize}, {Kind: OpInsert}, {Kind: OpExpect}, {Kind: OpDisable}, {Kind: OpExpectLength},
	}}
	if got := s.MutatingSteps(); got != 3 {
		t.Fatalf("MutatingSteps() = %d, want 3", got)
	}
}
