package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newRewriter(content string) *ScannerRewriter {
	return NewScannerRewriter(strings.NewReader(content), BuildLineOffsets([]byte(content)))
}

func TestScannerRewriterInsertAndReplace(t *testing.T) {
	rw := newRewriter("a\nb\nc\nd\n")

	if err := rw.InsertLines(1, [][]byte{[]byte("a2")}); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if err := rw.ReplaceLines(2, 2, [][]byte{[]byte("C")}); err != nil {
		t.Fatalf("ReplaceLines: %v", err)
	}
	if err := rw.CopyRemainingLines(); err != nil {
		t.Fatalf("CopyRemainingLines: %v", err)
	}

	want := "a\na2\nb\nC\nd\n"
	if got := string(rw.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScannerRewriterAppendAtEOF(t *testing.T) {
	rw := newRewriter("only")
	if err := rw.InsertLines(5, [][]byte{[]byte("tail")}); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if got := string(rw.Bytes()); got != "only\ntail\n" {
		t.Errorf("got %q", got)
	}
}

func TestLineIndexOfByte(t *testing.T) {
	rw := newRewriter("ab\ncd\n\nef")
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{6, 2},
		{7, 3},
		{8, 3},
	}
	for _, tt := range tests {
		if got := rw.LineIndexOfByte(tt.offset); got != tt.want {
			t.Errorf("LineIndexOfByte(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestRewriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := RewriteFile(path, func(rw LineRewriter) error {
		return rw.ReplaceLines(1, 1, [][]byte{[]byte("TWO"), []byte("two and a half")})
	})
	if err != nil {
		t.Fatalf("RewriteFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "one\nTWO\ntwo and a half\nthree\n" {
		t.Errorf("got %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}
