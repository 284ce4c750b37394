package rewrite

import (
	"bufio"
	"bytes"
	"io"
	"sort"
)

// maxLineSize bounds a single line. Rendered genomes can be far longer than
// bufio's 64KB default.
const maxLineSize = 16 << 20

// ScannerRewriter implements LineRewriter using bufio.Scanner.
type ScannerRewriter struct {
	scanner     *bufio.Scanner
	output      bytes.Buffer
	lineNo      int   // lines consumed so far
	finished    bool  // true once EOF was reached
	lineOffsets []int // byte offset where each line begins
}

// NewScannerRewriter constructs a ScannerRewriter over the full document,
// plus the line-start offsets produced by BuildLineOffsets.
func NewScannerRewriter(r io.Reader, lineOffsets []int) *ScannerRewriter {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ScannerRewriter{
		scanner:     scanner,
		lineOffsets: lineOffsets,
	}
}

func (rw *ScannerRewriter) CopyLinesUntil(lineIndex int) error {
	for !rw.finished && rw.lineNo < lineIndex {
		if !rw.scanner.Scan() {
			rw.finished = true
			return rw.scanner.Err()
		}
		rw.writeLine(rw.scanner.Bytes())
		rw.lineNo++
	}
	return rw.scanner.Err()
}

func (rw *ScannerRewriter) InsertLines(lineIndex int, newLines [][]byte) error {
	if err := rw.CopyLinesUntil(lineIndex); err != nil {
		return err
	}
	for _, nl := range newLines {
		rw.writeLine(nl)
	}
	return nil
}

func (rw *ScannerRewriter) ReplaceLines(startLine, endLine int, newLines [][]byte) error {
	if err := rw.CopyLinesUntil(startLine); err != nil {
		return err
	}
	for i := startLine; i <= endLine && !rw.finished; i++ {
		if !rw.scanner.Scan() {
			rw.finished = true
			if err := rw.scanner.Err(); err != nil {
				return err
			}
			break
		}
		rw.lineNo++
	}
	for _, nl := range newLines {
		rw.writeLine(nl)
	}
	return nil
}

func (rw *ScannerRewriter) CopyRemainingLines() error {
	if rw.finished {
		return nil
	}
	for rw.scanner.Scan() {
		rw.writeLine(rw.scanner.Bytes())
		rw.lineNo++
	}
	rw.finished = true
	return rw.scanner.Err()
}

func (rw *ScannerRewriter) LineIndexOfByte(offset int) int {
	return LineIndex(rw.lineOffsets, offset)
}

func (rw *ScannerRewriter) Bytes() []byte {
	return rw.output.Bytes()
}

func (rw *ScannerRewriter) writeLine(line []byte) {
	rw.output.Write(line)
	rw.output.WriteByte('\n')
}

// BuildLineOffsets returns the byte offset at which every line of content begins.
// E.g. if content[0]=='a' and content[5]=='\n', then offsets = [0,6,...].
func BuildLineOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// LineIndex maps a byte offset to its 0-based line using offsets from
// BuildLineOffsets.
func LineIndex(offsets []int, offset int) int {
	i := sort.Search(len(offsets), func(i int) bool {
		return offsets[i] > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}
