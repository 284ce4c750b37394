package rewrite

// LineRewriter copies a document forward line by line while letting the caller
// insert or replace whole lines along the way. Line indexes are 0-based and
// calls must move forward through the original document.
type LineRewriter interface {
	// CopyLinesUntil writes original lines [current..lineIndex-1] and leaves the
	// rewriter positioned at lineIndex.
	CopyLinesUntil(lineIndex int) error

	// InsertLines copies up to lineIndex and then writes newLines in front of it.
	InsertLines(lineIndex int, newLines [][]byte) error

	// ReplaceLines copies up to startLine, drops original lines
	// [startLine..endLine] and writes newLines in their place.
	ReplaceLines(startLine, endLine int, newLines [][]byte) error

	// CopyRemainingLines writes every original line not yet consumed.
	CopyRemainingLines() error

	// LineIndexOfByte maps a byte offset in the original document to its line.
	LineIndexOfByte(offset int) int

	// Bytes returns the rewritten document.
	Bytes() []byte
}
