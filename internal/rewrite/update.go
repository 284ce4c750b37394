package rewrite

import (
	"bytes"
	"fmt"
	"os"
)

// RewriteFile runs edit over the lines of filename and writes the result back
// in place, keeping the file's permissions.
func RewriteFile(filename string, edit func(LineRewriter) error) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	rw := NewScannerRewriter(bytes.NewReader(content), BuildLineOffsets(content))
	if err := edit(rw); err != nil {
		return err
	}
	if err := rw.CopyRemainingLines(); err != nil {
		return fmt.Errorf("failed to copy %s: %w", filename, err)
	}

	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, rw.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
