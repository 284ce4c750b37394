//go:build !sqlite

package core

import "fmt"

func newSQLiteRunStore(_ string) (RunStore, error) {
	return nil, fmt.Errorf("sqlite run store unavailable in this build; rebuild with -tags sqlite")
}
