package genome

// Symbol is a single genome position.
type Symbol byte

const (
	Gap      Symbol = '-'
	Active   Symbol = 'A'
	Inactive Symbol = 'x'
)

// Byte returns the character used to render the symbol.
func (s Symbol) Byte() byte { return byte(s) }

func (s Symbol) String() string { return string(rune(s)) }

// Valid reports whether s is one of the three genome symbols.
func (s Symbol) Valid() bool {
	switch s {
	case Gap, Active, Inactive:
		return true
	}
	return false
}
