package tagql

import (
	"fmt"
	"strings"
	"unicode"
)

// Variant selects the grammar dialect accepted by the parser.
type Variant struct {
	// UnicodeNames allows any Unicode letter or digit in names. When false
	// only ASCII letters and digits are name characters.
	UnicodeNames bool
	// Bookmarks enables {path} bookmark literals.
	Bookmarks bool
	// NotEqual enables the != comparison operator.
	NotEqual bool
}

var (
	// Basic is the ASCII-only dialect without bookmarks or !=.
	Basic = Variant{}
	// Extended is the full dialect.
	Extended = Variant{UnicodeNames: true, Bookmarks: true, NotEqual: true}
)

// ParseVariant returns the predefined variant with the given name.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "basic":
		return Basic, nil
	case "extended", "":
		return Extended, nil
	default:
		return Variant{}, fmt.Errorf("unknown grammar variant %q", name)
	}
}

func (v Variant) String() string {
	switch v {
	case Basic:
		return "basic"
	case Extended:
		return "extended"
	}
	return fmt.Sprintf("variant(unicode=%t,bookmarks=%t,neq=%t)", v.UnicodeNames, v.Bookmarks, v.NotEqual)
}

// isNameRune reports whether r may appear in a plain tag name.
func (v Variant) isNameRune(r rune) bool {
	switch {
	case r == ':' || r == '_' || r == '-':
		return true
	case r < 0x80:
		return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
	case v.UnicodeNames:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// isMetaRune reports whether r is a regex metacharacter taken verbatim
// inside tag tokens. Parentheses are handled as groups.
func isMetaRune(r rune) bool {
	switch r {
	case '.', '+', '*', '?', '^', '$', '[', ']', '{', '}', '|', '\\':
		return true
	}
	return false
}
