package tagql

import (
	"strings"
)

// Tag is one named label of an item, optionally carrying a value.
type Tag struct {
	Name     string
	Value    string
	HasValue bool
}

// NewTag returns a tag without a value.
func NewTag(name string) Tag {
	return Tag{Name: name}
}

// NewValueTag returns a tag with a value.
func NewValueTag(name, value string) Tag {
	return Tag{Name: name, Value: value, HasValue: true}
}

func (t Tag) String() string {
	if !t.HasValue {
		return t.Name
	}
	return t.Name + "=" + t.Value
}

// TagSet is the tags of one item. Order is preserved as given.
type TagSet []Tag

// String renders the set as a comma separated list of name[=value] pairs,
// the format accepted by ParseTagList.
func (ts TagSet) String() string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// Lookup returns the first tag with the given name.
func (ts TagSet) Lookup(name string) (Tag, bool) {
	for _, t := range ts {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// Clone returns a copy of the set that shares no storage with ts.
func (ts TagSet) Clone() TagSet {
	if ts == nil {
		return nil
	}
	out := make(TagSet, len(ts))
	copy(out, ts)
	return out
}

// ParseTagList parses a comma separated list of name[=value] pairs using
// Unicode name characters. Spaces are allowed around separators. An empty
// string yields an empty set.
func ParseTagList(input string) (TagSet, error) {
	return Extended.ParseTagList(input)
}

// ParseTagList parses a tag list using the name characters of v.
func (v Variant) ParseTagList(input string) (TagSet, error) {
	l := NewLexer(input, v)
	tags := TagSet{}
	if l.AtEOF() {
		return tags, nil
	}
	for {
		name, err := l.nextName()
		if err != nil {
			return nil, err
		}
		tag := Tag{Name: name}

		sep := l.skipSpace(l.pos)
		if sep < len(input) && input[sep] == '=' {
			l.pos = sep + 1
			value, err := l.nextName()
			if err != nil {
				return nil, err
			}
			tag.Value, tag.HasValue = value, true
			sep = l.skipSpace(l.pos)
		}
		tags = append(tags, tag)

		switch {
		case sep == len(input):
			return tags, nil
		case input[sep] == ',':
			l.pos = sep + 1
		default:
			_, size := l.runeAt(sep)
			return nil, syntaxErrorf(ErrTrailingInput, sep, "expected ',' but found %q", input[sep:sep+size])
		}
	}
}

// nextName scans a plain name (no regex characters) after optional spaces.
func (l *Lexer) nextName() (string, error) {
	pos := l.skipSpace(l.pos)
	end := l.word(pos)
	if end == pos {
		r, size := l.runeAt(pos)
		if r == eof {
			return "", syntaxErrorf(ErrUnexpectedEOF, pos, "expected tag name or value")
		}
		return "", syntaxErrorf(ErrUnexpectedCharacter, pos, "unexpected %q", l.input[pos:pos+size])
	}
	l.pos = end
	return l.input[pos:end], nil
}
