package parser

import (
	"fmt"
	"html"
	"strings"
)

// Attr is one attribute of a directive tag. HasValue is false for bare flags
// such as verbatim.
type Attr struct {
	Name     string
	Value    string
	HasValue bool
}

// Tag is a single parsed opening tag.
type Tag struct {
	Name  string
	Attrs []Attr
}

// Get returns the named attribute. When an attribute is repeated the last one wins.
func (t Tag) Get(name string) (Attr, bool) {
	for i := len(t.Attrs) - 1; i >= 0; i-- {
		if t.Attrs[i].Name == name {
			return t.Attrs[i], true
		}
	}
	return Attr{}, false
}

// Has reports whether the named attribute is present, with or without a value.
func (t Tag) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// ParseTag parses s as exactly one opening tag: a name followed by
// attributes, closed by '>' (or '/>'). Values may be double-quoted,
// single-quoted or bare. Names are lowercased and character references in
// values are unescaped. Anything other than whitespace after the tag is an
// error.
func ParseTag(s string) (Tag, error) {
	var tag Tag

	if !strings.HasPrefix(s, "<") {
		return tag, fmt.Errorf("%w: expected '<'", ErrMalformedTag)
	}
	i := 1
	start := i
	for i < len(s) && isTagNameByte(s[i]) {
		i++
	}
	if i == start {
		return tag, fmt.Errorf("%w: missing tag name", ErrMalformedTag)
	}
	tag.Name = strings.ToLower(s[start:i])

	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return tag, fmt.Errorf("%w: unterminated <%s> tag", ErrMalformedTag, tag.Name)
		}

		switch s[i] {
		case '>':
			if rest := strings.TrimSpace(s[i+1:]); rest != "" {
				return tag, fmt.Errorf("%w: unexpected %q after <%s> tag", ErrMalformedTag, rest, tag.Name)
			}
			return tag, nil
		case '/':
			if i+1 < len(s) && s[i+1] == '>' {
				i++
				continue
			}
			return tag, fmt.Errorf("%w: unexpected '/' in <%s> tag", ErrMalformedTag, tag.Name)
		}

		attr, next, err := parseAttr(s, i)
		if err != nil {
			return tag, fmt.Errorf("%w in <%s> tag", err, tag.Name)
		}
		tag.Attrs = append(tag.Attrs, attr)
		i = next
	}
}

func parseAttr(s string, i int) (Attr, int, error) {
	var attr Attr

	start := i
	for i < len(s) && !isSpace(s[i]) && !strings.ContainsRune(`=>/"'<`, rune(s[i])) {
		i++
	}
	if i == start {
		return attr, i, fmt.Errorf("%w: unexpected %q", ErrMalformedTag, s[i])
	}
	attr.Name = strings.ToLower(s[start:i])

	i = skipSpace(s, i)
	if i >= len(s) || s[i] != '=' {
		return attr, i, nil
	}
	i = skipSpace(s, i+1)
	if i >= len(s) {
		return attr, i, fmt.Errorf("%w: missing value for %s", ErrMalformedTag, attr.Name)
	}

	switch quote := s[i]; quote {
	case '"', '\'':
		end := strings.IndexByte(s[i+1:], quote)
		if end < 0 {
			return attr, i, fmt.Errorf("%w: unterminated value for %s", ErrMalformedTag, attr.Name)
		}
		attr.Value = html.UnescapeString(s[i+1 : i+1+end])
		attr.HasValue = true
		return attr, i + end + 2, nil
	default:
		start = i
		for i < len(s) && !isSpace(s[i]) && s[i] != '>' {
			i++
		}
		if i == start {
			return attr, i, fmt.Errorf("%w: missing value for %s", ErrMalformedTag, attr.Name)
		}
		attr.Value = html.UnescapeString(s[start:i])
		attr.HasValue = true
		return attr, i, nil
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':'
}
