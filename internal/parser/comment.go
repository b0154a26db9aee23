package parser

import "regexp"

var commentRegex = regexp.MustCompile(`^\s*<!--\s*(.*?)\s*-->`)

// ExtractComment returns the trimmed inner text of a line that opens with an
// HTML comment. Only leading whitespace may precede the comment; whatever
// follows the closing marker is ignored.
func ExtractComment(line string) (string, bool) {
	matches := commentRegex.FindStringSubmatch(line)
	if matches == nil {
		return "", false
	}
	return matches[1], true
}
