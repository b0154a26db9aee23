package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Kind tells opening and closing directives apart
type Kind int

const (
	Opening Kind = iota + 1
	Closing
)

func (k Kind) String() string {
	switch k {
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	tagInline = "inline"
	tagPython = "python"
)

var openingRegex = regexp.MustCompile(`^<(inline|python)\s`)

// Directive is one validated inline marker. It cannot be changed once built.
//
// Start and End are 1-based inclusive line bounds into the source file; zero
// means the bound was not given.
type Directive struct {
	kind       Kind
	lineNumber int
	line       string
	source     string
	verbatim   bool
	lang       string
	start      int
	end        int
}

func (d *Directive) Kind() Kind { return d.kind }
func (d *Directive) LineNumber() int { return d.lineNumber }
func (d *Directive) Line() string { return d.line }
func (d *Directive) Source() string { return d.source }
func (d *Directive) Verbatim() bool { return d.verbatim }
func (d *Directive) Lang() string { return d.lang }
func (d *Directive) Start() int { return d.start }
func (d *Directive) End() int { return d.end }
func (d *Directive) IsOpening() bool { return d.kind == Opening }
func (d *Directive) IsClosing() bool { return d.kind == Closing }

// ParseLine looks for a directive in line. It returns nil and no error when
// the line is ordinary text. Relative src paths are resolved against baseDir
// when it is not empty.
func ParseLine(line string, lineNumber int, baseDir string) (*Directive, error) {
	text, ok := ExtractComment(line)
	if !ok {
		return nil, nil
	}

	if openingRegex.MatchString(text) {
		tag, err := ParseTag(text)
		if err != nil {
			return nil, &DirectiveError{LineNumber: lineNumber, Line: line, Msg: err.Error(), Err: err}
		}
		return NewOpening(tag, line, lineNumber, baseDir)
	}

	if text == "</"+tagInline+">" || text == "</"+tagPython+">" {
		return NewClosing(line, lineNumber), nil
	}
	return nil, nil
}

// NewClosing builds a closing directive.
func NewClosing(line string, lineNumber int) *Directive {
	return &Directive{kind: Closing, line: line, lineNumber: lineNumber}
}

// NewOpening validates tag and builds an opening directive from it. The
// source file must exist and be readable now; it is checked here rather than
// when the contents are generated.
func NewOpening(tag Tag, line string, lineNumber int, baseDir string) (*Directive, error) {
	d := &Directive{kind: Opening, line: line, lineNumber: lineNumber}

	src, ok := tag.Get("src")
	if !ok {
		return nil, d.errorf(ErrMissingSource, "Attribute 'src' not set for %s directive", tag.Name)
	}
	if !src.HasValue || src.Value == "" {
		return nil, d.errorf(ErrInvalidSource, "Attribute 'src' of %s directive has no value", tag.Name)
	}

	switch tag.Name {
	case tagPython:
		d.verbatim = true
		d.lang = tagPython
	case tagInline:
		// lang implies verbatim
		d.verbatim = tag.Has("verbatim") || tag.Has("lang")
		if lang, ok := tag.Get("lang"); ok {
			d.lang = lang.Value
		}
	default:
		return nil, d.errorf(ErrMalformedTag, "Unknown directive <%s>", tag.Name)
	}

	d.source = src.Value
	if baseDir != "" && !filepath.IsAbs(d.source) {
		d.source = filepath.Join(baseDir, d.source)
	}
	if err := d.checkSource(); err != nil {
		return nil, err
	}

	var err error
	if d.start, err = d.bound(tag, "start"); err != nil {
		return nil, err
	}
	if d.end, err = d.bound(tag, "end"); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directive) checkSource() error {
	info, err := os.Stat(d.source)
	if errors.Is(err, fs.ErrNotExist) {
		return d.errorf(ErrSourceNotFound, "File %s not found", d.source)
	}
	if err != nil {
		return d.wrap(ErrSourceUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return d.errorf(ErrSourceUnreadable, "File %s is not a regular file", d.source)
	}

	f, err := os.Open(d.source)
	if err != nil {
		return d.wrap(ErrSourceUnreadable, err)
	}
	if err := f.Close(); err != nil {
		return d.wrap(ErrSourceUnreadable, err)
	}
	return nil
}

func (d *Directive) bound(tag Tag, name string) (int, error) {
	attr, ok := tag.Get(name)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	if err != nil || n < 1 {
		return 0, d.errorf(ErrInvalidBound, "Invalid value %s for %s attribute", attr.Value, name)
	}
	return n, nil
}

func (d *Directive) errorf(err error, format string, args ...any) *DirectiveError {
	return NewDirectiveError(err, d.line, d.lineNumber, format, args...)
}

func (d *Directive) wrap(sentinel, err error) *DirectiveError {
	return &DirectiveError{
		LineNumber: d.lineNumber,
		Line:       d.line,
		Msg:        err.Error(),
		Err:        fmt.Errorf("%w: %w", sentinel, err),
	}
}
