package processor

import (
	"io"
	"iter"

	"mdinline/internal/parser"

	"github.com/charmbracelet/log"
)

// Options configures a Processor.
type Options struct {
	// Clean leaves directive bodies empty instead of filling them.
	Clean bool
	// BaseDir resolves relative src paths. Empty means the working directory.
	BaseDir string
	// Logger receives debug output about directives. Nil discards it.
	Logger *log.Logger
}

// Processor runs the directive state machine over a stream of lines. It holds
// no per-scan state, so one Processor may run several scans at once.
type Processor struct {
	clean   bool
	baseDir string
	logger  *log.Logger
}

// New creates a new Processor instance
func New(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Processor{
		clean:   opts.Clean,
		baseDir: opts.BaseDir,
		logger:  logger,
	}
}

// Process yields the input with every directive body replaced: by the
// directive's contents, or by nothing in clean mode. Lines between an
// opening and closing marker are dropped, so processing its own output again
// gives the same result.
//
// The first error ends the sequence. A closing marker with no open directive
// is copied through like any other line.
func (p *Processor) Process(input iter.Seq2[string, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var current *parser.Directive
		lineNumber := 0
		count := 0

		for line, err := range input {
			if err != nil {
				yield("", err)
				return
			}
			lineNumber++

			if current == nil {
				if !yield(line, nil) {
					return
				}
			}

			d, err := parser.ParseLine(line, lineNumber, p.baseDir)
			if err != nil {
				yield("", err)
				return
			}
			if d == nil {
				continue
			}

			switch d.Kind() {
			case parser.Opening:
				if current != nil {
					yield("", parser.NewDirectiveError(parser.ErrNested, line, lineNumber,
						"New directive found while previous is still open at line %d", current.LineNumber()))
					return
				}
				current = d
				count++
				p.logger.Debug("opening directive",
					"line", d.LineNumber(), "src", d.Source(), "verbatim", d.Verbatim(),
					"lang", d.Lang(), "start", d.Start(), "end", d.End())

				if p.clean {
					continue
				}
				for content, err := range Contents(d) {
					if err != nil {
						yield("", err)
						return
					}
					if !yield(content, nil) {
						return
					}
				}

			case parser.Closing:
				if current == nil {
					// TODO: decide whether an unmatched closing marker should be an error.
					p.logger.Debug("closing directive without opening", "line", lineNumber)
					continue
				}
				p.logger.Debug("closing directive", "line", lineNumber, "opened", current.LineNumber())
				if !yield(line, nil) {
					return
				}
				current = nil
			}
		}

		if current != nil {
			yield("", parser.NewDirectiveError(parser.ErrNotClosed, current.Line(), current.LineNumber(),
				"Directive not closed at end of file"))
			return
		}
		p.logger.Debug("scan complete", "lines", lineNumber, "directives", count, "clean", p.clean)
	}
}

// Check runs the state machine over input without materializing any content
// and returns the first directive error.
func (p *Processor) Check(input iter.Seq2[string, error]) error {
	checker := *p
	checker.clean = true
	for _, err := range checker.Process(input) {
		if err != nil {
			return err
		}
	}
	return nil
}

// Write processes input and writes the result to w. It returns the number of
// bytes written.
func (p *Processor) Write(w io.Writer, input iter.Seq2[string, error]) (int64, error) {
	var written int64
	for line, err := range p.Process(input) {
		if err != nil {
			return written, err
		}
		n, err := io.WriteString(w, line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
