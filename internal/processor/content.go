package processor

import (
	"fmt"
	"iter"
	"os"
	"strings"

	"mdinline/internal/parser"
)

const fence = "```"

// Contents yields the replacement lines for an opening directive: the
// requested line range of its source file, wrapped in a fenced block when the
// directive is verbatim. The file is opened when iteration starts and closed
// when it ends, also when the consumer stops early.
//
// The last body line always ends in a newline so that the closing fence or
// marker that follows starts its own line.
func Contents(d *parser.Directive) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if d.Verbatim() {
			if !yield(fence+d.Lang()+"\n", nil) {
				return
			}
		}

		f, err := os.Open(d.Source())
		if err != nil {
			yield("", fmt.Errorf("opening %s: %w", d.Source(), err))
			return
		}
		defer f.Close()

		start := max(d.Start(), 1)
		if d.End() > 0 && d.End() < start {
			if d.Verbatim() {
				yield(fence+"\n", nil)
			}
			return
		}

		n := 0
		for line, err := range ReadLines(f) {
			if err != nil {
				yield("", fmt.Errorf("reading %s: %w", d.Source(), err))
				return
			}
			n++
			if n < start {
				continue
			}
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if !yield(line, nil) {
				return
			}
			if d.End() > 0 && n >= d.End() {
				break
			}
		}

		if d.Verbatim() {
			yield(fence+"\n", nil)
		}
	}
}
