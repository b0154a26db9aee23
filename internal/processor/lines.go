package processor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ReadLines yields the lines of r, each with its trailing newline. The last
// line comes without one when r does not end in a newline. A read error is
// yielded once and ends the sequence.
func ReadLines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				if !yield(line, nil) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", fmt.Errorf("reading input: %w", err))
				}
				return
			}
		}
	}
}

// Lines yields the given lines unchanged.
func Lines(lines []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for line, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, line)
	}
	return out, nil
}
