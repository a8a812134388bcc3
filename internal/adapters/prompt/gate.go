// Package prompt implements the interactive yes/no confirmation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxReadFailures bounds retries after read errors that are not end of input.
const maxReadFailures = 3

// Gate implements ports.Confirmer over a line-oriented reader.
type Gate struct {
	in     *bufio.Reader
	out    io.Writer
	logger ports.Logger
}

// New creates a Gate reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer, log ports.Logger) *Gate {
	return &Gate{in: bufio.NewReader(in), out: out, logger: log}
}

// Confirm asks prompt until the answer is y, yes, n, no or empty.
// Answers are case-insensitive and empty means no. End of input means no.
func (g *Gate) Confirm(prompt string) bool {
	failures := 0
	for {
		_, _ = fmt.Fprintf(g.out, "%s [y/N]: ", prompt)

		line, err := g.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				_, _ = fmt.Fprintln(g.out)
				return false
			}
			failures++
			g.logger.Error(zerr.Wrap(err, "failed to read answer"))
			if failures >= maxReadFailures {
				return false
			}
			continue
		}

		if answer, ok := parseAnswer(line); ok {
			return answer
		}
		_, _ = fmt.Fprintf(g.out, "unrecognized answer %q, please enter y or n\n", strings.TrimSpace(line))
	}
}

func parseAnswer(line string) (yes, ok bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, true
	case "", "n", "no":
		return false, true
	default:
		return false, false
	}
}

// Always implements ports.Confirmer by answering every prompt with a fixed value.
type Always bool

// Confirm returns the fixed answer.
func (a Always) Confirm(string) bool { return bool(a) }
