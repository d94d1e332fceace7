// Package prompt reads single-line answers from an interactive terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultWidth aligns answers after "Current file name: ".
const DefaultWidth = 19

// ErrInputClosed is returned when the input ends before an answer is read.
var ErrInputClosed = errors.New("input closed")

// Prompter writes a question and reads the answer line.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	width int
}

// New creates a Prompter reading from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		width: DefaultWidth,
	}
}

// Ask prints question, padded to the prompt width, and returns the next input
// line without its line terminator. A final line without a newline is still
// returned; an input that is already exhausted yields ErrInputClosed.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%-*s", p.width, question+" "); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}

	return strings.TrimRight(line, "\r\n"), nil
}
