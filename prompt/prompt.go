// Package prompt reads credentials interactively: visible text for
// usernames, no-echo input for secrets.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter supplies credential strings on demand.
type Prompter interface {
	// Text prompts for a visible line of input.
	Text(label string) (string, error)
	// Secret prompts for a line of input without echoing it.
	Secret(label string) (string, error)
}

var _ Prompter = (*Terminal)(nil)

// Terminal prompts on an interactive terminal. When the input is not a
// terminal (pipes, notebooks), Secret warns and falls back to visible
// input instead of failing.
type Terminal struct {
	in  *os.File
	out io.Writer

	reader *bufio.Reader
}

// NewTerminal returns a prompter reading from stdin and writing prompts
// to stderr.
func NewTerminal() *Terminal {
	return NewTerminalWith(os.Stdin, os.Stderr)
}

// NewTerminalWith returns a prompter on the provided streams.
func NewTerminalWith(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (t *Terminal) Text(label string) (string, error) {
	fmt.Fprint(t.out, label)

	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Secret(label string) (string, error) {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(t.out, "warning: secure prompt unavailable, input will be visible")
		return t.Text(label)
	}

	fmt.Fprint(t.out, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}
