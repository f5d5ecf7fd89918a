// Package console is the terminal front end of the back-office: a line
// prompt, aligned tables and the interactive list screens.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal reads commands from in and writes screens to out. It answers
// confirmations and failure notices for the list controllers and tracks the
// route the gate redirects to.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	mu   sync.Mutex
	path string
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// ReadLine prints prompt and returns the next line without its newline.
// io.EOF is returned once input is exhausted.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		t.Printf("%s", prompt)
	}
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) Writer() io.Writer { return t.out }

// Confirm accepts y or yes. Anything else, end of input included, is a no.
func (t *Terminal) Confirm(ctx context.Context, prompt string) bool {
	if ctx.Err() != nil {
		return false
	}
	answer, err := t.ReadLine(prompt + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Notify blocks until the user acknowledges the message.
func (t *Terminal) Notify(message string) {
	t.Printf("! %s\n", message)
	_, _ = t.ReadLine("press enter to continue ")
}

func (t *Terminal) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Navigate records the route of the screen being opened.
func (t *Terminal) Navigate(path string) {
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
}

func (t *Terminal) Redirect(path string) {
	t.Navigate(path)
	t.Printf("\n-> %s\n", path)
}
