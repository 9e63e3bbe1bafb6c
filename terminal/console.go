// Package terminal wraps the process's console: progress lines go to an output
// writer, prompts read whole lines from an input reader, and diagnostics go to
// a [log.Logger].
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

type Console struct {
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger
	mux    sync.Mutex
}

const ruler = "*******************************************************************************************"

func New(in io.Reader, out io.Writer, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Console{in: bufio.NewReader(in), out: out, logger: logger}
}

func (c *Console) Write(p []byte) (n int, err error) {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.out.Write(p)
}

func (c *Console) Printf(format string, v ...any) {
	_, _ = fmt.Fprintf(c, format, v...)
}

func (c *Console) Println(v ...any) {
	_, _ = fmt.Fprintln(c, v...)
}

// Notice prints lines framed by rulers of asterisks.
func (c *Console) Notice(lines ...string) {
	var b strings.Builder

	b.WriteString(ruler)
	b.WriteRune('\n')

	for _, line := range lines {
		b.WriteString(line)
		b.WriteRune('\n')
	}

	b.WriteString(ruler)
	b.WriteRune('\n')

	_, _ = io.WriteString(c, b.String())
}

// ReadLine writes prompt and returns the next input line without surrounding
// whitespace. A final line without a newline is still returned; io.EOF is
// returned only when no input is left.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = io.WriteString(c, prompt)
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (c *Console) Logger() *log.Logger {
	return c.logger
}
