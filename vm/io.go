package vm

import (
	"bufio"
	goIO "io"
	"sync"
)

// Console is the machine's byte-oriented view of the host terminal. Poll
// never blocks; ReadByte waits for the next byte and returns an error once
// input is exhausted.
type Console interface {
	Poller
	ReadByte() (byte, error)
	WriteByte(c byte) error
	Flush() error
}

type console struct {
	mu           sync.Mutex // guards stdoutWriter; a host may Flush from its own goroutine
	stdoutWriter *bufio.Writer
	keyBuffer    chan byte
}

// NewConsole starts reading in from a background goroutine. Bytes are handed
// over one at a time through keyBuffer so that a poll and a blocking read
// both consume from the same stream.
func NewConsole(in goIO.Reader, out goIO.Writer) Console {
	c := &console{
		stdoutWriter: bufio.NewWriter(out),
		keyBuffer:    make(chan byte, 1),
	}
	go c.readKeyboard(in)
	return c
}

func (c *console) readKeyboard(in goIO.Reader) {
	defer close(c.keyBuffer)

	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			c.keyBuffer <- b
		}
		if err != nil {
			return
		}
	}
}

func (c *console) Poll() (byte, bool) {
	select {
	case b, ok := <-c.keyBuffer:
		return b, ok
	default:
		return 0, false
	}
}

func (c *console) ReadByte() (byte, error) {
	// Output written so far (a prompt, say) has to be visible while we wait.
	// A failed flush is the writer's problem, not the reader's.
	_ = c.Flush()

	b, ok := <-c.keyBuffer
	if !ok {
		return 0, goIO.EOF
	}
	return b, nil
}

func (c *console) WriteByte(b byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stdoutWriter.WriteByte(b)
}

func (c *console) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stdoutWriter.Flush()
}
