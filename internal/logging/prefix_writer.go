package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each line. It is used
// to indent streamed tool output under the log lines that started it.
type PrefixWriter struct {
	prefix []byte
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write buffers data until a newline is seen, then writes each complete line
// with the prefix.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.buffer.Write(p)
	for {
		data := pw.buffer.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if err := pw.emit(data[:i+1]); err != nil {
			return 0, err
		}
		pw.buffer.Next(i + 1)
	}
	return len(p), nil
}

// Flush writes any buffered partial line.
func (pw *PrefixWriter) Flush() error {
	if pw.buffer.Len() == 0 {
		return nil
	}
	line := append(pw.buffer.Bytes(), '\n')
	pw.buffer.Reset()
	return pw.emit(line)
}

func (pw *PrefixWriter) emit(line []byte) error {
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(line)
	return err
}
