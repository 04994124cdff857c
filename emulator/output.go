package emulator

import (
	"bytes"
	"io"
	"log/slog"
)

// lineLogger turns a child output stream into one log record per line and
// optionally copies the raw bytes to tee.
type lineLogger struct {
	logger *slog.Logger
	stream string
	tee    io.Writer
	buf    bytes.Buffer
}

func (l *lineLogger) Write(p []byte) (int, error) {
	if l.tee != nil {
		if _, err := l.tee.Write(p); err != nil {
			return 0, err
		}
	}

	l.buf.Write(p)
	for {
		idx := bytes.IndexByte(l.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(l.buf.Next(idx+1), "\r\n"))
		l.emit(line)
	}
	return len(p), nil
}

// flush logs a trailing line that was not newline terminated.
func (l *lineLogger) flush() {
	if l.buf.Len() == 0 {
		return
	}
	l.emit(string(bytes.TrimRight(l.buf.Bytes(), "\r\n")))
	l.buf.Reset()
}

func (l *lineLogger) emit(line string) {
	if line == "" {
		return
	}
	l.logger.Info("emulator output", "stream", l.stream, "line", line)
}
