package emulator

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineLogger(t *testing.T) {
	logs := &bytes.Buffer{}
	tee := &bytes.Buffer{}
	l := &lineLogger{
		logger: slog.New(slog.NewTextHandler(logs, nil)),
		stream: "stderr",
		tee:    tee,
	}

	n, err := l.Write([]byte("first\r\nsec"))
	require.NoError(t, err)
	assert.Equal(t, len("first\r\nsec"), n)
	_, err = l.Write([]byte("ond\n\nthird"))
	require.NoError(t, err)
	l.flush()
	l.flush()

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "line=first")
	assert.Contains(t, lines[1], "line=second")
	assert.Contains(t, lines[2], "line=third")
	assert.Contains(t, lines[0], "stream=stderr")
	assert.Equal(t, "first\r\nsecond\n\nthird", tee.String())
}

func TestCommandDefaults(t *testing.T) {
	c := Command{Name: "func", Args: []string{"start", "--port", "8080"}}
	assert.Equal(t, DefaultGracePeriod, c.gracePeriod())
	assert.Equal(t, "func start --port 8080", c.String())
	require.NoError(t, c.validate())

	c.GracePeriod = 0
	assert.Equal(t, DefaultGracePeriod, c.gracePeriod())
}
