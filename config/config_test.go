package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/readyweaver/emulator"
	"github.com/drblury/readyweaver/readiness"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvPath, "")
	t.Setenv(EnvLevel, "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	req, err := cfg.Request()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/helloHttp", req.URL)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, readiness.DefaultPolicy().Schedule(), policy.Schedule())

	_, ok, err := cfg.EmulatorCommand()
	require.NoError(t, err)
	assert.False(t, ok, "no command configured by default")
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "readyprobe.yaml")
	data := `
target:
  base_url: http://127.0.0.1:7071
  path: /api/helloHttp
retry:
  max_attempts: 5
  initial_interval: 50ms
  max_interval: 300ms
  attempt_timeout: 1s
  retry_on_status: true
command:
  name: func
  args: [start, --port, "7071"]
  env: [FUNCTIONS_WORKER_RUNTIME=custom]
  grace_period: 2s
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	req, err := cfg.Request()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7071/api/helloHttp", req.URL)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{
		50 * time.Millisecond,
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
	}, policy.Schedule())

	cmd, ok, err := cfg.EmulatorCommand()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, emulator.Command{
		Name:        "func",
		Args:        []string{"start", "--port", "7071"},
		Env:         []string{"FUNCTIONS_WORKER_RUNTIME=custom"},
		GracePeriod: 2 * time.Second,
	}, cmd)

	assert.Len(t, cfg.ProbeOptions(), 2)
	assert.Equal(t, "Hello world!", cfg.Expect.Body, "unset fields keep their defaults")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://emulator:9000")
	t.Setenv(EnvPath, "/readyz")
	t.Setenv(EnvLevel, "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://emulator:9000", cfg.Target.BaseURL)
	assert.Equal(t, "/readyz", cfg.Target.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "readyprobe.yaml")

	cfg := DefaultConfig()
	cfg.Retry.MaxAttempts = 3
	cfg.Command.Name = "hellofn"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target.BaseURL = "localhost"
	cfg.Retry.MaxAttempts = 0
	cfg.Retry.InitialInterval = "soon"
	cfg.Command.GracePeriod = "-1s"
	cfg.Log.Level = "verbose"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"must be absolute",
		"retry.max_attempts",
		"retry.initial_interval",
		"command.grace_period",
		"log.level",
		"log.format",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestPolicyInitialInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.MaxAttempts = 3

	cfg.Retry.InitialInterval = ""
	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{readiness.DefaultInitialInterval, 2 * readiness.DefaultInitialInterval}, policy.Schedule())

	cfg.Retry.InitialInterval = "0s"
	require.NoError(t, cfg.Validate())
	policy, err = cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{0, 0}, policy.Schedule(), "an explicit zero must not fall back to the default")
}

func TestPolicyErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.MaxAttempts = 0
	_, err := cfg.Policy()
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Retry.MaxInterval = "later"
	_, err = cfg.Policy()
	require.ErrorContains(t, err, "retry.max_interval")
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(buf)
	logger.Info("hidden")
	logger.Warn("shown", "attempt", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"attempt":2`)

	buf.Reset()
	LogConfig{Level: "nonsense"}.NewLogger(buf).Info("text")
	assert.Contains(t, buf.String(), "msg=text")
}
