package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"syscall"
	"time"
)

// Option follows the functional options pattern used by Start.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
	output io.Writer
}

// WithLogger injects the slog logger that receives lifecycle and output records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput copies the raw stdout and stderr of the process to w.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		s.output = w
	}
}

// Process is a started command. Stop must be called exactly once the caller
// is done with it; Run and StartT do that automatically.
type Process struct {
	command Command
	cmd     *exec.Cmd
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	stdout  *lineLogger
	stderr  *lineLogger

	done    chan struct{}
	waitErr error

	mu       sync.Mutex
	stopping bool
	stopOnce sync.Once
	stopErr  error
}

// Start launches c. The process is also terminated when ctx is done.
func Start(ctx context.Context, c Command, opts ...Option) (*Process, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := &settings{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	logger := s.logger.With("command", c.String())
	procCtx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(procCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Cancel = func() error {
		return terminate(cmd.Process)
	}
	cmd.WaitDelay = c.gracePeriod()

	var tee io.Writer
	if s.output != nil {
		tee = &syncWriter{w: s.output}
	}
	p := &Process{
		command: c,
		cmd:     cmd,
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		stdout:  &lineLogger{logger: logger, stream: "stdout", tee: tee},
		stderr:  &lineLogger{logger: logger, stream: "stderr", tee: tee},
		done:    make(chan struct{}),
	}
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("emulator: failed to start %s: %w", c, err)
	}
	logger.Info("emulator started", "pid", cmd.Process.Pid)

	go p.wait()
	return p, nil
}

func (p *Process) wait() {
	err := p.cmd.Wait()
	p.stdout.flush()
	p.stderr.flush()

	p.mu.Lock()
	stopping := p.stopping
	if (stopping || p.ctx.Err() != nil) && isContextErr(err) {
		// exec reports the cancellation even when the child exited cleanly.
		err = nil
	}
	p.waitErr = err
	p.mu.Unlock()

	switch {
	case stopping:
	case p.ctx.Err() != nil:
		p.logger.Info("emulator terminated by context", "error", err)
	default:
		p.logger.Warn("emulator exited on its own", "error", err)
	}
	close(p.done)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// PID returns the operating system process id.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Done is closed once the process has exited and its output is flushed.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns the exit error once Done is closed, nil before that.
func (p *Process) Err() error {
	select {
	case <-p.done:
	default:
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

// Stop terminates the process: SIGTERM first, SIGKILL once the grace period
// has passed. It blocks until the process is gone and is safe to call more
// than once. An exit caused by Stop or by the start context is not reported
// as an error; a process that had already exited on its own reports its exit
// error.
func (p *Process) Stop() error {
	p.stopOnce.Do(func() {
		p.stopErr = p.stop()
	})
	return p.stopErr
}

func (p *Process) stop() error {
	select {
	case <-p.done:
		cancelled := p.ctx.Err() != nil
		p.cancel()
		if err := p.Err(); err != nil && !cancelled {
			return fmt.Errorf("emulator: %s exited before stop: %w", p.command, err)
		}
		return nil
	default:
	}

	p.mu.Lock()
	p.stopping = true
	p.mu.Unlock()

	start := time.Now()
	p.logger.Info("stopping emulator", "pid", p.PID(), "gracePeriod", p.command.gracePeriod())
	p.cancel()
	<-p.done

	elapsed := time.Since(start)
	if elapsed >= p.command.gracePeriod() {
		p.logger.Warn("emulator ignored termination and was killed", "pid", p.PID(), "elapsed", elapsed)
	} else {
		p.logger.Info("emulator stopped", "pid", p.PID(), "elapsed", elapsed)
	}
	return nil
}

// Run starts c, hands the process to fn, and stops the process on every exit
// path, including a panic in fn.
func Run(ctx context.Context, c Command, fn func(*Process) error, opts ...Option) (err error) {
	p, err := Start(ctx, c, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := p.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}()
	return fn(p)
}

func terminate(proc *os.Process) error {
	if proc == nil {
		return os.ErrProcessDone
	}
	if runtime.GOOS == "windows" {
		return proc.Kill()
	}
	return proc.Signal(syscall.SIGTERM)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
