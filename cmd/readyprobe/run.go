package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drblury/readyweaver/emulator"
	"github.com/drblury/readyweaver/readiness"
)

func newRunCmd(a *app) *cobra.Command {
	var flags probeFlags

	cmd := &cobra.Command{
		Use:   "run [flags] [-- command [args...]]",
		Short: "Start a function host, wait for it, and stop it again",
		Long: `Start the configured command (or the one given after --), poll the target
until it answers, check the body, and stop the process. The process is
stopped on every path, including a failed check or an interrupt.`,
		Example: `  readyprobe run --config readyprobe.yaml
  readyprobe run --url http://localhost:8080/helloHttp --expect "Hello world!" -- hellofn --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)
			if len(args) > 0 {
				a.cfg.Command.Name = args[0]
				a.cfg.Command.Args = args[1:]
			}
			return a.run(cmd.Context(), flags.json)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) run(ctx context.Context, asJSON bool) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	command, ok, err := a.cfg.EmulatorCommand()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no command configured: set command.name or pass it after --")
	}
	req, err := a.cfg.Request()
	if err != nil {
		return err
	}

	var (
		result   readiness.Result
		probeErr error
	)
	err = emulator.Run(ctx, command, func(p *emulator.Process) error {
		probeCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-p.Done():
				cancel()
			case <-probeCtx.Done():
			}
		}()

		result, probeErr = a.probeHTTP(probeCtx, req)
		if probeErr != nil && ctx.Err() == nil {
			select {
			case <-p.Done():
				probeErr = fmt.Errorf("%s exited before it became ready: %w", command, probeErr)
			default:
			}
		}
		return probeErr
	}, emulator.WithLogger(a.logger))

	return a.finish(req.URL, result, err, asJSON)
}
