package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/readyweaver/probe"
	"github.com/drblury/readyweaver/readiness"
)

const defaultServerSelectionTimeout = 2 * time.Second

func newWaitCmd(a *app) *cobra.Command {
	var (
		flags    probeFlags
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Poll a target until it answers",
		Long: `Poll an HTTP endpoint with GET, or a MongoDB deployment with ping, until it
answers or the attempt budget is spent.`,
		Example: `  readyprobe wait --url http://localhost:8080/helloHttp --expect "Hello world!"
  readyprobe wait --mongo-uri mongodb://localhost:27017 --attempts 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd, a.cfg)
			if mongoURI != "" {
				if cmd.Flags().Changed("expect") {
					return errors.New("--expect cannot be combined with --mongo-uri")
				}
				return a.waitMongo(cmd.Context(), mongoURI, flags.json)
			}
			return a.waitHTTP(cmd.Context(), flags.json)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "Ping this MongoDB connection string instead of polling HTTP")
	return cmd
}

// waitHTTP polls the configured target and checks the expected body.
func (a *app) waitHTTP(ctx context.Context, asJSON bool) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	req, err := a.cfg.Request()
	if err != nil {
		return err
	}
	result, err := a.probeHTTP(ctx, req)
	return a.finish(req.URL, result, err, asJSON)
}

func (a *app) probeHTTP(ctx context.Context, req probe.Request) (readiness.Result, error) {
	policy, err := a.cfg.Policy()
	if err != nil {
		return readiness.Result{}, err
	}

	opts := append([]readiness.Option{readiness.WithLogger(a.logger)}, a.cfg.ProbeOptions()...)
	result := readiness.New(req, policy, opts...).Run(ctx)
	if !result.Succeeded() {
		return result, result.Err
	}
	if want := a.cfg.Expect.Body; want != "" {
		if err := readiness.ExpectBody(result.Body, want); err != nil {
			return result, err
		}
	}
	return result, nil
}

// waitMongo pings the deployment behind uri until it answers.
func (a *app) waitMongo(ctx context.Context, uri string, asJSON bool) error {
	policy, err := a.cfg.Policy()
	if err != nil {
		return err
	}

	selection := defaultServerSelectionTimeout
	if timeout, err := time.ParseDuration(a.cfg.Retry.AttemptTimeout); err == nil && timeout > 0 {
		selection = timeout
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(selection))
	if err != nil {
		return fmt.Errorf("mongo probe: failed to configure client: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			a.logger.Warn("failed to disconnect mongo client", "error", err)
		}
	}()

	target := redactURI(uri)
	attempt := probe.AsAttempt(target, probe.NewMongoPingProbe(client, nil))
	opts := append([]readiness.Option{readiness.WithLogger(a.logger)}, a.cfg.ProbeOptions()...)
	result := readiness.Poll(ctx, policy, attempt, opts...)
	return a.finish(target, result, result.Err, asJSON)
}

func (a *app) finish(target string, result readiness.Result, err error, asJSON bool) error {
	if result.RunID != "" {
		if writeErr := newReport(target, result, err).write(a.stdout, asJSON); writeErr != nil {
			a.logger.Error("failed to write report", "error", writeErr)
		}
	}
	return err
}

func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mongodb"
	}
	return u.Redacted()
}
