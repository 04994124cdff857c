// Command hellofn hosts the helloHttp function locally.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drblury/readyweaver/config"
	"github.com/drblury/readyweaver/funcserver"
	"github.com/drblury/readyweaver/functions/hello"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hellofn: %v\n", err)
		os.Exit(1)
	}
}

// defaultPort follows the Functions Framework convention of honouring $PORT.
func defaultPort() int {
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		return port
	}
	return 8080
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var (
		host string
		port int
		logs config.LogConfig
	)

	cmd := &cobra.Command{
		Use:           "hellofn",
		Short:         "Serve the helloHttp function on a local port",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := funcserver.New(
				funcserver.WithLogger(logs.NewLogger(logOut)),
				funcserver.WithVersion(version),
				funcserver.WithFunction(hello.Name, hello.HelloHTTP),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), net.JoinHostPort(host, strconv.Itoa(port)))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Interface to listen on (default all)")
	cmd.Flags().IntVarP(&port, "port", "p", defaultPort(), "Port to listen on ($PORT)")
	cmd.Flags().StringVar(&logs.Level, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&logs.Format, "log-format", "text", "Log format: text, json")
	return cmd
}
