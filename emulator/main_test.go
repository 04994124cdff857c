package emulator_test

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/drblury/readyweaver/funcserver"
	"github.com/drblury/readyweaver/functions/hello"
)

// helperModeEnv switches the test binary into one of the child process
// behaviours below instead of running the tests.
const helperModeEnv = "READYWEAVER_EMULATOR_HELPER"

func TestMain(m *testing.M) {
	switch os.Getenv(helperModeEnv) {
	case "":
		os.Exit(m.Run())
	case "serve":
		os.Exit(serveHello())
	case "ignore-term":
		signal.Ignore(syscall.SIGTERM)
		fmt.Println("ready")
		time.Sleep(time.Hour)
		os.Exit(0)
	case "fail":
		fmt.Println("partial output")
		fmt.Fprint(os.Stderr, "boom")
		os.Exit(3)
	default:
		fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", os.Getenv(helperModeEnv))
		os.Exit(2)
	}
}

// serveHello runs the function host on HELPER_ADDR after HELPER_DELAY, so the
// parent sees refused connections first.
func serveHello() int {
	if delay, err := time.ParseDuration(os.Getenv("HELPER_DELAY")); err == nil {
		time.Sleep(delay)
	}

	srv, err := funcserver.New(funcserver.WithFunction(hello.Name, hello.HelloHTTP))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()
	if err := srv.ListenAndServe(ctx, os.Getenv("HELPER_ADDR")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
