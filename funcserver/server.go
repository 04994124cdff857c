package funcserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/readyweaver/info"
	"github.com/drblury/readyweaver/probe"
	"github.com/drblury/readyweaver/responder"
	"github.com/drblury/readyweaver/router"
)

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
	defaultVersion           = "dev"
)

var (
	// ErrNoFunctions is returned by New when no function was registered.
	ErrNoFunctions = errors.New("funcserver: no functions registered")

	functionName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	reserved     = []string{"status", "healthz", "readyz", "version", "openapi.json"}
)

// Option configures a Server.
type Option func(*Server)

// Server hosts HTTP functions behind the shared router stack.
type Server struct {
	logger          *slog.Logger
	version         string
	shutdownTimeout time.Duration
	routerOpts      []router.Option

	names     []string
	functions map[string]http.HandlerFunc

	responder *responder.Responder
	info      *info.InfoHandler
	rawDoc    []byte
	doc       *openapi3.T
	handler   http.Handler
}

// WithFunction mounts fn at /name. Registering a name twice keeps the last handler.
func WithFunction(name string, fn http.HandlerFunc) Option {
	return func(s *Server) {
		if fn == nil {
			return
		}
		if _, ok := s.functions[name]; !ok {
			s.names = append(s.names, name)
		}
		s.functions[name] = fn
	}
}

// WithLogger sets the logger used by the router, the responder, and the server itself.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /version and the OpenAPI document.
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// WithShutdownTimeout bounds how long in-flight requests may take to drain.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithRouterOptions appends options passed to router.New after the defaults.
func WithRouterOptions(opts ...router.Option) Option {
	return func(s *Server) {
		s.routerOpts = append(s.routerOpts, opts...)
	}
}

// New validates the registered functions and assembles the handler stack.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger:          slog.Default(),
		version:         defaultVersion,
		shutdownTimeout: defaultShutdownTimeout,
		functions:       map[string]http.HandlerFunc{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if len(s.names) == 0 {
		return nil, ErrNoFunctions
	}
	for _, name := range s.names {
		if !functionName.MatchString(name) {
			return nil, fmt.Errorf("funcserver: invalid function name %q", name)
		}
		if slices.Contains(reserved, name) {
			return nil, fmt.Errorf("funcserver: function name %q is reserved", name)
		}
	}

	raw, doc, err := buildDocument(s.version, s.names)
	if err != nil {
		return nil, err
	}
	s.rawDoc = raw
	s.doc = doc

	s.responder = responder.NewResponder(responder.WithLogger(s.logger))
	s.info = info.NewInfoHandler(
		info.WithInfoResponder(s.responder),
		info.WithInfoProvider(s.versionInfo),
		info.WithOpenAPIProvider(s.OpenAPI),
		info.WithReadinessChecks(info.Check{
			Name:  "functions",
			Probe: probe.NewPingProbe("functions", s.checkFunctions),
		}),
	)

	mux := http.NewServeMux()
	s.info.Register(mux)
	for _, name := range s.names {
		mux.HandleFunc("/"+name, s.functions[name])
	}
	mux.HandleFunc("/", s.notFound)

	routerOpts := append([]router.Option{
		router.WithLogger(s.logger),
		router.WithDocument(doc),
		router.WithQuietRoutes("/healthz", "/readyz", "/status"),
	}, s.routerOpts...)
	s.handler = router.New(mux, routerOpts...)

	return s, nil
}

// Handler returns the fully wrapped handler, useful for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Functions returns the registered function names in registration order.
func (s *Server) Functions() []string {
	return slices.Clone(s.names)
}

// OpenAPI returns the generated OpenAPI document as JSON.
func (s *Server) OpenAPI() ([]byte, error) {
	return s.rawDoc, nil
}

// Document returns the parsed OpenAPI document the router validates against.
func (s *Server) Document() *openapi3.T {
	return s.doc
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("funcserver: listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if ctx == nil {
		ctx = context.Background()
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("function host listening", "addr", ln.Addr().String(), "functions", s.names)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("funcserver: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("function host shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("funcserver: shutdown: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) versionInfo() any {
	return map[string]any{
		"version":   s.version,
		"functions": s.names,
	}
}

func (s *Server) checkFunctions(context.Context) error {
	if len(s.functions) == 0 {
		return ErrNoFunctions
	}
	return nil
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.responder.WriteNotFound(w, r, fmt.Errorf("no function mounted at %s", r.URL.Path))
}
