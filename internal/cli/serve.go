package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dependents/pkg/dependents"
	"github.com/matzehuels/dependents/pkg/errors"
	"github.com/matzehuels/dependents/pkg/observability"
	"github.com/matzehuels/dependents/pkg/render"
)

// serveCommand creates the command that exposes reports over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		conn   connFlags
		addr   string
		limits serveLimits
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependent reports over HTTP",
		Long: `Serve dependent reports as JSON.

  GET /api/v1/dependents/{package}?depths=&recursive=&dev=&accumulate=&exclude=&number=
  GET /healthz

The package may carry a version (left-pad@1.3.0) and may be scoped.
Requests asking for more than --max-depth or --max-width are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conn.resolve()
			if err != nil {
				return err
			}
			if limits.depth < 0 || limits.width < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--max-depth and --max-width must not be negative")
			}
			logger := loggerFromContext(cmd.Context())
			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(newSources(cfg), logger, limits).routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(cmd.Context(), srv, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&limits.depth, "max-depth", defaultServeLimits.depth, "largest depths value a request may ask for")
	cmd.Flags().IntVar(&limits.width, "max-width", defaultServeLimits.width, "largest recursive value a request may ask for")
	conn.register(cmd)
	return cmd
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeNetwork, err, "serve %s", srv.Addr)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return ctx.Err()
}

// serveLimits bounds the tree a single request may build.
type serveLimits struct {
	depth int
	width int
}

var defaultServeLimits = serveLimits{depth: 3, width: 10}

// server answers report requests against a fixed pair of data sources.
type server struct {
	registry dependents.Registry
	graph    dependents.Graph
	logger   *log.Logger
	limits   serveLimits
}

func newServer(src sources, logger *log.Logger, limits serveLimits) *server {
	return &server{registry: src.registry, graph: src.graph, logger: logger, limits: limits}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api/v1", func(r chi.Router) {
		// Scoped names contain a slash, so the package is matched as a
		// wildcard rather than a single path segment.
		r.Get("/dependents/*", s.getDependents)
	})
	return r
}

func (s *server) getDependents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := dependents.ParseIdentifier(chi.URLParam(r, "*"))
	if id.Name == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "missing package name"))
		return
	}

	q := r.URL.Query()
	var err error
	var opts dependents.Options
	var view render.Options
	if opts.Depth, err = intParam(q.Get("depths")); err != nil {
		writeError(w, err)
		return
	}
	if opts.Width, err = intParam(q.Get("recursive")); err != nil {
		writeError(w, err)
		return
	}
	if view.Number, err = intParam(q.Get("number")); err != nil {
		writeError(w, err)
		return
	}
	if opts.Depth > s.limits.depth || opts.Width > s.limits.width {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"depths %d and recursive %d exceed the server limits (%d, %d)", opts.Depth, opts.Width, s.limits.depth, s.limits.width))
		return
	}
	opts.Dev = boolParam(q.Get("dev"))
	opts.Accumulate = boolParam(q.Get("accumulate"))
	opts.Exclude = dependents.ParseExclude(q.Get("exclude"))
	opts.Logger = s.logger.With("request", requestIDFrom(ctx))
	view.Exclude = opts.Exclude

	hooks := observability.Report()
	hooks.OnReportStart(ctx, id.String())
	start := time.Now()
	report, err := dependents.NewBuilder(s.registry, s.graph, opts).Build(ctx, id)
	if err != nil {
		hooks.OnReportComplete(ctx, id.String(), 0, time.Since(start), err)
		writeError(w, err)
		return
	}
	hooks.OnReportComplete(ctx, id.String(), dependents.Count(report.Dependents), time.Since(start), nil)

	w.Header().Set("Content-Type", "application/json")
	if err := render.JSON(w, report, view); err != nil {
		s.logger.Error("write response", "request", requestIDFrom(ctx), "err", err)
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "expected a non-negative integer, got %q", s)
	}
	return n, nil
}

func boolParam(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodePackageNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// requestID tags each request with a UUID, honoring an incoming
// X-Request-ID header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Millisecond),
			"request", requestIDFrom(r.Context()),
		)
	})
}
