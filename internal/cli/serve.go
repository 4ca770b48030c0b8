package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	vwerrors "github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/observability"
	"github.com/matzehuels/versionwatch/pkg/versions"
)

const (
	headerRequestID = "X-Request-ID"
	maxRequestBody  = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts           engineOptions
		addr           string
		allowSnapshots bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve update checks over HTTP",
		Long: `Serve starts an HTTP API backed by the configured rule set, repositories
and metadata cache:

  GET  /healthz
  GET  /v1/stats
  GET  /v1/rules/{groupId:artifactId}
  GET  /v1/versions/{groupId:artifactId}?plugin=true&snapshots=true
  POST /v1/updates   {"dependencies": [...], "plugins": [...]}

Every response carries an X-Request-ID header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			eng, err := c.newEngine(ctx, opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			if addr == "" {
				addr = c.cfg().Server.Addr
			}
			api := newServer(eng.helper, logger, allowSnapshots || c.cfg().AllowSnapshots)
			api.stats = observability.NewCounters()
			observability.SetResolverHooks(api.stats)
			observability.SetCacheHooks(api.stats)
			defer observability.Reset()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listenAndServe(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.RulesURI, "rules", "", "rule set URI (file path, classpath:/name, http(s)://...)")
	cmd.Flags().BoolVar(&allowSnapshots, "allow-snapshots", false, "report snapshot versions as updates by default")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable the metadata cache")

	return cmd
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down.
func listenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// server exposes a Helper over HTTP.
type server struct {
	helper         *versions.Helper
	logger         *log.Logger
	allowSnapshots bool
	stats          *observability.Counters
}

func newServer(h *versions.Helper, logger *log.Logger, allowSnapshots bool) *server {
	return &server{helper: h, logger: logger, allowSnapshots: allowSnapshots}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, middleware.RealIP, middleware.Recoverer, s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rules/{coordinate}", s.handleRule)
		r.Get("/versions/{coordinate}", s.handleVersions)
		r.Post("/updates", s.handleUpdates)
		if s.stats != nil {
			r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
				respondJSON(w, http.StatusOK, s.stats.Snapshot())
			})
		}
	})

	return r
}

// ---- middleware ----

// requestID keeps a caller-supplied X-Request-ID or assigns a new UUID.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := withRequestID(withLogger(r.Context(), s.logger), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		loggerFromContext(r.Context()).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// ---- handlers ----

func (s *server) handleRule(w http.ResponseWriter, r *http.Request) {
	coord, err := parseCoordinate(chi.URLParam(r, "coordinate"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, describeRule(s.helper, coord))
}

func (s *server) handleVersions(w http.ResponseWriter, r *http.Request) {
	coord, err := parseCoordinate(chi.URLParam(r, "coordinate"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	plugin, err := queryBool(r, "plugin", false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snapshots, err := queryBool(r, "snapshots", s.allowSnapshots)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.helper.LookupArtifactVersions(r.Context(), coord, plugin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newVersionsInfo(view.WithSnapshots(snapshots)))
}

type updatesRequest struct {
	Dependencies   []versions.Dependency `json:"dependencies"`
	Plugins        []versions.Plugin     `json:"plugins"`
	AllowSnapshots *bool                 `json:"allow_snapshots,omitempty"`
}

func (s *server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	var req updatesRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, vwerrors.Wrap(vwerrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}
	for _, d := range req.Dependencies {
		if d.GroupID == "" || d.ArtifactID == "" {
			writeError(w, r, vwerrors.New(vwerrors.ErrCodeInvalidInput, "dependency %q needs groupId and artifactId", d.String()))
			return
		}
	}
	for _, p := range req.Plugins {
		if p.GroupID == "" || p.ArtifactID == "" {
			writeError(w, r, vwerrors.New(vwerrors.ErrCodeInvalidInput, "plugin %q needs groupId and artifactId", p.String()))
			return
		}
	}

	allowSnapshots := s.allowSnapshots
	if req.AllowSnapshots != nil {
		allowSnapshots = *req.AllowSnapshots
	}

	ctx := r.Context()
	deps, err := s.helper.LookupDependenciesUpdates(ctx, req.Dependencies, allowSnapshots, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	plugins, err := s.helper.LookupPluginsUpdates(ctx, req.Plugins, allowSnapshots)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newReport("", deps, plugins))
}

// ---- responses ----

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := vwerrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	if code == "" {
		code = vwerrors.ErrCodeInternal
	}
	respondJSON(w, status, errorResponse{
		Error:     http.StatusText(status),
		Message:   vwerrors.UserMessage(err),
		Code:      string(code),
		RequestID: requestIDFromContext(r.Context()),
	})
}

func statusFor(code vwerrors.Code) int {
	switch code {
	case vwerrors.ErrCodeInvalidInput, vwerrors.ErrCodeInvalidCoordinate:
		return http.StatusBadRequest
	case vwerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case vwerrors.ErrCodeMetadataRetrieval, vwerrors.ErrCodeBatchFailed, vwerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case vwerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, vwerrors.New(vwerrors.ErrCodeInvalidInput, "query parameter %s must be a boolean", name)
	}
	return v, nil
}
