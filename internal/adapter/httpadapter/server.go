package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/shelter-nav/internal/alert"
	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/navigation"
)

// ShelterService answers shelter and route queries.
type ShelterService interface {
	Shelters() []domain.Shelter
	Nearest(user domain.Coordinate) (navigation.Nearest, error)
	Navigate(ctx context.Context, user domain.Coordinate, index int, profile domain.Profile) (navigation.Plan, error)
}

// AlertService exposes the alert buffer and the injection path.
type AlertService interface {
	Buffer() *alert.Buffer
	Status() []alert.SourceStatus
	Inject(ctx context.Context, category domain.Category, urgent bool) domain.AlertRecord
	InjectAll(ctx context.Context) []domain.AlertRecord
}

// MapView renders the current map contents.
type MapView interface {
	FeatureCollection() *geojson.FeatureCollection
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Shelters ShelterService
	Alerts   AlertService
	Map      MapView
	// Position is used when a request carries no lon/lat. May be nil.
	Position       domain.PositionSource
	DefaultProfile domain.Profile
}

// Server exposes health, readiness, metrics and the shelter/alert API.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	if deps.DefaultProfile == "" {
		deps.DefaultProfile = domain.ProfileDriving
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/shelters", s.handleShelters)
	mux.HandleFunc("GET /api/nearest", s.handleNearest)
	mux.HandleFunc("GET /api/route", s.handleRoute)
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/alerts/status", s.handleAlertStatus)
	mux.HandleFunc("POST /api/alerts/inject", s.handleInject)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
