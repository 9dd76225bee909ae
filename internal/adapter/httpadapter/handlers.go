package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/shelter-nav/internal/adapter/shelters"
	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/navigation"
)

// errBadRequest marks malformed query parameters or bodies.
var errBadRequest = errors.New("bad request")

type injectRequest struct {
	Category string `json:"category"`
	Urgent   bool   `json:"urgent"`
}

func (s *Server) handleShelters(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Shelters == nil {
		s.writeError(w, domain.ErrNoShelters)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, shelters.FeatureCollection(s.deps.Shelters.Shelters()))
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	if s.deps.Shelters == nil {
		s.writeError(w, domain.ErrNoShelters)
		return
	}
	user, err := s.position(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	nearest, err := s.deps.Shelters.Nearest(user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, nearest)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if s.deps.Shelters == nil {
		s.writeError(w, domain.ErrNoShelters)
		return
	}
	user, err := s.position(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	index := -1
	if v := q.Get("shelter"); v != "" {
		index, err = strconv.Atoi(v)
		if err != nil || index < 0 {
			s.writeError(w, fmt.Errorf("%w: shelter must be a non-negative integer", errBadRequest))
			return
		}
	}

	profile := s.deps.DefaultProfile
	if v := q.Get("profile"); v != "" {
		profile, err = domain.ParseProfile(v)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
	}

	plan, err := s.deps.Shelters.Navigate(r.Context(), user, index, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, plan)
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Map == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "map view not configured"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.deps.Map.FeatureCollection())
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if s.deps.Alerts == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "alerts not configured"})
		return
	}
	buf := s.deps.Alerts.Buffer()
	if v := r.URL.Query().Get("category"); v != "" {
		category, err := domain.ParseCategory(v)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, buf.Category(category))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, buf.Snapshot())
}

func (s *Server) handleAlertStatus(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Alerts == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "alerts not configured"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.deps.Alerts.Status())
}

// handleInject publishes one canned alert, or one of every kind when the
// body is empty.
func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	if s.deps.Alerts == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "alerts not configured"})
		return
	}

	var req injectRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			sharedobs.WriteJSON(w, http.StatusCreated, s.deps.Alerts.InjectAll(r.Context()))
			return
		}
		s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, s.deps.Alerts.Inject(r.Context(), category, req.Urgent))
}

// position reads lon/lat from the query, falling back to the configured
// position source when both are absent.
func (s *Server) position(r *http.Request) (domain.Coordinate, error) {
	q := r.URL.Query()
	lonStr, latStr := q.Get("lon"), q.Get("lat")
	if lonStr == "" && latStr == "" {
		if s.deps.Position == nil {
			return domain.Coordinate{}, domain.ErrSensorUnavailable
		}
		c, err := s.deps.Position.CurrentPosition(r.Context())
		if err != nil {
			return domain.Coordinate{}, fmt.Errorf("%w: %w", domain.ErrSensorUnavailable, err)
		}
		return c, nil
	}

	lon, errLon := strconv.ParseFloat(lonStr, 64)
	lat, errLat := strconv.ParseFloat(latStr, 64)
	if errLon != nil || errLat != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: lon and lat must both be numbers", errBadRequest)
	}
	c := domain.Coordinate{Lon: lon, Lat: lat}
	if !c.Valid() {
		return domain.Coordinate{}, fmt.Errorf("%w: coordinate out of range", errBadRequest)
	}
	return c, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := domain.UserMessage(err)
	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, domain.ErrSensorUnavailable):
		status = http.StatusBadRequest
	case errors.Is(err, navigation.ErrUnknownShelter):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, domain.ErrNoShelters):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
