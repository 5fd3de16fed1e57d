package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/platform/obs"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
)

// maxBodyBytes bounds upload and query bodies.
const maxBodyBytes = 8 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// allowMethod writes a 405 and returns false unless r uses one of methods.
func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// statusFor maps planning errors to HTTP status codes.
func statusFor(err error) int {
	var (
		unknown      *domain.UnknownLocationError
		noRoute      *domain.NoRouteFoundError
		noVehicles   *domain.NoVehiclesAvailableError
		insufficient *domain.InsufficientCapacityError
		objective    *domain.InvalidObjectiveError
		input        *domain.InvalidInputError
		waypoints    *domain.TooManyWaypointsError
	)
	switch {
	case errors.Is(err, domain.ErrNetworkNotLoaded), errors.Is(err, domain.ErrFleetNotLoaded):
		return http.StatusConflict
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &noRoute), errors.As(err, &noVehicles), errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.As(err, &objective), errors.As(err, &input), errors.As(err, &waypoints):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
