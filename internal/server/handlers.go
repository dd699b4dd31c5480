package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/recommend"
)

const maxRequestBody = 1 << 20 // 1 MiB

type apiError struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg, RequestID: RequestIDFromContext(r.Context())})
}

// errorStatus maps engine errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidCoordinate),
		errors.Is(err, model.ErrInvalidParameter),
		errors.Is(err, model.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"features": s.set.Total(),
	})
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	counts := s.set.Counts()
	payload := make(map[string]int, len(counts))
	for layer, n := range counts {
		payload[string(layer)] = n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"layers": payload,
		"total":  s.set.Total(),
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, r, http.StatusBadRequest, "invalid request: "+verrs[0].Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return
	}

	resp, err := s.engine.Recommend(r.Context(), req)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			zap.L().Error("server: recommend failed",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.Error(err))
			writeError(w, r, status, "internal error")
			return
		}
		writeError(w, r, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
