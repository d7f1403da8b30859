package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
)

type fieldUpdateRequest struct {
	Value *int `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionFor(w, r).Snapshot())
}

func (h *Handler) handlePutField(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)

	var req fieldUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"value\": <integer>}"})
		return
	}

	f, err := assessment.ParseField(mux.Vars(r)["field"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Update(f, *req.Value); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	err := s.Submit(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s.Snapshot())
	case errors.Is(err, session.ErrAbandoned):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "submission superseded"})
	default:
		writeJSON(w, http.StatusBadGateway, s.Snapshot())
	}
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	s.Reset()
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// handleDerive computes BMI and BP category for a posted profile without
// touching any session. Missing fields take their default values.
func (h *Handler) handleDerive(w http.ResponseWriter, r *http.Request) {
	profile := assessment.DefaultProfile()
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid profile"})
		return
	}
	if err := profile.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, assessment.Derive(profile))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Warn("Failed to encode response")
	}
}
