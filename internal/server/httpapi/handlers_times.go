package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vibbra/hourglass/internal/server/services"
)

type TimeHandler struct {
	service *services.TimeService
}

func NewTimeHandler(service *services.TimeService) *TimeHandler {
	return &TimeHandler{service: service}
}

func (h *TimeHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	entry, err := h.service.Add(r.Context(), req.toModel(0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeResponse(entry))
}

func (h *TimeHandler) FindAllByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid project id"})
		return
	}

	entries, err := h.service.FindAllByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]timeResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toTimeResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TimeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "timeID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid time entry id"})
		return
	}

	var req timeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	entry, err := h.service.Update(r.Context(), req.toModel(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeResponse(entry))
}
