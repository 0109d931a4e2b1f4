package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ShiftHandler serves the clock-in/clock-out routes.
type ShiftHandler struct {
	shifts *services.ShiftService
}

func NewShiftHandler(shifts *services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

// ShiftRouter registers clock routes. The router must already enforce
// authentication and onboarding.
func ShiftRouter(r chi.Router, handler *ShiftHandler) {
	r.Get("/clock", handler.Status)
	r.Post("/clock", handler.Clock)
	r.Get("/shifts", handler.History)
}

type ClockRequest struct {
	Action string `json:"action"`
}

type ClockResponse struct {
	Action string            `json:"action"`
	Shift  types.Shift       `json:"shift"`
	Status types.ShiftStatus `json:"status"`
}

type ShiftListResponse struct {
	Items []types.Shift `json:"items"`
}

// Status reports whether the caller is clocked in.
func (h *ShiftHandler) Status(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	status, err := h.shifts.Status(r.Context(), session.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Clock performs a clock-in or clock-out for the caller.
func (h *ShiftHandler) Clock(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	input, err := readInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req := ClockRequest{Action: strings.ToLower(input["action"])}

	var shift types.Shift
	switch req.Action {
	case "in":
		shift, err = h.shifts.ClockIn(r.Context(), session)
	case "out":
		shift, err = h.shifts.ClockOut(r.Context(), session)
	default:
		writeError(w, http.StatusBadRequest, `action must be "in" or "out"`)
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyClockedIn):
			writeError(w, http.StatusConflict, "you are already clocked in")
		case errors.Is(err, services.ErrAlreadyClockedInToday):
			writeError(w, http.StatusConflict, "you have already clocked in today")
		case errors.Is(err, services.ErrNoActiveShift):
			writeError(w, http.StatusConflict, "you are not clocked in")
		default:
			writeError(w, http.StatusInternalServerError, "failed to record shift")
		}
		return
	}

	status, err := h.shifts.Status(r.Context(), session.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift status")
		return
	}
	writeJSON(w, http.StatusOK, ClockResponse{Action: req.Action, Shift: shift, Status: status})
}

// History lists the caller's shifts, most recent first.
func (h *ShiftHandler) History(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	shifts, err := h.shifts.History(r.Context(), session.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shifts")
		return
	}
	writeJSON(w, http.StatusOK, ShiftListResponse{Items: nonNil(shifts)})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
