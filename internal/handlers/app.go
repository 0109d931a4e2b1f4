package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/types"
)

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type webManifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
}

// Manifest serves the web app manifest used when the app is installed on
// a phone home screen.
func Manifest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(webManifest{
		Name:            "CrewClock",
		ShortName:       "CrewClock",
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#f59e0b",
	})
}

// HomeHandler serves the landing route of a signed-in user.
type HomeHandler struct {
	shifts *services.ShiftService
}

func NewHomeHandler(shifts *services.ShiftService) *HomeHandler {
	return &HomeHandler{shifts: shifts}
}

type HomeResponse struct {
	Session  types.Session      `json:"session"`
	Status   *types.ShiftStatus `json:"status,omitempty"`
	Redirect string             `json:"redirect"`
}

// Home returns the session and, for onboarded employees, their shift state.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	resp := HomeResponse{Session: session, Redirect: landingPage(session)}
	if session.OnboardingCompleted || session.IsAdmin() {
		status, err := h.shifts.Status(r.Context(), session.Username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load shift status")
			return
		}
		resp.Status = &status
	}
	writeJSON(w, http.StatusOK, resp)
}
