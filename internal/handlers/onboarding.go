package handlers

import (
	"errors"
	"net/http"

	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/crewclock/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// OnboardingHandler serves the starter form.
type OnboardingHandler struct {
	onboarding *services.OnboardingService
	auth       *AuthHandler
}

func NewOnboardingHandler(onboarding *services.OnboardingService, auth *AuthHandler) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, auth: auth}
}

// OnboardingRouter registers starter form routes. The router must already
// enforce authentication.
func OnboardingRouter(r chi.Router, handler *OnboardingHandler) {
	r.Get("/onboarding", handler.Form)
	r.Post("/onboarding", handler.Submit)
}

type OnboardingFormResponse struct {
	Completed bool                    `json:"completed"`
	Fields    []types.OnboardingField `json:"fields"`
	Record    *types.OnboardingRecord `json:"record,omitempty"`
}

type OnboardingSubmitResponse struct {
	Record   types.OnboardingRecord `json:"record"`
	Session  types.Session          `json:"session"`
	Redirect string                 `json:"redirect"`
}

// Form describes the starter form, prefilled with the caller's last
// submission when there is one.
func (h *OnboardingHandler) Form(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	resp := OnboardingFormResponse{
		Completed: session.OnboardingCompleted,
		Fields:    h.onboarding.Fields(),
	}

	record, err := h.onboarding.Get(r.Context(), session.Username)
	switch {
	case err == nil:
		resp.Record = &record
	case !errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusInternalServerError, "failed to load onboarding record")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Submit validates and stores the caller's starter form, then reissues the
// session so the completion flag takes effect.
func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	input, err := readInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	record, err := h.onboarding.Submit(r.Context(), session.Username, input)
	if err != nil {
		var validation *services.ValidationError
		if errors.As(err, &validation) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: validation.Error(), Missing: validation.Missing})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save onboarding record")
		return
	}

	session.OnboardingCompleted = true
	if err := h.auth.SetSession(w, session); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to refresh session")
		return
	}
	writeJSON(w, http.StatusOK, OnboardingSubmitResponse{Record: record, Session: session, Redirect: landingPage(session)})
}
