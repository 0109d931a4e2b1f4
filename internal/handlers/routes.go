package handlers

import (
	"github.com/crewclock/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// Services bundles the use-cases the HTTP layer depends on.
type Services struct {
	Employees  *services.EmployeeService
	Shifts     *services.ShiftService
	Onboarding *services.OnboardingService
	Payroll    *services.PayrollService
}

// Mount registers every application route on r.
func Mount(r chi.Router, svc Services, auth *AuthHandler) {
	r.Get("/healthz", Healthz)
	r.Get("/manifest.webmanifest", Manifest)
	AuthRouter(r, auth)

	home := NewHomeHandler(svc.Shifts)
	shifts := NewShiftHandler(svc.Shifts)
	onboarding := NewOnboardingHandler(svc.Onboarding, auth)
	admin := NewAdminHandler(svc.Employees, svc.Shifts, svc.Onboarding, svc.Payroll)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/", home.Home)
		OnboardingRouter(r, onboarding)
		r.With(RequireOnboarding).Group(func(r chi.Router) {
			ShiftRouter(r, shifts)
		})
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		AdminRouter(r, admin)
	})
}
