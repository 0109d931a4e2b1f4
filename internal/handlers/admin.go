package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/internal/storage"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/crewclock/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the admin review and payroll routes.
type AdminHandler struct {
	employees  *services.EmployeeService
	shifts     *services.ShiftService
	onboarding *services.OnboardingService
	payroll    *services.PayrollService
}

func NewAdminHandler(
	employees *services.EmployeeService,
	shifts *services.ShiftService,
	onboarding *services.OnboardingService,
	payroll *services.PayrollService,
) *AdminHandler {
	return &AdminHandler{
		employees:  employees,
		shifts:     shifts,
		onboarding: onboarding,
		payroll:    payroll,
	}
}

// AdminRouter registers admin routes. The router must already enforce the
// admin role.
func AdminRouter(r chi.Router, handler *AdminHandler) {
	r.Get("/employees", handler.ListEmployees)
	r.Route("/employees/{username}", func(r chi.Router) {
		r.Get("/", handler.GetEmployee)
		r.Get("/shifts", handler.ListEmployeeShifts)
	})
	r.Get("/onboarding", handler.ListOnboarding)
	r.Get("/onboarding/{username}", handler.GetOnboarding)
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/export", handler.ExportPayroll)
		r.Post("/reports", handler.CreatePayrollReport)
		r.Get("/reports/{reportID}", handler.GetPayrollReport)
		r.Get("/reports/{reportID}/file", handler.DownloadPayrollReport)
	})
}

type EmployeeListResponse struct {
	Items []types.Employee `json:"items"`
}

type EmployeeDetailResponse struct {
	Employee types.Employee    `json:"employee"`
	Status   types.ShiftStatus `json:"status"`
}

type OnboardingListResponse struct {
	Items []types.OnboardingRecord `json:"items"`
}

type PayrollRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ListEmployees returns employees matching ?q=.
func (h *AdminHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	writeJSON(w, http.StatusOK, EmployeeListResponse{Items: nonNil(employees)})
}

// GetEmployee returns one employee and their shift status.
func (h *AdminHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	employee, err := h.employees.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	status, err := h.shifts.Status(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift status")
		return
	}
	writeJSON(w, http.StatusOK, EmployeeDetailResponse{Employee: employee, Status: status})
}

func (h *AdminHandler) ListEmployeeShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shifts.History(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shifts")
		return
	}
	writeJSON(w, http.StatusOK, ShiftListResponse{Items: nonNil(shifts)})
}

// ListOnboarding returns starter forms matching ?q=.
func (h *AdminHandler) ListOnboarding(w http.ResponseWriter, r *http.Request) {
	records, err := h.onboarding.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list onboarding records")
		return
	}
	writeJSON(w, http.StatusOK, OnboardingListResponse{Items: nonNil(records)})
}

func (h *AdminHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	record, err := h.onboarding.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "onboarding record not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load onboarding record")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ExportPayroll renders the ?from=&to= summary as a workbook without
// recording it.
func (h *AdminHandler) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	report, err := h.payroll.Summarize(r.Context(), from, to)
	if err != nil {
		writePayrollError(w, err)
		return
	}
	data, err := services.Workbook(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s-%s.xlsx"`, from, to))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// CreatePayrollReport records a report for the requested period.
func (h *AdminHandler) CreatePayrollReport(w http.ResponseWriter, r *http.Request) {
	input, err := readInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req := PayrollRequest{From: input["from"], To: input["to"]}

	report, err := h.payroll.Generate(r.Context(), req.From, req.To)
	if err != nil {
		writePayrollError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *AdminHandler) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payroll.Get(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		writePayrollError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DownloadPayrollReport streams an archived workbook.
func (h *AdminHandler) DownloadPayrollReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	file, err := h.payroll.OpenArchive(r.Context(), reportID)
	if err != nil {
		writePayrollError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.xlsx"`, reportID))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, file)
}

func writePayrollError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates with from <= to")
	case errors.Is(err, services.ErrNoClosedShifts):
		writeError(w, http.StatusUnprocessableEntity, "no closed shifts in period")
	case errors.Is(err, store.ErrNotFound), errors.Is(err, storage.ErrObjectNotFound):
		writeError(w, http.StatusNotFound, "payroll report not found")
	case errors.Is(err, services.ErrArchiveDisabled):
		writeError(w, http.StatusNotFound, "payroll archive is not configured")
	default:
		writeError(w, http.StatusInternalServerError, "failed to process payroll report")
	}
}
