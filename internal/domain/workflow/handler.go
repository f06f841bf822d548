package workflow

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/archive"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/audit"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/auth"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/snapshot"
	"github.com/Danial4119075/COSC1295-Healthcare-System/pkg/pagination"
)

// ArchiveReader serves the read side of the discharge archive.
type ArchiveReader interface {
	ListDischarged(ctx context.Context, limit, offset int) ([]archive.DischargedPatient, error)
	DischargeReport(ctx context.Context, patientID string) (*archive.DischargeSnapshot, error)
}

// AuditReader serves the per-staff audit trail.
type AuditReader interface {
	ListByStaff(ctx context.Context, staffID string, limit int) ([]audit.Record, error)
}

// Handler exposes the engine over HTTP. ArchiveRead and AuditRead are nil
// when the server runs without a database; their endpoints answer 503 then.
type Handler struct {
	engine      *Engine
	sessions    *auth.Sessions
	snapshots   *snapshot.Store
	archiveRead ArchiveReader
	auditRead   AuditReader
}

func NewHandler(engine *Engine, sessions *auth.Sessions, snapshots *snapshot.Store, archiveRead ArchiveReader, auditRead AuditReader) *Handler {
	return &Handler{
		engine:      engine,
		sessions:    sessions,
		snapshots:   snapshots,
		archiveRead: archiveRead,
		auditRead:   auditRead,
	}
}

// RegisterRoutes wires the public login route and the authenticated API.
// api must already carry the session middleware.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/auth/login", h.Login)

	api.GET("/facility/wards", h.ListWards)
	api.GET("/facility/beds/available", h.ListAvailableBeds)

	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.AdmitPatient)
	api.POST("/patients/:id/transfer", h.TransferPatient)
	api.POST("/patients/:id/discharge", h.DischargePatient)
	api.POST("/patients/:id/prescriptions", h.AddPrescription)
	api.POST("/patients/:id/medication-records", h.AdministerMedication)

	api.GET("/staff", h.ListStaff)
	api.GET("/staff/:id", h.GetStaff)
	api.POST("/staff", h.AddStaff)
	api.POST("/staff/:id/shifts", h.AssignShift)
	api.DELETE("/staff/:id/shifts/:day", h.ClearShiftDay)

	api.GET("/compliance", h.CheckCompliance)
	api.GET("/compliance/report", h.ComplianceReport)

	api.GET("/archive/patients", h.ListDischarged)
	api.GET("/archive/patients/:id/report", h.DischargeReport)
	api.GET("/audit/staff/:id", h.AuditTrail)

	admin := api.Group("/admin", auth.RequireRole(string(staff.RoleManager)))
	admin.POST("/snapshot", h.SaveSnapshot)
	admin.POST("/snapshot/restore", h.RestoreSnapshot)
}

// httpError maps domain error kinds to HTTP statuses. Unknown errors pass
// through for the recovery and logging middleware to report as 500.
func httpError(err error) error {
	var (
		authz  *AuthorizationError
		roster *RosterViolation
		occ    *OccupancyConflict
		gender *GenderSegregationViolation
		nf     *NotFoundError
		val    *ValidationError
		shift  *staff.ShiftAssignmentError
		comp   *staff.ComplianceViolation
	)
	switch {
	case errors.As(err, &authz):
		return echo.NewHTTPError(http.StatusForbidden, authz.Error())
	case errors.As(err, &roster):
		return echo.NewHTTPError(http.StatusForbidden, roster.Error())
	case errors.As(err, &occ):
		return echo.NewHTTPError(http.StatusConflict, occ.Error())
	case errors.As(err, &gender):
		return echo.NewHTTPError(http.StatusConflict, gender.Error())
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	case errors.As(err, &val):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, val.Error())
	case errors.As(err, &shift):
		return echo.NewHTTPError(http.StatusConflict, shift.Error())
	case errors.As(err, &comp):
		return echo.NewHTTPError(http.StatusConflict, comp.Error())
	}
	return err
}

// staffView is the staff record without its credentials.
type staffView struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Email  string                 `json:"email"`
	Phone  string                 `json:"phone"`
	Role   staff.Role             `json:"role"`
	Roster map[staff.Day][]string `json:"roster"`
}

func viewOf(s *staff.Staff) staffView {
	return staffView{ID: s.ID, Name: s.Name, Email: s.Email, Phone: s.Phone, Role: s.Role, Roster: s.Roster}
}

func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, ok := h.engine.Authenticate(req.Username, req.Password)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	token, err := h.sessions.Issue(s.ID, string(s.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"staff": viewOf(s),
	})
}

func (h *Handler) ListWards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Wards())
}

func (h *Handler) ListAvailableBeds(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.AvailableBeds())
}

func (h *Handler) ListPatients(c echo.Context) error {
	p := pagination.FromContext(c)
	all := h.engine.Patients()
	from, to := p.Slice(len(all))
	return c.JSON(http.StatusOK, pagination.NewResponse(all[from:to], len(all), p.Limit, p.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.engine.Patient(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) AdmitPatient(c echo.Context) error {
	var req AdmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.engine.AdmitPatient(c.Request().Context(), req, auth.StaffID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) TransferPatient(c echo.Context) error {
	var req struct {
		BedID string `json:"bed_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.engine.TransferPatient(c.Request().Context(), c.Param("id"), req.BedID, auth.StaffID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DischargePatient(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.engine.DischargePatient(c.Request().Context(), c.Param("id"), req.Reason, req.Notes, auth.StaffID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddPrescription(c echo.Context) error {
	var req struct {
		Notes       string               `json:"notes"`
		Medications []patient.Medication `json:"medications"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rx, err := h.engine.AddPrescription(c.Request().Context(), c.Param("id"), req.Notes, req.Medications, auth.StaffID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rx)
}

func (h *Handler) AdministerMedication(c echo.Context) error {
	var req struct {
		MedicationName string `json:"medication_name"`
		Dosage         string `json:"dosage"`
		Notes          string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.engine.AdministerMedication(c.Request().Context(), c.Param("id"),
		req.MedicationName, req.Dosage, req.Notes, auth.StaffID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListStaff(c echo.Context) error {
	p := pagination.FromContext(c)
	all := h.engine.StaffList()
	views := make([]staffView, 0, len(all))
	for _, s := range all {
		views = append(views, viewOf(s))
	}
	from, to := p.Slice(len(views))
	return c.JSON(http.StatusOK, pagination.NewResponse(views[from:to], len(views), p.Limit, p.Offset))
}

func (h *Handler) GetStaff(c echo.Context) error {
	s, err := h.engine.StaffMember(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, viewOf(s))
}

func (h *Handler) AddStaff(c echo.Context) error {
	var req AddStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, err := h.engine.AddStaff(c.Request().Context(), req, auth.StaffID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, viewOf(s))
}

func (h *Handler) AssignShift(c echo.Context) error {
	var req struct {
		Day  staff.Day `json:"day"`
		Slot string    `json:"slot"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.engine.AssignShift(c.Request().Context(), c.Param("id"), req.Day, req.Slot, auth.StaffID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearShiftDay(c echo.Context) error {
	day := staff.Day(c.Param("day"))
	if err := h.engine.ClearShiftDay(c.Request().Context(), c.Param("id"), day, auth.StaffID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CheckCompliance(c echo.Context) error {
	if err := h.engine.CheckCompliance(); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "compliant"})
}

func (h *Handler) ComplianceReport(c echo.Context) error {
	return c.String(http.StatusOK, h.engine.ComplianceReport())
}

func (h *Handler) ListDischarged(c echo.Context) error {
	if h.archiveRead == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "archive store not configured")
	}
	p := pagination.FromContext(c)
	out, err := h.archiveRead.ListDischarged(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DischargeReport(c echo.Context) error {
	if h.archiveRead == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "archive store not configured")
	}
	snap, err := h.archiveRead.DischargeReport(c.Request().Context(), c.Param("id"))
	if errors.Is(err, archive.ErrNotArchived) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) AuditTrail(c echo.Context) error {
	if h.auditRead == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "audit store not configured")
	}
	p := pagination.FromContext(c)
	out, err := h.auditRead.ListByStaff(c.Request().Context(), c.Param("id"), p.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) SaveSnapshot(c echo.Context) error {
	if h.snapshots == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "snapshot store not configured")
	}
	state := h.engine.Snapshot()
	if err := h.snapshots.Save(state); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"saved_at": state.SavedAt.Format(time.RFC3339),
		"patients": len(state.Patients),
		"staff":    len(state.Staff),
	})
}

func (h *Handler) RestoreSnapshot(c echo.Context) error {
	if h.snapshots == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "snapshot store not configured")
	}
	state, err := h.snapshots.Load()
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return echo.NewHTTPError(http.StatusNotFound, "no snapshot to restore")
	}
	if err != nil {
		return err
	}
	h.engine.Restore(state)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"restored_from": state.SavedAt.Format(time.RFC3339),
		"patients":      len(state.Patients),
		"staff":         len(state.Staff),
	})
}
