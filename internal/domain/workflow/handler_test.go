package workflow

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/facility"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/auth"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/snapshot"
)

type testServer struct {
	echo     *echo.Echo
	engine   *Engine
	sessions *auth.Sessions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := staff.NewDirectory(nil)
	dir.Add(staff.NewStaff("MGR001", "Margaret Hill", "m@care.test", "0411000001", "mhill", "manager123", staff.RoleManager))
	nur := staff.NewStaff("NUR001", "Nadia Osman", "n@care.test", "0411000004", "nosman", "nurse123", staff.RoleNurse)
	for _, day := range staff.Days {
		if err := staff.AssignShift(nur, day, staff.SlotMorning); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	dir.Add(nur)

	engine := NewEngine(Deps{
		Facility: facility.DefaultDirectory(),
		Staff:    dir,
		Patients: patient.NewRegistry(),
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return monday10 },
	})

	sessions := auth.NewSessions("test-key", time.Hour)
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "state.json"))
	h := NewHandler(engine, sessions, store, nil, nil)

	e := echo.New()
	public := e.Group("/api/v1")
	api := e.Group("/api/v1", sessions.Middleware())
	h.RegisterRoutes(public, api)

	return &testServer{echo: e, engine: engine, sessions: sessions}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) token(t *testing.T, staffID, role string) string {
	t.Helper()
	token, err := ts.sessions.Issue(staffID, role)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return token
}

func TestHandler_Login(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "mhill", "password": "manager123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Staff struct {
			ID       string `json:"id"`
			Password string `json:"password"`
		} `json:"staff"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" || resp.Staff.ID != "MGR001" {
		t.Errorf("unexpected login response: %+v", resp)
	}
	if resp.Staff.Password != "" {
		t.Error("login response must not leak the password")
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "mhill", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", rec.Code)
	}
}

func TestHandler_RequiresSession(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.request(t, http.MethodGet, "/api/v1/patients", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandler_AdmitAndErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token(t, "MGR001", "Manager")
	nur := ts.token(t, "NUR001", "Nurse")

	admit := admitReq("PAT001", "F", "W1-R1-B1")

	// Nurse lacks add_patient: 403.
	rec := ts.request(t, http.MethodPost, "/api/v1/patients", nur, admit)
	if rec.Code != http.StatusForbidden {
		t.Errorf("nurse admit status = %d, want 403", rec.Code)
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/patients", mgr, admit)
	if rec.Code != http.StatusCreated {
		t.Fatalf("manager admit status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Same bed again: 409.
	rec = ts.request(t, http.MethodPost, "/api/v1/patients", mgr, admitReq("PAT002", "F", "W1-R1-B1"))
	if rec.Code != http.StatusConflict {
		t.Errorf("occupied bed status = %d, want 409", rec.Code)
	}

	// Malformed id: 422.
	rec = ts.request(t, http.MethodPost, "/api/v1/patients", mgr, admitReq("nope", "F", "W1-R2-B1"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad id status = %d, want 422", rec.Code)
	}

	// Unknown patient lookup: 404.
	rec = ts.request(t, http.MethodGet, "/api/v1/patients/PAT999", mgr, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown patient status = %d, want 404", rec.Code)
	}
}

func TestHandler_TransferAndDischarge(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token(t, "MGR001", "Manager")
	nur := ts.token(t, "NUR001", "Nurse")

	rec := ts.request(t, http.MethodPost, "/api/v1/patients", mgr, admitReq("PAT001", "F", "W1-R1-B1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("admit status = %d", rec.Code)
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/patients/PAT001/transfer", nur,
		map[string]string{"bed_id": "W1-R2-B1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/patients/PAT001/discharge", mgr,
		map[string]string{"reason": "Recovered"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("discharge status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.request(t, http.MethodGet, "/api/v1/patients/PAT001", mgr, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("discharged patient lookup status = %d, want 404", rec.Code)
	}
}

func TestHandler_Compliance(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token(t, "MGR001", "Manager")

	// NUR001 is fully rostered, so the week is compliant.
	rec := ts.request(t, http.MethodGet, "/api/v1/compliance", mgr, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("compliance status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Break it: clear a day.
	rec = ts.request(t, http.MethodDelete, "/api/v1/staff/NUR001/shifts/MON", mgr, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear day status = %d", rec.Code)
	}
	rec = ts.request(t, http.MethodGet, "/api/v1/compliance", mgr, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("non-compliant status = %d, want 409", rec.Code)
	}

	rec = ts.request(t, http.MethodGet, "/api/v1/compliance/report", mgr, nil)
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Errorf("report status = %d, empty=%v", rec.Code, rec.Body.Len() == 0)
	}
}

func TestHandler_ShiftAssignment(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token(t, "MGR001", "Manager")
	nur := ts.token(t, "NUR001", "Nurse")

	// Nurses cannot manage shifts.
	rec := ts.request(t, http.MethodPost, "/api/v1/staff/NUR001/shifts", nur,
		map[string]string{"day": "MON", "slot": staff.SlotEvening})
	if rec.Code != http.StatusForbidden {
		t.Errorf("nurse assign status = %d, want 403", rec.Code)
	}

	// Second shift on an assigned day conflicts.
	rec = ts.request(t, http.MethodPost, "/api/v1/staff/NUR001/shifts", mgr,
		map[string]string{"day": "MON", "slot": staff.SlotEvening})
	if rec.Code != http.StatusConflict {
		t.Errorf("double shift status = %d, want 409", rec.Code)
	}
}

func TestHandler_SnapshotAdminGate(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token(t, "MGR001", "Manager")
	nur := ts.token(t, "NUR001", "Nurse")

	rec := ts.request(t, http.MethodPost, "/api/v1/admin/snapshot", nur, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("nurse snapshot status = %d, want 403", rec.Code)
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/admin/snapshot", mgr, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager snapshot status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.request(t, http.MethodPost, "/api/v1/admin/snapshot/restore", mgr, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("restore status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_ArchiveUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token(t, "MGR001", "Manager")

	rec := ts.request(t, http.MethodGet, "/api/v1/archive/patients", mgr, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("archive list status = %d, want 503", rec.Code)
	}
	rec = ts.request(t, http.MethodGet, "/api/v1/audit/staff/MGR001", mgr, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("audit trail status = %d, want 503", rec.Code)
	}
}
