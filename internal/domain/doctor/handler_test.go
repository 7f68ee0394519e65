package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(NewService(newMockRepo()), time.UTC), echo.New()
}

func newRequest(method, target, body string, clinic uuid.UUID) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if clinic != uuid.Nil {
		req = req.WithContext(auth.WithClinicID(req.Context(), clinic))
	}
	return req
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T (%v)", err, err)
	}
	if httpErr.Code != code {
		t.Errorf("expected %d, got %d (%v)", code, httpErr.Code, httpErr.Message)
	}
}

const doctorBody = `{"name":"Dr. Paulo","specialty":"Pediatria","appointment_price_in_cents":20000,
	"available_from_week_day":1,"available_to_week_day":5,
	"available_from_time":"08:00:00","available_to_time":"12:00:00"}`

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodPost, "/", doctorBody, uuid.New()), rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var d Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Name != "Dr. Paulo" {
		t.Errorf("expected Dr. Paulo, got %s", d.Name)
	}
}

func TestHandler_Create_NoClinic(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(newRequest(http.MethodPost, "/", doctorBody, uuid.Nil), httptest.NewRecorder())
	assertHTTPCode(t, h.Create(c), http.StatusForbidden)
}

func TestHandler_Create_InvalidWindow(t *testing.T) {
	h, e := newTestHandler()
	body := strings.Replace(doctorBody, `"available_from_time":"08:00:00"`, `"available_from_time":"13:00:00"`, 1)
	c := e.NewContext(newRequest(http.MethodPost, "/", body, uuid.New()), httptest.NewRecorder())
	assertHTTPCode(t, h.Create(c), http.StatusBadRequest)
}

func TestHandler_Create_ValidationMessage(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(newRequest(http.MethodPost, "/", `{"specialty":"x"}`, uuid.New()), httptest.NewRecorder())

	err := h.Create(c)
	assertHTTPCode(t, err, http.StatusBadRequest)
	msg, _ := err.(*echo.HTTPError).Message.(string)
	if !strings.Contains(msg, "name is required") {
		t.Errorf("expected field message, got %q", msg)
	}
}

func TestHandler_Get_OtherClinic(t *testing.T) {
	h, e := newTestHandler()
	clinic := uuid.New()
	d, _ := h.svc.Create(newRequest(http.MethodGet, "/", "", clinic).Context(), clinic, validRequest())

	c := e.NewContext(newRequest(http.MethodGet, "/", "", uuid.New()), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	assertHTTPCode(t, h.Get(c), http.StatusNotFound)
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(newRequest(http.MethodGet, "/", "", uuid.New()), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	assertHTTPCode(t, h.Get(c), http.StatusBadRequest)
}

func TestHandler_List(t *testing.T) {
	h, e := newTestHandler()
	clinic := uuid.New()
	for _, name := range []string{"Zeca", "Ana"} {
		req := validRequest()
		req.Name = name
		h.svc.Create(newRequest(http.MethodGet, "/", "", clinic).Context(), clinic, req)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodGet, "/?limit=1", "", clinic), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data    []Doctor `json:"data"`
		Total   int      `json:"total"`
		HasMore bool     `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Data) != 1 || !resp.HasMore {
		t.Fatalf("unexpected page: %+v", resp)
	}
	if resp.Data[0].Name != "Ana" {
		t.Errorf("expected Ana first, got %s", resp.Data[0].Name)
	}
}

func TestHandler_Delete(t *testing.T) {
	h, e := newTestHandler()
	clinic := uuid.New()
	d, _ := h.svc.Create(newRequest(http.MethodGet, "/", "", clinic).Context(), clinic, validRequest())

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodDelete, "/", "", clinic), rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	c = e.NewContext(newRequest(http.MethodDelete, "/", "", clinic), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	assertHTTPCode(t, h.Delete(c), http.StatusNotFound)
}

func TestHandler_Availability(t *testing.T) {
	h, e := newTestHandler()
	clinic := uuid.New()
	d, _ := h.svc.Create(newRequest(http.MethodGet, "/", "", clinic).Context(), clinic, validRequest())

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodGet, "/?tz=UTC&date=2099-01-03", "", clinic), rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if err := h.Availability(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var view AvailabilityView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Summary.From != "09:00" || view.Summary.To != "17:00" {
		t.Errorf("expected 09:00-17:00, got %s-%s", view.Summary.From, view.Summary.To)
	}
	// 2099-01-03 is a Saturday.
	if view.DateAvailable == nil || *view.DateAvailable {
		t.Errorf("expected Saturday to be unavailable, got %v", view.DateAvailable)
	}
}

func TestHandler_Availability_BadTimezone(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(newRequest(http.MethodGet, "/?tz=Nowhere/City", "", uuid.New()), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	assertHTTPCode(t, h.Availability(c), http.StatusBadRequest)
}

func TestHandler_Create_UnregisteredClinic(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = createErr(&pgconn.PgError{Code: "23503"})
	h := NewHandler(NewService(repo), time.UTC)
	c := echo.New().NewContext(newRequest(http.MethodPost, "/", doctorBody, uuid.New()), httptest.NewRecorder())

	assertHTTPCode(t, h.Create(c), http.StatusNotFound)
}
