package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/config"
	"github.com/BruksfildServices01/carelink/internal/handlers"
	"github.com/BruksfildServices01/carelink/internal/models"
	"github.com/BruksfildServices01/carelink/internal/routes"
	"github.com/BruksfildServices01/carelink/internal/testutil"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	audit  *audit.Dispatcher
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
		Clinic:    config.ClinicConfig{Name: "CareLink Hospital", Timezone: "UTC"},
		Booking:   config.BookingConfig{TimeSlots: config.DefaultTimeSlots, CancelledBlocksSlot: true},
		Payment:   config.PaymentConfig{Provider: "offline", Currency: "INR"},
	}

	dispatcher := audit.NewDispatcher(audit.New(db), zerolog.Nop())
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Dependencies{
		DB:     db,
		Config: cfg,
		Log:    zerolog.Nop(),
		Audit:  dispatcher,
	})

	hash, err := handlers.HashPassword("s3cret!")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AdminUser{Name: "Admin", Email: "admin@carelink.health", PasswordHash: hash, Role: "admin"}).Error)

	s := &testServer{t: t, db: db, router: r, audit: dispatcher}

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@carelink.health", "password": "s3cret!"}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	s.token = login.Token

	return s
}

func (s *testServer) do(method, path string, body any, admin bool) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// nextBookableDate is tomorrow, or Monday when tomorrow is a Sunday.
func nextBookableDate() string {
	d := time.Now().UTC().AddDate(0, 0, 1)
	if d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func (s *testServer) createDoctor(name string, fee float64) models.Doctor {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/doctors", map[string]any{
		"name":             name,
		"specialty":        "General Medicine",
		"bio":              "Experienced physician",
		"availability":     []string{"Monday", "Wednesday"},
		"consultation_fee": fee,
	}, true)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Doctor](s.t, w)
}

func booking(doctorID, date, tm, name, email string) map[string]any {
	return map[string]any{
		"patient_name": name,
		"email":        email,
		"phone":        "555-0100",
		"doctor_id":    doctorID,
		"date":         date,
		"time":         tm,
		"reason":       "Checkup",
	}
}

// ======================================================
// Booking
// ======================================================

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.createDoctor("Dr. Alice", 0)
	bob := s.createDoctor("Dr. Bob", 500)
	date := nextBookableDate()

	// free doctor
	w := s.do(http.MethodPost, "/api/public/appointments", booking(alice.ID, date, "09:00", "Jane Doe", "Jane@Example.com"), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	jane := decode[models.Appointment](t, w)
	assert.Equal(t, "pending", jane.Status)
	assert.Equal(t, "Jane@Example.com", jane.Email)

	// same slot, different patient
	w = s.do(http.MethodPost, "/api/public/appointments", booking(alice.ID, date, "09:00", "John Roe", "john@example.com"), false)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slot_unavailable")

	// paid doctor without a method
	paid := booking(bob.ID, date, "10:00", "Jane Doe", "jane@example.com")
	w = s.do(http.MethodPost, "/api/public/appointments", paid, false)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	pr := decode[map[string]any](t, w)
	assert.Equal(t, "payment_method_required", pr["error_code"])
	assert.Equal(t, 500.0, pr["consultation_fee"])
	assert.Len(t, pr["payment_methods"], 3)

	// quote does not write
	w = s.do(http.MethodPost, "/api/public/appointments/quote", paid, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["requires_payment"])

	// paid doctor with UPI
	paid["payment_method"] = "UPI"
	w = s.do(http.MethodPost, "/api/public/appointments", paid, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	confirmed := decode[models.Appointment](t, w)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, 500.0, confirmed.ConsultationFee)
	assert.Equal(t, "UPI", confirmed.PaymentMethod)

	// patient portal
	w = s.do(http.MethodGet, "/api/public/appointments?email=JANE@example.com", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]map[string]any](t, w)
	require.Len(t, mine, 2)
	names := []any{mine[0]["doctor_name"], mine[1]["doctor_name"]}
	assert.ElementsMatch(t, []any{"Dr. Alice", "Dr. Bob"}, names)

	// availability reflects the booking
	w = s.do(http.MethodGet, "/api/public/doctors/"+alice.ID+"/availability?date="+date, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	avail := decode[struct {
		Slots []struct {
			Time      string `json:"time"`
			Available bool   `json:"available"`
		} `json:"slots"`
	}](t, w)
	require.Len(t, avail.Slots, len(config.DefaultTimeSlots))
	assert.False(t, avail.Slots[0].Available)
	assert.True(t, avail.Slots[1].Available)
}

func TestBookingValidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.createDoctor("Dr. Alice", 0)

	req := booking(alice.ID, nextBookableDate(), "09:00", "", "not-an-email")
	w := s.do(http.MethodPost, "/api/public/appointments", req, false)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, "validation_error", body["error_code"])
	assert.ElementsMatch(t, []any{"patient_name", "email"}, body["fields"])

	var count int64
	require.NoError(t, s.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)

	w = s.do(http.MethodGet, "/api/public/appointments", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// Admin
// ======================================================

func TestAdminRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/admin/appointments", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@carelink.health", "password": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/admin/me", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@carelink.health")
}

func TestStatusUpdateAndBilling(t *testing.T) {
	s := newTestServer(t)
	bob := s.createDoctor("Dr. Bob", 500)
	date := nextBookableDate()

	req := booking(bob.ID, date, "14:00", "Jane Doe", "jane@example.com")
	req["payment_method"] = "PhonePe"
	w := s.do(http.MethodPost, "/api/public/appointments", req, false)
	require.Equal(t, http.StatusCreated, w.Code)
	ap := decode[models.Appointment](t, w)

	w = s.do(http.MethodPatch, "/api/admin/appointments/"+ap.ID+"/status", map[string]string{"status": "pending"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/admin/billing", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[map[string]any](t, w)
	assert.Equal(t, 500.0, report["summary"].(map[string]any)["total_revenue"])

	w = s.do(http.MethodGet, "/api/admin/billing/"+ap.ID+"/invoice", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = s.do(http.MethodPost, "/api/admin/billing/"+ap.ID+"/refund", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "refunded", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodPost, "/api/admin/billing/"+ap.ID+"/refund", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/admin/appointments?status=cancelled", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(http.MethodPatch, "/api/admin/appointments/missing/status", map[string]string{"status": "confirmed"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.audit.Close()
	w = s.do(http.MethodGet, "/api/admin/audit-logs?entity=appointment", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[struct {
		Total int `json:"total"`
	}](t, w)
	assert.GreaterOrEqual(t, logs.Total, 2)

	w = s.do(http.MethodGet, "/api/admin/audit-logs?from=yesterday", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"from"`)
}

// ======================================================
// CRUD
// ======================================================

func TestContentDefaultsAndUpdate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/public/content/contact", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "info@carelink.health", decode[models.ContactContent](t, w).Email)

	w = s.do(http.MethodPut, "/api/admin/content/home", map[string]any{"title": "Welcome"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/public/content/home", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "Welcome", body["title"])
	assert.NotNil(t, body["features"])

	w = s.do(http.MethodGet, "/api/public/content/unknown", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/public/messages", map[string]string{"name": "Jane", "email": "jane@example.com"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/public/messages", map[string]string{"name": "Jane", "email": "jane@example.com", "message": "Hello"}, false)
	require.Equal(t, http.StatusCreated, w.Code)
	msg := decode[models.ContactMessage](t, w)

	w = s.do(http.MethodGet, "/api/admin/messages", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ContactMessage](t, w), 1)

	w = s.do(http.MethodDelete, "/api/admin/messages/"+msg.ID, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/admin/messages/"+msg.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDoctorsAndServices(t *testing.T) {
	s := newTestServer(t)
	d := s.createDoctor("Dr. Alice", 0)

	w := s.do(http.MethodPut, "/api/admin/doctors/"+d.ID, map[string]any{"consultation_fee": 250}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 250.0, decode[models.Doctor](t, w).ConsultationFee)

	w = s.do(http.MethodGet, "/api/public/doctors", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Doctor](t, w), 1)

	w = s.do(http.MethodPost, "/api/admin/services", map[string]string{"name": "Cardiology", "description": "Heart care", "category": "Specialty"}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/public/services?category=specialty", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MedicalService](t, w), 1)

	w = s.do(http.MethodGet, "/api/public/services?category=emergency", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.MedicalService](t, w))

	w = s.do(http.MethodDelete, "/api/admin/doctors/"+d.ID, nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/public/doctors/"+d.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadDisabledWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	d := s.createDoctor("Dr. Alice", 0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "a.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("not really a png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/doctors/"+d.ID+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "uploads_disabled")
}
