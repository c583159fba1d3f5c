package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-booking/controllers"
	"court-booking/middleware"
	"court-booking/models"
	"court-booking/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewMemoryBookingStore()
	settings := services.NewSettingsService(services.NewMemorySettingsRepo(models.FacilityConfig{
		OpeningTime: "09:00", ClosingTime: "23:00", PricePerHour: 15, TotalCourts: 4,
	}))
	svc := services.NewBookingService(store, settings, services.NewRecurrenceExpander(), nil, services.BookingOptions{})
	flow := services.NewMultiCourtFlow(svc, 0, 0)

	return SetupRouter(Controllers{
		Booking:  controllers.NewBookingController(svc, services.NewAvailabilityResolver(store)),
		Batch:    controllers.NewBatchController(svc, flow),
		Settings: controllers.NewSettingsController(settings),
		Stats:    controllers.NewStatsController(services.NewStatsService(store, settings)),
	}, nil, secret)
}

func do(t *testing.T, r http.Handler, method, path string, body any, header ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func bookingBody(court string, start, dur float64) gin.H {
	return gin.H{
		"court": court, "date": "2025-03-30", "time": start, "duration": dur,
		"renter": "John Smith", "email": "john@example.com",
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, "")
	w, _ := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingLifecycle(t *testing.T) {
	r := newTestRouter(t, "")

	w, env := do(t, r, http.MethodPost, "/api/bookings", bookingBody("Court 1", 10, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created []models.Booking
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created, 1)
	assert.Equal(t, int64(1), created[0].ID)

	w, env = do(t, r, http.MethodPost, "/api/bookings", bookingBody("Court 1", 10.5, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, http.MethodPost, "/api/bookings", bookingBody("Court 1", 7, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/availability?court=Court%201&date=2025-03-30&time=10.5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var avail struct {
		State     string `json:"state"`
		FirstSlot bool   `json:"firstSlot"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.Equal(t, "covered", avail.State)
	assert.False(t, avail.FirstSlot)

	w, env = do(t, r, http.MethodPost, "/api/bookings/1/paid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var b models.Booking
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.True(t, b.Paid)

	w, _ = do(t, r, http.MethodPatch, "/api/bookings/1/status", gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodPatch, "/api/bookings/1/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/bookings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/bookings/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/bookings/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, r, http.MethodGet, "/api/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRecurringOverHTTP(t *testing.T) {
	r := newTestRouter(t, "")
	body := bookingBody("Court 2", 18, 1)
	body["recurring"] = true
	body["weeks"] = 3

	w, env := do(t, r, http.MethodPost, "/api/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var series []models.Booking
	require.NoError(t, json.Unmarshal(env.Data, &series))
	require.Len(t, series, 3)

	w, env = do(t, r, http.MethodDelete, "/api/bookings/2?all_future=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":[2,3]}`, string(env.Data))

	w, _ = do(t, r, http.MethodPost, "/api/bookings/1/recurring", gin.H{"recurring": false})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/bookings/1/recurring", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchAndWizard(t *testing.T) {
	r := newTestRouter(t, "")
	w, _ := do(t, r, http.MethodPost, "/api/bookings", bookingBody("Court 2", 10, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	crit := gin.H{"date": "2025-03-30", "time": 10, "duration": 1, "courts": 3}
	w, env := do(t, r, http.MethodPost, "/api/batch/plan", crit)
	require.Equal(t, http.StatusOK, w.Code)
	var planResp struct {
		Plan    services.BatchPlan `json:"plan"`
		Partial bool               `json:"partial"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &planResp))
	assert.Equal(t, []string{"Court 1", "Court 3", "Court 4"}, planResp.Plan.Selected)
	assert.False(t, planResp.Partial)

	w, env = do(t, r, http.MethodPost, "/api/batch/sessions", crit)
	require.Equal(t, http.StatusCreated, w.Code)
	var s services.FlowSession
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, services.StateSelectingCriteria, s.State)

	w, _ = do(t, r, http.MethodPost, "/api/batch/sessions/"+s.ID+"/submit", gin.H{"renter": "Club"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "submit before review is an invalid transition")

	w, _ = do(t, r, http.MethodPost, "/api/batch/sessions/"+s.ID+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = do(t, r, http.MethodPost, "/api/batch/sessions/"+s.ID+"/submit",
		gin.H{"renter": "Club", "email": "club@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, services.StateDone, s.State)
	assert.Len(t, s.Created, 3)

	w, _ = do(t, r, http.MethodPost, "/api/batch", gin.H{
		"date": "2025-03-30", "time": 10, "duration": 1, "courts": 1, "renter": "Late", "email": "late@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/batch/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/batch/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleSettingsAndStats(t *testing.T) {
	r := newTestRouter(t, "")
	w, _ := do(t, r, http.MethodPost, "/api/bookings", bookingBody("Court 1", 10, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodGet, "/api/schedule?date=2025-03-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day services.DaySchedule
	require.NoError(t, json.Unmarshal(env.Data, &day))
	assert.Len(t, day.Courts, 4)
	assert.Equal(t, "start", day.Courts[0].Slots[2].State)

	w, _ = do(t, r, http.MethodGet, "/api/schedule?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/settings/facility", gin.H{
		"openingTime": "10:00", "closingTime": "09:00", "pricePerHour": 10, "totalCourts": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, env = do(t, r, http.MethodPut, "/api/settings/facility", gin.H{
		"openingTime": "08:00", "closingTime": "22:00", "pricePerHour": 20, "totalCourts": 6,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var cfg models.FacilityConfig
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.Equal(t, 6, cfg.TotalCourts)

	w, env = do(t, r, http.MethodGet, "/api/stats/summary?from=2025-03-30&to=2025-03-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum services.Summary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, 1, sum.TotalBookings)
	assert.Len(t, sum.ByCourt, 6)

	w, _ = do(t, r, http.MethodGet, "/api/stats/recent?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/stats/upcoming?at=2025-03-30T09:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var upcoming []services.DateGroup
	require.NoError(t, json.Unmarshal(env.Data, &upcoming))
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2025-03-30", upcoming[0].Date)

	w, env = do(t, r, http.MethodGet, "/api/stats/past?at=2025-03-30T12:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var past []services.DateGroup
	require.NoError(t, json.Unmarshal(env.Data, &past))
	require.Len(t, past, 1)
	assert.Len(t, past[0].Bookings, 1)

	w, _ = do(t, r, http.MethodGet, "/api/stats/past?at=noon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIRequiresTokenWhenSecretSet(t *testing.T) {
	const secret = "test-secret"
	r := newTestRouter(t, secret)

	w, _ := do(t, r, http.MethodGet, "/api/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, err := middleware.CreateAccessToken(secret, "staff-1", "staff", "staff@example.com", time.Minute)
	require.NoError(t, err)
	w, _ = do(t, r, http.MethodGet, "/api/bookings", nil, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNormalizeOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, normalizeOrigins(nil))
	assert.Equal(t, []string{"http://a", "http://b"}, normalizeOrigins([]string{" http://a ", "", "http://b"}))
}
