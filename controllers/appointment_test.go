package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
)

// setupMockDB swaps the global DB handle for a sqlmock-backed one.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	prev := config.DB
	config.DB = gdb
	t.Cleanup(func() {
		config.DB = prev
		db.Close()
	})

	return mock
}

func testContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, rec
}

func TestGetServicesReturnsActiveCatalog(t *testing.T) {
	mock := setupMockDB(t)

	id1, id2 := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "services" WHERE is_active = \$1`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "price", "duration", "is_active"}).
			AddRow(id1.String(), "Fio a Fio", 150.0, 120, true).
			AddRow(id2.String(), "Volume Russo", 200.0, 150, true))

	c, rec := testContext(http.MethodGet, "/api/services")
	GetServices(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var services []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Len(t, services, 2)
	assert.Equal(t, "Fio a Fio", services[0]["name"])
	assert.Equal(t, float64(120), services[0]["durationMinutes"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	mock := setupMockDB(t)

	aptID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(aptID.String(), "done"))

	c, rec := testContext(http.MethodPatch, "/api/appointments/"+aptID.String()+"/status")
	c.Params = gin.Params{{Key: "id", Value: aptID.String()}}
	c.Request.Body = jsonBody(`{"status":"canceled"}`)

	UpdateAppointmentStatus(c)

	// A done appointment is terminal; no UPDATE may be issued.
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot change status")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	mock := setupMockDB(t)

	aptID := uuid.New()
	c, rec := testContext(http.MethodPatch, "/api/appointments/"+aptID.String()+"/status")
	c.Params = gin.Params{{Key: "id", Value: aptID.String()}}
	c.Request.Body = jsonBody(`{"status":"confirmed"}`)

	UpdateAppointmentStatus(c)

	// Rejected before any query runs.
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func jsonBody(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// allWeekOpen builds an opening-hours JSONB payload with every weekday
// open, so tests are independent of which weekday the date lands on.
func allWeekOpen(t *testing.T) []byte {
	t.Helper()
	hours := map[string]interface{}{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		hours[day] = map[string]interface{}{"open": "09:00", "close": "19:00", "closed": false}
	}
	raw, err := json.Marshal(hours)
	require.NoError(t, err)
	return raw
}

func TestCreateAppointmentLostInsertRaceReturnsConflict(t *testing.T) {
	mock := setupMockDB(t)

	serviceID, clientID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "services"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "duration", "is_active"}).
			AddRow(serviceID.String(), "Fio a Fio", 60, true))

	mock.ExpectQuery(`SELECT (.+) FROM "settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "opening_hours"}).
			AddRow(uuid.NewString(), allWeekOpen(t)))

	// No booked times visible to the availability check: the competing
	// booking has not committed yet.
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"time"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone"}).
			AddRow(clientID.String(), "Maria", "62999990000"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// The competing transaction commits first; the slot index rejects ours.
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnError(&pgconn.PgError{
			Code:    "23505",
			Message: `duplicate key value violates unique constraint "idx_service_slot"`,
		})
	mock.ExpectRollback()

	c, rec := testContext(http.MethodPost, "/api/appointments")
	c.Request.Body = jsonBody(`{"serviceId":"` + serviceID.String() +
		`","date":"` + futureDate(7) + `","time":"10:00","name":"Maria","phone":"62999990000"}`)
	c.Request.Header.Set("Content-Type", "application/json")

	CreateAppointment(c)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer available")
	assert.NoError(t, mock.ExpectationsWereMet())
}
