package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLinkLostRaceReturnsWinnersLink(t *testing.T) {
	mock := setupMockDB(t)

	aptID, clientID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status"}).
			AddRow(aptID.String(), clientID.String(), "done"))
	mock.ExpectQuery(`SELECT (.+) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone"}).
			AddRow(clientID.String(), "Maria", "62999990000"))

	mock.ExpectBegin()
	// No link yet when we look...
	mock.ExpectQuery(`SELECT (.+) FROM "testimonials"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// ...but a concurrent generate wins the appointment_id index.
	mock.ExpectQuery(`INSERT INTO "testimonials"`).
		WillReturnError(&pgconn.PgError{
			Code:    "23505",
			Message: `duplicate key value violates unique constraint "idx_testimonials_appointment_id"`,
		})
	mock.ExpectRollback()

	// The winner's row is what we hand back.
	mock.ExpectQuery(`SELECT (.+) FROM "testimonials"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "appointment_id", "client_name", "unique_link", "status", "submitted"}).
			AddRow(uuid.NewString(), aptID.String(), "Maria", "winner-link", "pending", false))

	c, rec := testContext(http.MethodPost, "/api/testimonials/generate-link/"+aptID.String())
	c.Params = gin.Params{{Key: "appointmentId", Value: aptID.String()}}

	GenerateTestimonialLink(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "winner-link")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateLinkRequiresDoneAppointment(t *testing.T) {
	mock := setupMockDB(t)

	aptID, clientID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status"}).
			AddRow(aptID.String(), clientID.String(), "scheduled"))
	mock.ExpectQuery(`SELECT (.+) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone"}).
			AddRow(clientID.String(), "Maria", "62999990000"))

	c, rec := testContext(http.MethodPost, "/api/testimonials/generate-link/"+aptID.String())
	c.Params = gin.Params{{Key: "appointmentId", Value: aptID.String()}}

	GenerateTestimonialLink(c)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
