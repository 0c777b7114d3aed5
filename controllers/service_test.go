package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServicesIgnoresIncludeInactiveFlag(t *testing.T) {
	mock := setupMockDB(t)

	// The active filter is applied regardless of what the caller sends.
	mock.ExpectQuery(`SELECT (.+) FROM "services" WHERE is_active = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}).
			AddRow(uuid.NewString(), "Fio a Fio", true))

	c, rec := testContext(http.MethodGet, "/api/services?includeInactive=true")
	GetServices(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var services []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Len(t, services, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllServicesIncludesInactive(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "services" WHERE "services"\."deleted_at" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}).
			AddRow(uuid.NewString(), "Fio a Fio", true).
			AddRow(uuid.NewString(), "Volume Russo", false))

	c, rec := testContext(http.MethodGet, "/api/services/all")
	GetAllServices(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var services []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Len(t, services, 2)
	assert.Equal(t, true, services[0]["active"])
	assert.Equal(t, false, services[1]["active"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
