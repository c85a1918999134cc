package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciomartinho/minhas-financas/models"
)

func TestExportHandler_CSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	due := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "kind", "status", "due_date", "account_id"}).
			AddRow(1, "Lunch", "42.50", models.KindExpense, models.StatusPaid, due, 1))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows())

	router := gin.New()
	router.GET("/export/csv", NewExportHandler().CSV)

	req := httptest.NewRequest("GET", "/export/csv?start_date=2026-01-01&end_date=2026-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "entries_2026-01-01_2026-01-31.csv")
	assert.Contains(t, w.Body.String(), "Description")
	assert.Contains(t, w.Body.String(), "Lunch")
	assert.Contains(t, w.Body.String(), "42.50")
	assert.Contains(t, w.Body.String(), "Main Checking")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_CSV_MissingParams(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.GET("/export/csv", NewExportHandler().CSV)

	req := httptest.NewRequest("GET", "/export/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestExportHandler_CSV_BadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.GET("/export/csv", NewExportHandler().CSV)

	req := httptest.NewRequest("GET", "/export/csv?start_date=01/01/2026&end_date=2026-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
