package api

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciomartinho/minhas-financas/models"
)

func TestGoalPeriod_Monthly(t *testing.T) {
	g := &models.Goal{
		Period:    models.PeriodMonthly,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	start, end := goalPeriod(g, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestGoalPeriod_QuarterlyAlignsToStart(t *testing.T) {
	g := &models.Goal{
		Period:    models.PeriodQuarterly,
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	// Feb-Apr, May-Jul, ... a June reference lands in the second quarter
	start, end := goalPeriod(g, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestGoalPeriod_YearlyBeforeStart(t *testing.T) {
	g := &models.Goal{
		Period:    models.PeriodYearly,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	start, end := goalPeriod(g, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestGoalSpanMonths(t *testing.T) {
	assert.Equal(t, 1, goalSpanMonths(models.PeriodMonthly))
	assert.Equal(t, 3, goalSpanMonths(models.PeriodQuarterly))
	assert.Equal(t, 12, goalSpanMonths(models.PeriodYearly))
}

func TestGoalHandler_Create_DuplicateTarget(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "kind"}).
			AddRow(2, "Food", models.CategoryExpense))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `goals`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	router := gin.New()
	router.POST("/goals", NewGoalHandler().Create)

	body := `{"name":"Food cap","type":"category","category_id":2,"limit_amount":"800.00","period":"monthly"}`
	w := doJSON(t, router, "POST", "/goals", body)

	assert.Equal(t, 400, w.Code)
	resp := parseResponse(t, w)
	assert.Contains(t, resp["message"], "already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_Create_TagGoal(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `goals`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `goals`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/goals", NewGoalHandler().Create)

	body := `{"name":"Travel cap","type":"tag","tag":"travel","limit_amount":"3000.00","period":"yearly","start_date":"2026-01-01"}`
	w := doJSON(t, router, "POST", "/goals", body)

	assert.Equal(t, 200, w.Code)
	resp := parseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "travel", data["tag"])
	// alert percentage falls back to the default when omitted
	assert.Equal(t, float64(80), data["alert_percent"])
	assert.Equal(t, true, data["include_card"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_Create_BadType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/goals", NewGoalHandler().Create)

	body := `{"name":"x","type":"weekly-shop","limit_amount":"10.00","period":"monthly"}`
	w := doJSON(t, router, "POST", "/goals", body)

	assert.Equal(t, 400, w.Code)
}

func TestGoalHandler_Close_AutoRenew(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM `goals`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "limit_amount", "period", "start_date", "alert_percent", "auto_renew", "include_card", "active"}).
			AddRow(1, "monthly spend", models.GoalGlobal, "500.00", models.PeriodMonthly, start, 80, true, true, true))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `goal_histories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("320.00"))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("80.00"))

	// history insert and start-date roll share one transaction
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `goal_histories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `goals` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/goals/:id/close", NewGoalHandler().Close)

	w := doJSON(t, router, "POST", "/goals/1/close", "")

	assert.Equal(t, 200, w.Code)
	resp := parseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "400", data["spent_amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}
