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

func cardRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "account_id", "due_day", "active"}).
		AddRow(1, "Platinum", 1, 10, true)
}

func TestCardHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows())
	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `cards`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/cards", NewCardHandler().Create)

	body := `{"name":"Platinum","account_id":1,"due_day":10}`
	w := doJSON(t, router, "POST", "/cards", body)

	assert.Equal(t, 200, w.Code)
	resp := parseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Platinum", data["name"])
	assert.Equal(t, true, data["active"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardHandler_Create_BadDueDay(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/cards", NewCardHandler().Create)

	w := doJSON(t, router, "POST", "/cards", `{"name":"Platinum","account_id":1,"due_day":32}`)

	assert.Equal(t, 400, w.Code)
}

func TestCardHandler_Statement(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(cardRows())
	statement := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "kind", "status", "due_date", "account_id", "card_id", "statement_month"}).
			AddRow(1, "supermarket", "200.00", models.KindCardCharge, models.StatusPending, statement, 1, 1, statement).
			AddRow(2, "fuel", "150.50", models.KindCardCharge, models.StatusPending, statement, 1, 1, statement))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := gin.New()
	router.GET("/cards/:id/statement", NewCardHandler().Statement)

	w := doJSON(t, router, "GET", "/cards/1/statement?period=2026-03", "")

	assert.Equal(t, 200, w.Code)
	resp := parseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Platinum", data["card"])
	assert.Equal(t, "2026-03", data["period"])
	assert.Equal(t, "350.5", data["total"])
	assert.Equal(t, false, data["settled"])
	charges := data["charges"].([]interface{})
	assert.Len(t, charges, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardHandler_Statement_BadPeriod(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.GET("/cards/:id/statement", NewCardHandler().Statement)

	w := doJSON(t, router, "GET", "/cards/1/statement?period=march", "")

	assert.Equal(t, 400, w.Code)
}

func TestCardHandler_PayStatement_AlreadySettled(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(cardRows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	router := gin.New()
	router.POST("/cards/:id/statement/pay", NewCardHandler().PayStatement)

	w := doJSON(t, router, "POST", "/cards/1/statement/pay", `{"period":"2026-03"}`)

	assert.Equal(t, 409, w.Code)
	resp := parseResponse(t, w)
	assert.Contains(t, resp["message"], "already settled")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardHandler_PayStatement(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(cardRows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("350.50"))
	mock.ExpectExec("INSERT INTO `entries`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=current_balance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `entries`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/cards/:id/statement/pay", NewCardHandler().PayStatement)

	w := doJSON(t, router, "POST", "/cards/1/statement/pay", `{"period":"2026-03","payment_date":"2026-03-10"}`)

	assert.Equal(t, 200, w.Code)
	resp := parseResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Platinum statement 2026-03", data["description"])
	assert.Equal(t, "350.5", data["amount"])
	assert.Equal(t, models.StatusPaid, data["status"])
	assert.Equal(t, models.KindExpense, data["kind"])
	require.NoError(t, mock.ExpectationsWereMet())
}
