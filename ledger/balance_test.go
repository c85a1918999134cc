package ledger

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/errs"
	"github.com/marciomartinho/minhas-financas/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func TestApply_DebitsExpense(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=current_balance \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := models.Entry{
		ID:        1,
		Amount:    decimal.NewFromFloat(50.00),
		Kind:      models.KindExpense,
		Status:    models.StatusPending,
		DueDate:   time.Now(),
		AccountID: 1,
	}
	require.NoError(t, Apply(db, &e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RejectsAlreadyPaid(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	e := models.Entry{ID: 1, Status: models.StatusPaid, Kind: models.KindExpense, AccountID: 1}
	err := Apply(db, &e)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RejectsCancelled(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	e := models.Entry{ID: 1, Status: models.StatusCancelled, Kind: models.KindExpense, AccountID: 1}
	err := Apply(db, &e)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReverse_RequiresPaid(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	e := models.Entry{ID: 1, Status: models.StatusPending, Kind: models.KindExpense, AccountID: 1}
	err := Reverse(db, &e)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_MissingAccount(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	e := models.Entry{
		ID:        1,
		Amount:    decimal.NewFromFloat(10.00),
		Kind:      models.KindExpense,
		Status:    models.StatusPending,
		AccountID: 99,
	}
	err := Apply(db, &e)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevalue_RejectsCheckingAccount(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := models.Account{ID: 1, Kind: models.AccountChecking}
	err := Revalue(db, &account, decimal.NewFromFloat(1000.00))
	require.ErrorIs(t, err, errs.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevalue_UpdatesInvestmentAccount(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	account := models.Account{ID: 2, Kind: models.AccountInvestment}
	require.NoError(t, Revalue(db, &account, decimal.NewFromFloat(5100.00)))
	assert.True(t, account.CurrentBalance.Equal(decimal.NewFromFloat(5100.00)))
	require.NoError(t, mock.ExpectationsWereMet())
}
