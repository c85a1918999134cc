package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciomartinho/minhas-financas/errs"
	"github.com/marciomartinho/minhas-financas/models"
)

func entryRows(id uint, kind, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "description", "amount", "kind", "status", "recurrence", "due_date", "account_id"}).
		AddRow(id, "test entry", "50.00", kind, status, models.RecurrenceSingle, time.Now(), 1)
}

func TestGetEntry_NotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	_, err := GetEntry(db, 42)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_RejectsCardCharge(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindCardCharge, models.StatusPending))

	_, err := MarkPaid(db, 1, time.Now())
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Contains(t, err.Error(), "statement")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_RejectsAlreadyPaid(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindExpense, models.StatusPaid))

	_, err := MarkPaid(db, 1, time.Now())
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_RejectsCancelled(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindExpense, models.StatusCancelled))

	_, err := MarkPaid(db, 1, time.Now())
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPending_RequiresPaid(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindExpense, models.StatusPending))

	_, err := MarkPending(db, 1)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_RequiresPending(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindExpense, models.StatusPaid))

	_, err := Cancel(db, 1)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEdit_RejectsTransferLeg(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindTransfer, models.StatusPending))

	newAmount := decimal.NewFromFloat(99.00)
	_, err := Edit(db, 1, EntryUpdate{Amount: &newAmount}, false)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEdit_RejectsNonPositiveAmount(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(entryRows(1, models.KindExpense, models.StatusPending))

	zero := decimal.Zero
	_, err := Edit(db, 1, EntryUpdate{Amount: &zero}, false)
	require.ErrorIs(t, err, errs.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func cardRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "account_id", "due_day", "active"}).
		AddRow(1, "Platinum", 1, 10, true)
}

func TestPayStatement_RejectsDoubleSettlement(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(cardRows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := PayStatement(db, 1, period, time.Now())
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Contains(t, err.Error(), "already settled")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayStatement_RejectsEmptyPeriod(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(cardRows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `entries`").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := PayStatement(db, 1, period, time.Now())
	require.ErrorIs(t, err, errs.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayStatement_CardNotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `cards`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := PayStatement(db, 99, period, time.Now())
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func settlementRows(id uint) *sqlmock.Rows {
	statement := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "description", "amount", "kind", "status", "recurrence", "due_date", "account_id", "card_id", "statement_month"}).
		AddRow(id, "Platinum statement 2026-03", "350.50", models.KindExpense, models.StatusPaid, models.RecurrenceSingle, time.Now(), 1, 1, statement)
}

func TestEdit_RejectsSettlement(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(settlementRows(1))

	desc := "renamed"
	_, err := Edit(db, 1, EntryUpdate{Description: &desc}, false)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Contains(t, err.Error(), "settlement")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_CascadeRemovesFutureSiblings(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	series := "0b7f5a8e-9c2d-4f11-8d6a-3e5b1c9a7f04"
	anchor := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "description", "amount", "kind", "status", "recurrence", "due_date", "account_id", "series_id"}

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, "rent (3/12)", "800.00", models.KindExpense, models.StatusPending, models.RecurrenceInstallment, anchor, 1, series))

	// occurrences 4..12 are due on or after the anchor
	siblings := sqlmock.NewRows(cols)
	for i := 4; i <= 12; i++ {
		siblings.AddRow(i, fmt.Sprintf("rent (%d/12)", i), "800.00", models.KindExpense, models.StatusPending,
			models.RecurrenceInstallment, anchor.AddDate(0, i-3, 0), 1, series)
	}
	mock.ExpectQuery("SELECT .* FROM `entries`").WillReturnRows(siblings)

	for i := 0; i < 10; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `entries` SET `deleted_at`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	removed, err := Delete(db, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 10, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func transferLegRows(id uint, role string, accountID, destinationID uint, status string) *sqlmock.Rows {
	group := "f3d1c2b4-6a5e-47d8-9b0c-2e8f4a1d6c73"
	return sqlmock.NewRows([]string{"id", "description", "amount", "kind", "status", "recurrence", "due_date", "account_id", "destination_account_id", "transfer_role", "transfer_group_id"}).
		AddRow(id, "to savings", "150.75", models.KindTransfer, status, models.RecurrenceSingle, time.Now(), accountID, destinationID, role, group)
}

func TestMarkPaid_TransferMovesBothBalances(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(transferLegRows(1, models.TransferOutbound, 1, 2, models.StatusPending))
	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(transferLegRows(2, models.TransferInbound, 2, 1, models.StatusPending))

	// outbound leg debits its own account
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=current_balance \\+ \\?").
		WithArgs("-150.75", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// inbound leg credits its own account
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=current_balance \\+ \\?").
		WithArgs("150.75", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := MarkPaid(db, 1, time.Now())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPending_TransferRestoresBothBalances(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(transferLegRows(1, models.TransferOutbound, 1, 2, models.StatusPaid))
	mock.ExpectQuery("SELECT .* FROM `entries`").
		WillReturnRows(transferLegRows(2, models.TransferInbound, 2, 1, models.StatusPaid))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=current_balance \\+ \\?").
		WithArgs("150.75", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `current_balance`=current_balance \\+ \\?").
		WithArgs("-150.75", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `entries` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := MarkPending(db, 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
