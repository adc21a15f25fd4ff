package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/blnkfinance/onboard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAccountAndCompliance_SameUnitOfWork(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	c := sampleCustomer("058", 6000)
	acc := model.Account{AccountType: "SAVINGS", CurrencyCode: "USD"}
	acc.AttachTo(&c, fixedTime)

	record := &model.ComplianceRecord{
		ComplianceID: model.ComplianceRecordID(c.CustomerID, fixedTime),
		CustomerID:   c.CustomerID, BranchCode: c.BranchCode, SeqID: c.SeqID,
		USCitizen: "no", CitizenshipCountry: "IQ", CreatedAt: fixedTime,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO onboard.accounts")).
		WithArgs("058-SAVINGS-6000-USD", "0586000", "058", int64(6000), "SAVINGS", "USD", fixedTime, fixedTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO onboard.compliance_records")).
		WithArgs("0586000_20240514093000", "0586000", "058", int64(6000), "no", "IQ", "", "", "", "", fixedTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	uow, err := ds.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, ds.InsertAccount(context.Background(), uow, &acc))
	require.NoError(t, ds.InsertComplianceRecord(context.Background(), uow, record))
	require.NoError(t, uow.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerHasAccountType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("upper(account_type) = upper($3)")).
		WithArgs("058", int64(6000), "SAVINGS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Datasource{Conn: db}.CustomerHasAccountType(context.Background(), "058", 6000, "SAVINGS")
	require.NoError(t, err)
	assert.True(t, ok)
}
