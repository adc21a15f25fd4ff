package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/blnkfinance/onboard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateSequence_FirstInBranchUsesFloor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO onboard.branch_sequences")).
		WithArgs("058", model.MinCustomerSequence).
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(int64(6000)))
	mock.ExpectCommit()

	uow, err := ds.Begin(context.Background())
	require.NoError(t, err)
	defer uow.Rollback()

	seq, err := ds.AllocateSequence(context.Background(), uow, "058", model.MinCustomerSequence)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), seq)
	assert.Equal(t, "0586000", model.CustomerExternalID("058", seq))

	require.NoError(t, uow.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateSequence_QueryShape(t *testing.T) {
	assert.Contains(t, allocateSequenceQuery, "ON CONFLICT (branch_code) DO UPDATE")
	assert.Contains(t, allocateSequenceQuery, "SELECT MAX(seq_id) FROM onboard.customers WHERE branch_code = $1")
	assert.Contains(t, allocateSequenceQuery, "RETURNING last_seq")
}

func TestAllocateSequence_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO onboard.branch_sequences")).
		WithArgs("058", int64(6000)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	uow, err := ds.Begin(context.Background())
	require.NoError(t, err)

	_, err = ds.AllocateSequence(context.Background(), uow, "058", 6000)
	assert.ErrorContains(t, err, "failed to allocate sequence for branch 058")
	assert.NoError(t, uow.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RollbackAfterCommitIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uow, err := ds.Begin(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, uow.Executor())
	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBegin_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err = Datasource{Conn: db}.Begin(context.Background())
	assert.EqualError(t, err, "too many connections")
}
