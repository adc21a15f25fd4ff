package mocks

import (
	"context"
	"time"

	"github.com/blnkfinance/onboard/database"
	"github.com/blnkfinance/onboard/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// MockUnitOfWork records Commit and Rollback calls.
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Executor() database.Executor {
	return nil
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// Unit of work

func (m *MockDataSource) Begin(ctx context.Context) (database.UnitOfWork, error) {
	args := m.Called(ctx)
	uow, _ := args.Get(0).(database.UnitOfWork)
	return uow, args.Error(1)
}

// Sequence methods

func (m *MockDataSource) AllocateSequence(ctx context.Context, uow database.UnitOfWork, branchCode string, floor int64) (int64, error) {
	args := m.Called(ctx, uow, branchCode, floor)
	return args.Get(0).(int64), args.Error(1)
}

// Customer methods

func (m *MockDataSource) InsertCustomer(ctx context.Context, uow database.UnitOfWork, c *model.Customer) error {
	args := m.Called(ctx, uow, c)
	return args.Error(0)
}

func (m *MockDataSource) UpdateCustomer(ctx context.Context, uow database.UnitOfWork, c *model.Customer) error {
	args := m.Called(ctx, uow, c)
	return args.Error(0)
}

func (m *MockDataSource) FindCustomerIDByIdentityNumber(ctx context.Context, branchCode, number, excludeID string) (string, error) {
	args := m.Called(ctx, branchCode, number, excludeID)
	return args.String(0), args.Error(1)
}

func (m *MockDataSource) FindCustomerIDByPhone(ctx context.Context, branchCode, phone, excludeID string) (string, error) {
	args := m.Called(ctx, branchCode, phone, excludeID)
	return args.String(0), args.Error(1)
}

func (m *MockDataSource) GetCustomerByID(ctx context.Context, customerID string) (*model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *MockDataSource) ListCustomers(ctx context.Context, query model.CustomerQuery) ([]model.Customer, int64, error) {
	args := m.Called(ctx, query)
	customers, _ := args.Get(0).([]model.Customer)
	return customers, args.Get(1).(int64), args.Error(2)
}

func (m *MockDataSource) SetReviewStatus(ctx context.Context, customerID string, status model.ReviewStatus, reviewer string, at time.Time) (bool, error) {
	args := m.Called(ctx, customerID, status, reviewer, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataSource) InvalidateCustomer(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// Account methods

func (m *MockDataSource) InsertAccount(ctx context.Context, uow database.UnitOfWork, a *model.Account) error {
	args := m.Called(ctx, uow, a)
	return args.Error(0)
}

func (m *MockDataSource) CustomerHasAccountType(ctx context.Context, branchCode string, seqID int64, accountType string) (bool, error) {
	args := m.Called(ctx, branchCode, seqID, accountType)
	return args.Bool(0), args.Error(1)
}

// Compliance methods

func (m *MockDataSource) InsertComplianceRecord(ctx context.Context, uow database.UnitOfWork, record *model.ComplianceRecord) error {
	args := m.Called(ctx, uow, record)
	return args.Error(0)
}

// Document methods

func (m *MockDataSource) InsertDocuments(ctx context.Context, uow database.UnitOfWork, docs []model.Document) error {
	args := m.Called(ctx, uow, docs)
	return args.Error(0)
}

func (m *MockDataSource) DeleteDocumentsByType(ctx context.Context, uow database.UnitOfWork, customerID string, docType model.DocumentType) ([]model.Document, error) {
	args := m.Called(ctx, uow, customerID, docType)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Error(1)
}

func (m *MockDataSource) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	args := m.Called(ctx, documentID)
	doc, _ := args.Get(0).(*model.Document)
	return doc, args.Error(1)
}

func (m *MockDataSource) DeleteDocument(ctx context.Context, documentID string) (*model.Document, error) {
	args := m.Called(ctx, documentID)
	doc, _ := args.Get(0).(*model.Document)
	return doc, args.Error(1)
}

func (m *MockDataSource) ListDocuments(ctx context.Context, afterID string, limit int) ([]model.Document, error) {
	args := m.Called(ctx, afterID, limit)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Error(1)
}

var _ database.IDataSource = (*MockDataSource)(nil)
var _ database.UnitOfWork = (*MockUnitOfWork)(nil)
