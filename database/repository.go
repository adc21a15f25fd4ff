package database

import (
	"context"
	"time"

	"github.com/blnkfinance/onboard/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	unitOfWork
	sequence
	customer
	account
	compliance
	document
}

type unitOfWork interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type sequence interface {
	AllocateSequence(ctx context.Context, uow UnitOfWork, branchCode string, floor int64) (int64, error)
}

type customer interface {
	InsertCustomer(ctx context.Context, uow UnitOfWork, c *model.Customer) error
	UpdateCustomer(ctx context.Context, uow UnitOfWork, c *model.Customer) error
	// FindCustomerIDByIdentityNumber returns the id of another customer in the branch holding
	// the number as primary or secondary identity, or "" when there is none.
	FindCustomerIDByIdentityNumber(ctx context.Context, branchCode, number, excludeID string) (string, error)
	FindCustomerIDByPhone(ctx context.Context, branchCode, phone, excludeID string) (string, error)
	GetCustomerByID(ctx context.Context, customerID string) (*model.Customer, error)
	ListCustomers(ctx context.Context, query model.CustomerQuery) ([]model.Customer, int64, error)
	// SetReviewStatus moves a Pending customer to status and reports whether the row changed.
	SetReviewStatus(ctx context.Context, customerID string, status model.ReviewStatus, reviewer string, at time.Time) (bool, error)
	InvalidateCustomer(ctx context.Context, customerID string) error
}

type account interface {
	InsertAccount(ctx context.Context, uow UnitOfWork, a *model.Account) error
	CustomerHasAccountType(ctx context.Context, branchCode string, seqID int64, accountType string) (bool, error)
}

type compliance interface {
	InsertComplianceRecord(ctx context.Context, uow UnitOfWork, record *model.ComplianceRecord) error
}

type document interface {
	InsertDocuments(ctx context.Context, uow UnitOfWork, docs []model.Document) error
	// DeleteDocumentsByType removes a customer's documents of one type and returns them.
	DeleteDocumentsByType(ctx context.Context, uow UnitOfWork, customerID string, docType model.DocumentType) ([]model.Document, error)
	GetDocument(ctx context.Context, documentID string) (*model.Document, error)
	DeleteDocument(ctx context.Context, documentID string) (*model.Document, error)
	// ListDocuments pages through every document row by id, starting after afterID.
	ListDocuments(ctx context.Context, afterID string, limit int) ([]model.Document, error)
}
