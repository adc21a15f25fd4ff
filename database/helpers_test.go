package database

import (
	"database/sql/driver"
	"time"

	"github.com/blnkfinance/onboard/model"
	"github.com/brianvoe/gofakeit/v6"
)

var fixedTime = time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)

func sampleCustomer(branch string, seq int64) model.Customer {
	return model.Customer{
		CustomerID:     model.CustomerExternalID(branch, seq),
		BranchCode:     branch,
		SeqID:          seq,
		Name:           gofakeit.Name(),
		FirstName:      gofakeit.FirstName(),
		LastName:       gofakeit.LastName(),
		IdentityNumber: gofakeit.Numerify("##########"),
		PhoneNumber:    gofakeit.Numerify("07########"),
		Email:          gofakeit.Email(),
		Status:         model.LifecycleNew,
		ReviewStatus:   model.ReviewPending,
		CreatedAt:      fixedTime,
		UpdatedAt:      fixedTime,
	}
}

// customerRow renders c in customerColumnNames order.
func customerRow(c model.Customer) []driver.Value {
	var reviewedAt interface{}
	if c.ReviewedAt != nil {
		reviewedAt = *c.ReviewedAt
	}
	return []driver.Value{
		c.CustomerID, c.BranchCode, c.SeqID, c.Name, c.FirstName, c.SecondName, c.ThirdName,
		c.LastName, c.MotherName, c.Gender, nil, c.BirthPlace, c.IDType, c.IdentityNumber,
		c.SecondaryIDNumber, nil, nil, c.IDIssuePlace, c.Nationality,
		c.Address, c.City, c.PhoneNumber, c.Email, c.Occupation, c.Employer, "1500.50", string(c.Status),
		string(c.ReviewStatus), c.ReviewedBy, reviewedAt, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	}
}

func joinedColumns() []string {
	cols := append([]string{}, customerColumnNames...)
	return append(cols,
		"account_id", "account_type", "currency_code", "open_date", "a_created_at",
		"document_id", "document_type", "path", "file_name", "size", "mime_type", "d_created_at",
		"compliance_id", "us_citizen", "citizenship_country", "tax_residence_country",
		"tax_identification_number", "us_address", "us_phone_number", "r_created_at",
	)
}

func joinedRowValues(c model.Customer, account, document []driver.Value, compliance []driver.Value) []driver.Value {
	if account == nil {
		account = make([]driver.Value, 5)
	}
	if document == nil {
		document = make([]driver.Value, 7)
	}
	if compliance == nil {
		compliance = make([]driver.Value, 8)
	}
	row := customerRow(c)
	row = append(row, account...)
	row = append(row, document...)
	return append(row, compliance...)
}
