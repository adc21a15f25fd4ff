package database

import (
	"database/sql"

	"github.com/blnkfinance/onboard/model"
)

// joinedRow is one row of the customer x accounts x documents x compliance join.
// Dependent columns are nullable since every join is LEFT.
type joinedRow struct {
	customer model.Customer

	accountID    sql.NullString
	accountType  sql.NullString
	currencyCode sql.NullString
	openDate     sql.NullTime
	accCreatedAt sql.NullTime

	documentID   sql.NullString
	documentType sql.NullString
	path         sql.NullString
	fileName     sql.NullString
	size         sql.NullInt64
	mimeType     sql.NullString
	docCreatedAt sql.NullTime

	complianceID        sql.NullString
	usCitizen           sql.NullString
	citizenshipCountry  sql.NullString
	taxResidenceCountry sql.NullString
	taxID               sql.NullString
	usAddress           sql.NullString
	usPhoneNumber       sql.NullString
	complianceCreatedAt sql.NullTime
}

func (r *joinedRow) dest() []interface{} {
	return []interface{}{
		&r.accountID, &r.accountType, &r.currencyCode, &r.openDate, &r.accCreatedAt,
		&r.documentID, &r.documentType, &r.path, &r.fileName, &r.size, &r.mimeType, &r.docCreatedAt,
		&r.complianceID, &r.usCitizen, &r.citizenshipCountry, &r.taxResidenceCountry,
		&r.taxID, &r.usAddress, &r.usPhoneNumber, &r.complianceCreatedAt,
	}
}

// reconstructor folds joined rows back into one aggregate. Children are keyed by
// their ids so the account x document cross product never yields duplicates.
type reconstructor struct {
	agg       *model.Customer
	accounts  map[string]bool
	documents map[string]bool
}

func (rc *reconstructor) merge(row joinedRow) *model.Customer {
	if rc.agg == nil {
		c := row.customer
		c.Accounts = []model.Account{}
		c.Documents = []model.Document{}
		rc.agg = &c
		rc.accounts = make(map[string]bool)
		rc.documents = make(map[string]bool)
	}
	c := rc.agg

	if row.accountID.Valid && !rc.accounts[row.accountID.String] {
		rc.accounts[row.accountID.String] = true
		c.Accounts = append(c.Accounts, model.Account{
			AccountID:    row.accountID.String,
			CustomerID:   c.CustomerID,
			BranchCode:   c.BranchCode,
			SeqID:        c.SeqID,
			AccountType:  row.accountType.String,
			CurrencyCode: row.currencyCode.String,
			OpenDate:     row.openDate.Time,
			CreatedAt:    row.accCreatedAt.Time,
		})
	}

	if row.documentID.Valid && !rc.documents[row.documentID.String] {
		rc.documents[row.documentID.String] = true
		c.Documents = append(c.Documents, model.Document{
			DocumentID:   row.documentID.String,
			CustomerID:   c.CustomerID,
			DocumentType: model.DocumentType(row.documentType.String),
			Path:         row.path.String,
			FileName:     row.fileName.String,
			Size:         row.size.Int64,
			MimeType:     row.mimeType.String,
			CreatedAt:    row.docCreatedAt.Time,
		})
	}

	if row.complianceID.Valid && c.Compliance == nil {
		c.Compliance = &model.ComplianceRecord{
			ComplianceID:            row.complianceID.String,
			CustomerID:              c.CustomerID,
			BranchCode:              c.BranchCode,
			SeqID:                   c.SeqID,
			USCitizen:               row.usCitizen.String,
			CitizenshipCountry:      row.citizenshipCountry.String,
			TaxResidenceCountry:     row.taxResidenceCountry.String,
			TaxIdentificationNumber: row.taxID.String,
			USAddress:               row.usAddress.String,
			USPhoneNumber:           row.usPhoneNumber.String,
			CreatedAt:               row.complianceCreatedAt.Time,
		}
	}

	return c
}
