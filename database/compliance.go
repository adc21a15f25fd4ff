package database

import (
	"context"

	"github.com/blnkfinance/onboard/model"
)

func (d Datasource) InsertComplianceRecord(ctx context.Context, uow UnitOfWork, r *model.ComplianceRecord) error {
	_, err := d.exec(uow).ExecContext(ctx, `
		INSERT INTO onboard.compliance_records (
			compliance_id, customer_id, branch_code, seq_id, us_citizen, citizenship_country,
			tax_residence_country, tax_identification_number, us_address, us_phone_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.ComplianceID, r.CustomerID, r.BranchCode, r.SeqID, r.USCitizen, r.CitizenshipCountry,
		r.TaxResidenceCountry, r.TaxIdentificationNumber, r.USAddress, r.USPhoneNumber, r.CreatedAt)
	return err
}
