package model

import (
	"strings"
	"time"
)

// ComplianceRecord holds the tax-residency (FATCA) declaration captured at onboarding.
type ComplianceRecord struct {
	ComplianceID            string    `json:"compliance_id"`
	CustomerID              string    `json:"customer_id"`
	BranchCode              string    `json:"branch_code"`
	SeqID                   int64     `json:"seq_id"`
	USCitizen               string    `json:"us_citizen"`
	CitizenshipCountry      string    `json:"citizenship_country"`
	TaxResidenceCountry     string    `json:"tax_residence_country"`
	TaxIdentificationNumber string    `json:"tax_identification_number"`
	USAddress               string    `json:"us_address"`
	USPhoneNumber           string    `json:"us_phone_number"`
	CreatedAt               time.Time `json:"created_at"`
}

// IsEmpty reports whether no compliance field was supplied.
func (r *ComplianceRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, v := range []string{
		r.USCitizen, r.CitizenshipCountry, r.TaxResidenceCountry,
		r.TaxIdentificationNumber, r.USAddress, r.USPhoneNumber,
	} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
