package model

// OnboardingRequest is everything captured for one customer registration.
type OnboardingRequest struct {
	Customer   Customer
	Accounts   []Account
	Compliance *ComplianceRecord
	Documents  []DocumentUpload
	Caller     Caller
}
