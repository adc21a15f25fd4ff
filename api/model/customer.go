package model

import (
	"time"

	"github.com/blnkfinance/onboard/model"
)

// OnboardCustomer is the body of a customer submission. Multipart submissions carry it as
// the "payload" field next to the document files.
type OnboardCustomer struct {
	Customer   model.Customer          `json:"customer"`
	Accounts   []AccountInput          `json:"accounts"`
	Compliance *model.ComplianceRecord `json:"compliance,omitempty"`
}

type AccountInput struct {
	AccountType  string     `json:"account_type"`
	CurrencyCode string     `json:"currency_code"`
	OpenDate     *time.Time `json:"open_date,omitempty"`
}

type UpdateCustomer struct {
	model.Customer
}

type ReviewCustomer struct {
	ReviewStatus string `json:"review_status"`
}

type Reconcile struct {
	Prune          bool `json:"prune"`
	GracePeriodSec *int `json:"grace_period_sec,omitempty"`
	Wait           bool `json:"wait"`
}

func (a AccountInput) ToAccount() model.Account {
	account := model.Account{
		AccountType:  model.NormalizeAccountCode(a.AccountType),
		CurrencyCode: model.NormalizeAccountCode(a.CurrencyCode),
	}
	if a.OpenDate != nil {
		account.OpenDate = a.OpenDate.UTC()
	}
	return account
}

// ToRequest builds the onboarding request; documents are attached by the handler.
func (o *OnboardCustomer) ToRequest(caller model.Caller) model.OnboardingRequest {
	accounts := make([]model.Account, 0, len(o.Accounts))
	for _, a := range o.Accounts {
		accounts = append(accounts, a.ToAccount())
	}
	return model.OnboardingRequest{
		Customer:   o.Customer,
		Accounts:   accounts,
		Compliance: o.Compliance,
		Caller:     caller,
	}
}

// Status returns the parsed target status. Call ValidateReviewCustomer first.
func (r *ReviewCustomer) Status() model.ReviewStatus {
	status, _ := model.ParseReviewStatus(r.ReviewStatus)
	return status
}

// ToOptions applies the request on top of the configured sweep defaults.
func (r *Reconcile) ToOptions(defaults time.Duration) (prune bool, grace time.Duration) {
	grace = defaults
	if r.GracePeriodSec != nil {
		grace = time.Duration(*r.GracePeriodSec) * time.Second
	}
	return r.Prune, grace
}
