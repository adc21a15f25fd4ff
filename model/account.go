package model

import (
	"strings"
	"time"
)

type Account struct {
	AccountID    string    `json:"account_id" form:"account_id"`
	CustomerID   string    `json:"customer_id" form:"customer_id"`
	BranchCode   string    `json:"branch_code" form:"branch_code"`
	SeqID        int64     `json:"seq_id" form:"seq_id"`
	AccountType  string    `json:"account_type" form:"account_type"`
	CurrencyCode string    `json:"currency_code" form:"currency_code"`
	OpenDate     time.Time `json:"open_date" form:"open_date"`
	CreatedAt    time.Time `json:"created_at" form:"created_at"`
}

// NormalizeAccountCode trims and upper-cases an account type or currency code so that
// "savings" and "SAVINGS" name the same type.
func NormalizeAccountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Normalize canonicalizes the account type and currency code.
func (a *Account) Normalize() {
	a.AccountType = NormalizeAccountCode(a.AccountType)
	a.CurrencyCode = NormalizeAccountCode(a.CurrencyCode)
}

// AttachTo binds the account to its owning customer and derives its identifier.
// A zero open date defaults to now.
func (a *Account) AttachTo(c *Customer, now time.Time) {
	a.Normalize()
	a.CustomerID = c.CustomerID
	a.BranchCode = c.BranchCode
	a.SeqID = c.SeqID
	if a.OpenDate.IsZero() {
		a.OpenDate = now
	}
	a.CreatedAt = now
	a.AccountID = AccountExternalID(a.BranchCode, a.AccountType, a.SeqID, a.CurrencyCode)
}
