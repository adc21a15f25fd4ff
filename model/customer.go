package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LifecycleStatus tells whether a submission registers a new customer or amends an existing one.
type LifecycleStatus string

const (
	LifecycleNew    LifecycleStatus = "New"
	LifecycleUpdate LifecycleStatus = "Update"
)

func (s LifecycleStatus) Valid() bool {
	return s == LifecycleNew || s == LifecycleUpdate
}

type Customer struct {
	CustomerID        string            `json:"customer_id" form:"customer_id"`
	BranchCode        string            `json:"branch_code" form:"branch_code"`
	SeqID             int64             `json:"seq_id" form:"seq_id"`
	Name              string            `json:"name" form:"name"`
	FirstName         string            `json:"first_name" form:"first_name"`
	SecondName        string            `json:"second_name" form:"second_name"`
	ThirdName         string            `json:"third_name" form:"third_name"`
	LastName          string            `json:"last_name" form:"last_name"`
	MotherName        string            `json:"mother_name" form:"mother_name"`
	Gender            string            `json:"gender" form:"gender"`
	BirthDate         *time.Time        `json:"birth_date,omitempty" form:"birth_date"`
	BirthPlace        string            `json:"birth_place" form:"birth_place"`
	IDType            string            `json:"id_type" form:"id_type"`
	IdentityNumber    string            `json:"identity_number" form:"identity_number"`
	SecondaryIDNumber string            `json:"secondary_id_number" form:"secondary_id_number"`
	IDIssueDate       *time.Time        `json:"id_issue_date,omitempty" form:"id_issue_date"`
	IDExpiryDate      *time.Time        `json:"id_expiry_date,omitempty" form:"id_expiry_date"`
	IDIssuePlace      string            `json:"id_issue_place" form:"id_issue_place"`
	Nationality       string            `json:"nationality" form:"nationality"`
	Address           string            `json:"address" form:"address"`
	City              string            `json:"city" form:"city"`
	PhoneNumber       string            `json:"phone_number" form:"phone_number"`
	Email             string            `json:"email" form:"email"`
	Occupation        string            `json:"occupation" form:"occupation"`
	Employer          string            `json:"employer" form:"employer"`
	MonthlyIncome     decimal.Decimal   `json:"monthly_income" form:"monthly_income"`
	Status            LifecycleStatus   `json:"status" form:"status"`
	ReviewStatus      ReviewStatus      `json:"review_status" form:"review_status"`
	ReviewedBy        string            `json:"reviewed_by,omitempty" form:"reviewed_by"`
	ReviewedAt        *time.Time        `json:"reviewed_at,omitempty" form:"reviewed_at"`
	CreatedBy         string            `json:"created_by,omitempty" form:"created_by"`
	CreatedAt         time.Time         `json:"created_at" form:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" form:"updated_at"`
	Accounts          []Account         `json:"accounts"`
	Documents         []Document        `json:"documents"`
	Compliance        *ComplianceRecord `json:"compliance,omitempty"`
}

// DuplicateCheckNumber returns the identity number used for duplicate detection.
// The secondary number wins when present.
func (c *Customer) DuplicateCheckNumber() string {
	if n := strings.TrimSpace(c.SecondaryIDNumber); n != "" {
		return n
	}
	return strings.TrimSpace(c.IdentityNumber)
}

// DocumentFolder is the folder discriminator used in document storage paths.
func (c *Customer) DocumentFolder() string {
	if n := strings.TrimSpace(c.SecondaryIDNumber); n != "" {
		return n
	}
	return c.CustomerID
}

// FullName joins the non-empty name parts.
func (c *Customer) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.FirstName, c.SecondName, c.ThirdName, c.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HasAccountType reports whether the customer already holds an account of the given type.
func (c *Customer) HasAccountType(accountType string) bool {
	for _, a := range c.Accounts {
		if strings.EqualFold(a.AccountType, accountType) {
			return true
		}
	}
	return false
}
