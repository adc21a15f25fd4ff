package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	module := "doc"
	id := GenerateUUIDWithSuffix(module)
	assert.Contains(t, id, module+"_")
}

func TestCustomerExternalID(t *testing.T) {
	assert.Equal(t, "0586000", CustomerExternalID("058", 6000))
	assert.Equal(t, "1016001", CustomerExternalID("101", 6001))
}

func TestAccountAttachTo(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	customer := &Customer{CustomerID: "0586000", BranchCode: "058", SeqID: 6000}

	acc := Account{AccountType: "SAVINGS", CurrencyCode: "USD"}
	acc.AttachTo(customer, now)

	assert.Equal(t, "058-SAVINGS-6000-USD", acc.AccountID)
	assert.Equal(t, "0586000", acc.CustomerID)
	assert.Equal(t, int64(6000), acc.SeqID)
	assert.Equal(t, now, acc.OpenDate)

	opened := now.Add(-48 * time.Hour)
	acc2 := Account{AccountType: "CURRENT", CurrencyCode: "IQD", OpenDate: opened}
	acc2.AttachTo(customer, now)
	assert.Equal(t, opened, acc2.OpenDate)
}

func TestAccountAttachToNormalizesCodes(t *testing.T) {
	customer := &Customer{CustomerID: "0586000", BranchCode: "058", SeqID: 6000}

	acc := Account{AccountType: " savings ", CurrencyCode: "usd"}
	acc.AttachTo(customer, time.Now())

	assert.Equal(t, "SAVINGS", acc.AccountType)
	assert.Equal(t, "USD", acc.CurrencyCode)
	assert.Equal(t, "058-SAVINGS-6000-USD", acc.AccountID)
}

func TestCustomerFullName(t *testing.T) {
	c := Customer{FirstName: "Ali", SecondName: " Kareem ", ThirdName: "", LastName: "Hassan"}
	assert.Equal(t, "Ali Kareem Hassan", c.FullName())
	assert.Equal(t, "", (&Customer{}).FullName())
}

func TestCustomerHasAccountType(t *testing.T) {
	c := Customer{Accounts: []Account{{AccountType: "SAVINGS"}}}
	assert.True(t, c.HasAccountType("savings"))
	assert.False(t, c.HasAccountType("CURRENT"))
}

func TestComplianceRecordID(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "0586000_20240102030405", ComplianceRecordID("0586000", at))
}

func TestComplianceRecordIsEmpty(t *testing.T) {
	var nilRecord *ComplianceRecord
	assert.True(t, nilRecord.IsEmpty())
	assert.True(t, (&ComplianceRecord{USAddress: "   "}).IsEmpty())
	assert.False(t, (&ComplianceRecord{TaxResidenceCountry: "US"}).IsEmpty())
}

func TestDuplicateCheckNumber(t *testing.T) {
	c := &Customer{IdentityNumber: "123"}
	assert.Equal(t, "123", c.DuplicateCheckNumber())

	c.SecondaryIDNumber = "A-77"
	assert.Equal(t, "A-77", c.DuplicateCheckNumber())
}

func TestDocumentPath(t *testing.T) {
	path, err := DocumentPath("058", "A77", DocumentSignature, "scan.PNG")
	assert.NoError(t, err)
	assert.Equal(t, "058/A77/signature.png", path)

	path, err = DocumentPath("058", "A77", DocumentNationalID, "noext")
	assert.NoError(t, err)
	assert.Equal(t, "058/A77/national_id", path)

	_, err = DocumentPath("058", "../etc", DocumentSignature, "x.png")
	assert.True(t, errors.Is(err, ErrUnsafePathSegment))

	_, err = DocumentPath("058", "A77", DocumentType("passport"), "x.png")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(ReviewPending, ReviewApproved))
	assert.True(t, CanTransition(ReviewPending, ReviewRejected))
	assert.False(t, CanTransition(ReviewApproved, ReviewRejected))
	assert.False(t, CanTransition(ReviewRejected, ReviewApproved))
	assert.False(t, CanTransition(ReviewPending, ReviewPending))
}

func TestEffectiveReviewStatuses(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		requested []ReviewStatus
		want      []ReviewStatus
	}{
		{
			name:      "reviewer always pending",
			role:      RoleReviewer,
			requested: []ReviewStatus{ReviewApproved},
			want:      []ReviewStatus{ReviewPending},
		},
		{
			name: "reviewer without request",
			role: RoleReviewer,
			want: []ReviewStatus{ReviewPending},
		},
		{
			name:      "officer drops pending",
			role:      RoleBranchOfficer,
			requested: []ReviewStatus{ReviewPending},
			want:      []ReviewStatus{ReviewApproved, ReviewRejected},
		},
		{
			name:      "officer keeps valid part of request",
			role:      RoleBranchOfficer,
			requested: []ReviewStatus{ReviewPending, ReviewRejected},
			want:      []ReviewStatus{ReviewRejected},
		},
		{
			name:      "admin unrestricted",
			role:      RoleAdmin,
			requested: []ReviewStatus{ReviewPending, ReviewApproved},
			want:      []ReviewStatus{ReviewPending, ReviewApproved},
		},
		{
			name: "unknown role unrestricted",
			role: Role("auditor"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewPolicyFor(tt.role).EffectiveReviewStatuses(tt.requested)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewPolicyAssignAndSee(t *testing.T) {
	reviewer := ReviewPolicyFor(RoleReviewer)
	assert.True(t, reviewer.CanAssign(ReviewApproved))
	assert.True(t, reviewer.CanSee(ReviewPending))
	assert.False(t, reviewer.CanSee(ReviewApproved))

	officer := ReviewPolicyFor(RoleBranchOfficer)
	assert.False(t, officer.CanAssign(ReviewApproved))
	assert.False(t, officer.CanSee(ReviewPending))

	dataEntry := ReviewPolicyFor(RoleDataEntry)
	assert.False(t, dataEntry.CanAssign(ReviewRejected))
	assert.True(t, dataEntry.CanSee(ReviewRejected))
}

func TestResolveCustomerSortKey(t *testing.T) {
	assert.Equal(t, SortByName, ResolveCustomerSortKey(""))
	assert.Equal(t, SortByName, ResolveCustomerSortKey("drop table"))
	assert.Equal(t, SortByBranch, ResolveCustomerSortKey("Branch"))
	assert.Equal(t, SortBySeqID, ResolveCustomerSortKey("seqId"))
	assert.Equal(t, SortByStatus, ResolveCustomerSortKey("status"))
}

func TestNewCustomerPage(t *testing.T) {
	page := NewCustomerPage(nil, 2, 10, 21)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.NotNil(t, page.Data)

	empty := NewCustomerPage(nil, 1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"New", "Update"}, SplitList(" New, ,Update "))
	assert.Nil(t, SplitList(""))
}
