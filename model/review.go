package model

import "strings"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "Pending"
	ReviewApproved ReviewStatus = "Approved"
	ReviewRejected ReviewStatus = "Rejected"
)

// ParseReviewStatus matches a review status case-insensitively.
func ParseReviewStatus(s string) (ReviewStatus, bool) {
	for _, rs := range []ReviewStatus{ReviewPending, ReviewApproved, ReviewRejected} {
		if strings.EqualFold(strings.TrimSpace(s), string(rs)) {
			return rs, true
		}
	}
	return "", false
}

// CanTransition reports whether a customer may move from one review status to another.
// Approved and Rejected are terminal.
func CanTransition(from, to ReviewStatus) bool {
	return from == ReviewPending && (to == ReviewApproved || to == ReviewRejected)
}

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleReviewer      Role = "reviewer"
	RoleBranchOfficer Role = "branch_officer"
	RoleDataEntry     Role = "data_entry"
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Branch string `json:"branch"`
}

// Unrestricted reports whether the caller bypasses branch scoping.
func (c Caller) Unrestricted() bool {
	return c.Role == RoleAdmin
}

// CanAccessBranch reports whether the caller may touch records of the given branch.
func (c Caller) CanAccessBranch(branch string) bool {
	return c.Unrestricted() || c.Branch == "" || c.Branch == branch
}

// ReviewPolicy is the set of review statuses a role may see and assign.
// A nil Visible set means no restriction.
type ReviewPolicy struct {
	Visible    []ReviewStatus
	Assignable []ReviewStatus
}

var reviewPolicies = map[Role]ReviewPolicy{
	RoleAdmin: {
		Visible:    nil,
		Assignable: []ReviewStatus{ReviewApproved, ReviewRejected},
	},
	RoleReviewer: {
		Visible:    []ReviewStatus{ReviewPending},
		Assignable: []ReviewStatus{ReviewApproved, ReviewRejected},
	},
	RoleBranchOfficer: {
		Visible:    []ReviewStatus{ReviewApproved, ReviewRejected},
		Assignable: nil,
	},
}

// ReviewPolicyFor returns the policy of a role. Roles without an entry see every
// status and may assign none.
func ReviewPolicyFor(role Role) ReviewPolicy {
	if p, ok := reviewPolicies[role]; ok {
		return p
	}
	return ReviewPolicy{}
}

func (p ReviewPolicy) restricted() bool {
	return p.Visible != nil
}

// CanSee reports whether a record in the given status is visible under the policy.
func (p ReviewPolicy) CanSee(status ReviewStatus) bool {
	if !p.restricted() {
		return true
	}
	return containsStatus(p.Visible, status)
}

// CanAssign reports whether the policy allows moving a record into the given status.
func (p ReviewPolicy) CanAssign(status ReviewStatus) bool {
	return containsStatus(p.Assignable, status)
}

// EffectiveReviewStatuses narrows a requested filter to what the policy allows.
// Requests outside the visible set are dropped; when nothing remains the whole
// visible set is used. Unrestricted policies return the request unchanged.
func (p ReviewPolicy) EffectiveReviewStatuses(requested []ReviewStatus) []ReviewStatus {
	if !p.restricted() {
		return requested
	}
	allowed := make([]ReviewStatus, 0, len(p.Visible))
	for _, rs := range requested {
		if containsStatus(p.Visible, rs) && !containsStatus(allowed, rs) {
			allowed = append(allowed, rs)
		}
	}
	if len(allowed) == 0 {
		return append(allowed, p.Visible...)
	}
	return allowed
}

func containsStatus(set []ReviewStatus, status ReviewStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
