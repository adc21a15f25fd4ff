package model

import "strings"

// CustomerSortKey is the allow-listed set of sortable customer columns.
type CustomerSortKey string

const (
	SortByName   CustomerSortKey = "name"
	SortByBranch CustomerSortKey = "branch"
	SortBySeqID  CustomerSortKey = "seq_id"
	SortByStatus CustomerSortKey = "status"
)

// ResolveCustomerSortKey maps a caller supplied key to a sort key, falling back to name.
func ResolveCustomerSortKey(key string) CustomerSortKey {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "branch", "branch_code", "branchcode":
		return SortByBranch
	case "seq_id", "seqid", "id", "customer_id":
		return SortBySeqID
	case "status":
		return SortByStatus
	default:
		return SortByName
	}
}

// CustomerQuery describes one page request against the customer list.
type CustomerQuery struct {
	PageNumber     int
	PageSize       int
	Search         string
	SortBy         CustomerSortKey
	SortDescending bool
	Statuses       []LifecycleStatus
	ReviewStatuses []ReviewStatus
	// Branch scopes the query to one branch when set.
	Branch string
}

// Offset is the number of customers before the requested page.
func (q CustomerQuery) Offset() int {
	if q.PageNumber < 1 {
		return 0
	}
	return (q.PageNumber - 1) * q.PageSize
}

type CustomerPage struct {
	Data        []Customer `json:"data"`
	CurrentPage int        `json:"currentPage"`
	PageSize    int        `json:"pageSize"`
	TotalCount  int64      `json:"totalCount"`
	TotalPages  int        `json:"totalPages"`
}

// NewCustomerPage fills in the page metadata for a result slice.
func NewCustomerPage(data []Customer, pageNumber, pageSize int, total int64) *CustomerPage {
	if data == nil {
		data = []Customer{}
	}
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &CustomerPage{
		Data:        data,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  pages,
	}
}

// SplitList splits a comma separated filter value, trimming blanks.
func SplitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
