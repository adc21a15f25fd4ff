package database

import (
	"context"
	"fmt"

	"github.com/blnkfinance/onboard/internal/filter"
	"github.com/blnkfinance/onboard/model"
	"golang.org/x/sync/errgroup"
)

// customerFilters turns a page query into structured predicates over onboard.customers.
func customerFilters(q model.CustomerQuery) *filter.QueryFilterSet {
	set := &filter.QueryFilterSet{}

	if q.Branch != "" {
		set.Add(filter.QueryFilter{Field: "branch_code", Operator: filter.OpEqual, Value: q.Branch})
	}
	if len(q.Statuses) > 0 {
		values := make([]interface{}, len(q.Statuses))
		for i, s := range q.Statuses {
			values[i] = string(s)
		}
		set.Add(filter.QueryFilter{Field: "status", Operator: filter.OpIn, Values: values})
	}
	if len(q.ReviewStatuses) > 0 {
		values := make([]interface{}, len(q.ReviewStatuses))
		for i, s := range q.ReviewStatuses {
			values[i] = string(s)
		}
		set.Add(filter.QueryFilter{Field: "review_status", Operator: filter.OpIn, Values: values})
	}
	if q.Search != "" {
		set.Add(filter.QueryFilter{Operator: filter.OpSearch, Value: q.Search})
	}
	return set
}

func customerSortColumn(key model.CustomerSortKey) string {
	switch key {
	case model.SortByBranch:
		return "branch_code"
	case model.SortBySeqID:
		return "seq_id"
	case model.SortByStatus:
		return "status"
	default:
		return "name"
	}
}

// ListCustomers returns one page of customers with their accounts and documents, and the
// number of customers matching the query. Pages count customers, never joined rows.
func (d Datasource) ListCustomers(ctx context.Context, q model.CustomerQuery) ([]model.Customer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	built, err := filter.Build(customerFilters(q), "customers", "c", 1)
	if err != nil {
		return nil, 0, err
	}
	where := built.Where()

	order := filter.SortAsc
	if q.SortDescending {
		order = filter.SortDesc
	}
	orderBy := filter.BuildOrderBy(customerSortColumn(q.SortBy), order, "customers", "c", "customer_id")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(DISTINCT (c.branch_code, c.seq_id)) FROM onboard.customers c%s`, where)
	if err := d.Conn.QueryRowContext(ctx, countQuery, built.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Customer{}, 0, nil
	}

	offset := q.Offset()
	pageQuery := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s, ROW_NUMBER() OVER (ORDER BY %s) AS rn
			FROM onboard.customers c%s
		) p
		WHERE p.rn > $%d AND p.rn <= $%d
		ORDER BY p.rn
	`, columnList("p", customerColumnNames), columnList("c", customerColumnNames), orderBy, where,
		built.NextArgPos, built.NextArgPos+1)

	args := append(append([]interface{}{}, built.Args...), offset, offset+q.PageSize)
	rows, err := d.Conn.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(customerScanDest(&c)...); err != nil {
			return nil, 0, err
		}
		c.Accounts = []model.Account{}
		c.Documents = []model.Document{}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := d.attachDependents(ctx, customers); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// attachDependents batch-loads the accounts and documents of a page concurrently and
// stitches them onto their customers.
func (d Datasource) attachDependents(ctx context.Context, customers []model.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	var accounts []model.Account
	var documents []model.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = d.accountsForCustomers(gctx, customers)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = d.documentsForCustomers(gctx, customers)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	index := make(map[string]int, len(customers))
	for i := range customers {
		index[customers[i].CustomerID] = i
	}
	for _, a := range accounts {
		if i, ok := index[model.CustomerExternalID(a.BranchCode, a.SeqID)]; ok {
			customers[i].Accounts = append(customers[i].Accounts, a)
		}
	}
	for _, doc := range documents {
		if i, ok := index[doc.CustomerID]; ok {
			customers[i].Documents = append(customers[i].Documents, doc)
		}
	}
	return nil
}

func (d Datasource) accountsForCustomers(ctx context.Context, customers []model.Customer) ([]model.Account, error) {
	keys := make([][]interface{}, len(customers))
	for i, c := range customers {
		keys[i] = []interface{}{c.BranchCode, c.SeqID}
	}
	cond, args, _ := filter.BuildTupleIn("a", []string{"branch_code", "seq_id"}, keys, 1)

	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM onboard.accounts a
		WHERE %s
		ORDER BY a.account_id
	`, columnList("a", accountColumnNames), cond), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(accountScanDest(&a)...); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d Datasource) documentsForCustomers(ctx context.Context, customers []model.Customer) ([]model.Document, error) {
	ids := make([]interface{}, len(customers))
	for i, c := range customers {
		ids[i] = c.CustomerID
	}
	set := &filter.QueryFilterSet{}
	set.Add(filter.QueryFilter{Field: "customer_id", Operator: filter.OpIn, Values: ids})
	built, err := filter.Build(set, "documents", "d", 1)
	if err != nil {
		return nil, err
	}

	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM onboard.documents d%s
		ORDER BY d.customer_id, d.document_type
	`, columnList("d", documentColumnNames), built.Where()), built.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(documentScanDest(&doc)...); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
