package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/internal/cache"
	"github.com/blnkfinance/onboard/model"
	"github.com/sirupsen/logrus"
)

var customerColumnNames = []string{
	"customer_id", "branch_code", "seq_id", "name", "first_name", "second_name", "third_name",
	"last_name", "mother_name", "gender", "birth_date", "birth_place", "id_type", "identity_number",
	"secondary_id_number", "id_issue_date", "id_expiry_date", "id_issue_place", "nationality",
	"address", "city", "phone_number", "email", "occupation", "employer", "monthly_income", "status",
	"review_status", "reviewed_by", "reviewed_at", "created_by", "created_at", "updated_at",
}

// columnList renders names as a select list, each qualified with alias.
func columnList(alias string, names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = qualify(alias, n)
	}
	return strings.Join(out, ", ")
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

func customerArgs(c *model.Customer) []interface{} {
	return []interface{}{
		c.CustomerID, c.BranchCode, c.SeqID, c.Name, c.FirstName, c.SecondName, c.ThirdName,
		c.LastName, c.MotherName, c.Gender, c.BirthDate, c.BirthPlace, c.IDType, c.IdentityNumber,
		c.SecondaryIDNumber, c.IDIssueDate, c.IDExpiryDate, c.IDIssuePlace, c.Nationality,
		c.Address, c.City, c.PhoneNumber, c.Email, c.Occupation, c.Employer, c.MonthlyIncome, c.Status,
		c.ReviewStatus, c.ReviewedBy, c.ReviewedAt, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	}
}

func customerScanDest(c *model.Customer) []interface{} {
	return []interface{}{
		&c.CustomerID, &c.BranchCode, &c.SeqID, &c.Name, &c.FirstName, &c.SecondName, &c.ThirdName,
		&c.LastName, &c.MotherName, &c.Gender, &c.BirthDate, &c.BirthPlace, &c.IDType, &c.IdentityNumber,
		&c.SecondaryIDNumber, &c.IDIssueDate, &c.IDExpiryDate, &c.IDIssuePlace, &c.Nationality,
		&c.Address, &c.City, &c.PhoneNumber, &c.Email, &c.Occupation, &c.Employer, &c.MonthlyIncome, &c.Status,
		&c.ReviewStatus, &c.ReviewedBy, &c.ReviewedAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	}
}

func placeholderList(start, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(out, ", ")
}

// InsertCustomer writes a new customer row inside uow.
func (d Datasource) InsertCustomer(ctx context.Context, uow UnitOfWork, c *model.Customer) error {
	query := fmt.Sprintf(`INSERT INTO onboard.customers (%s) VALUES (%s)`,
		columnList("", customerColumnNames), placeholderList(1, len(customerColumnNames)))

	_, err := d.exec(uow).ExecContext(ctx, query, customerArgs(c)...)
	return err
}

// UpdateCustomer rewrites the mutable fields of an existing customer, including the review
// state and stamps. Keys and creation metadata are left alone.
func (d Datasource) UpdateCustomer(ctx context.Context, uow UnitOfWork, c *model.Customer) error {
	result, err := d.exec(uow).ExecContext(ctx, `
		UPDATE onboard.customers
		SET name = $2, first_name = $3, second_name = $4, third_name = $5, last_name = $6, mother_name = $7,
			gender = $8, birth_date = $9, birth_place = $10, id_type = $11, identity_number = $12,
			secondary_id_number = $13, id_issue_date = $14, id_expiry_date = $15, id_issue_place = $16,
			nationality = $17, address = $18, city = $19, phone_number = $20, email = $21, occupation = $22,
			employer = $23, monthly_income = $24, status = $25, review_status = $26, updated_at = $27,
			reviewed_by = $28, reviewed_at = $29
		WHERE customer_id = $1
	`, c.CustomerID, c.Name, c.FirstName, c.SecondName, c.ThirdName, c.LastName, c.MotherName,
		c.Gender, c.BirthDate, c.BirthPlace, c.IDType, c.IdentityNumber,
		c.SecondaryIDNumber, c.IDIssueDate, c.IDExpiryDate, c.IDIssuePlace,
		c.Nationality, c.Address, c.City, c.PhoneNumber, c.Email, c.Occupation,
		c.Employer, c.MonthlyIncome, c.Status, c.ReviewStatus, c.UpdatedAt, c.ReviewedBy, c.ReviewedAt)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("customer with ID '%s' not found", c.CustomerID), nil)
	}
	return nil
}

func (d Datasource) findCustomerID(ctx context.Context, query string, args ...interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id string
	err := d.Conn.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (d Datasource) FindCustomerIDByIdentityNumber(ctx context.Context, branchCode, number, excludeID string) (string, error) {
	return d.findCustomerID(ctx, `
		SELECT customer_id FROM onboard.customers
		WHERE branch_code = $1 AND (identity_number = $2 OR secondary_id_number = $2) AND customer_id <> $3
		LIMIT 1
	`, branchCode, number, excludeID)
}

func (d Datasource) FindCustomerIDByPhone(ctx context.Context, branchCode, phone, excludeID string) (string, error) {
	return d.findCustomerID(ctx, `
		SELECT customer_id FROM onboard.customers
		WHERE branch_code = $1 AND phone_number = $2 AND customer_id <> $3
		LIMIT 1
	`, branchCode, phone, excludeID)
}

// GetCustomerByID loads a customer with its accounts, documents and compliance record in
// one joined query. Results are served from the cache when present.
func (d Datasource) GetCustomerByID(ctx context.Context, customerID string) (*model.Customer, error) {
	key := cache.CustomerKey(customerID)
	if d.Cache != nil {
		var cached model.Customer
		if err := d.Cache.Get(ctx, key, &cached); err == nil && cached.CustomerID != "" {
			return &cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s,
			a.account_id, a.account_type, a.currency_code, a.open_date, a.created_at,
			d.document_id, d.document_type, d.path, d.file_name, d.size, d.mime_type, d.created_at,
			r.compliance_id, r.us_citizen, r.citizenship_country, r.tax_residence_country,
			r.tax_identification_number, r.us_address, r.us_phone_number, r.created_at
		FROM onboard.customers c
		LEFT JOIN onboard.accounts a ON a.branch_code = c.branch_code AND a.seq_id = c.seq_id
		LEFT JOIN onboard.documents d ON d.customer_id = c.customer_id
		LEFT JOIN onboard.compliance_records r ON r.customer_id = c.customer_id
		WHERE c.customer_id = $1
		ORDER BY a.account_id, d.document_type, d.document_id
	`, columnList("c", customerColumnNames))

	rows, err := d.Conn.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agg *model.Customer
	var rec reconstructor
	for rows.Next() {
		var row joinedRow
		dest := append(customerScanDest(&row.customer), row.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		agg = rec.merge(row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if agg == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("customer with ID '%s' not found", customerID), sql.ErrNoRows)
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, key, agg, d.cacheTTL()); err != nil {
			logrus.WithError(err).WithField("customer_id", customerID).Warn("failed to cache customer")
		}
	}
	return agg, nil
}

// SetReviewStatus applies a review decision only while the customer is still Pending.
func (d Datasource) SetReviewStatus(ctx context.Context, customerID string, status model.ReviewStatus, reviewer string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE onboard.customers
		SET review_status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = $3
		WHERE customer_id = $4 AND review_status = $5
	`, status, reviewer, at, customerID, model.ReviewPending)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (d Datasource) InvalidateCustomer(ctx context.Context, customerID string) error {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.Delete(ctx, cache.CustomerKey(customerID))
}
