package database

import (
	"context"
	"fmt"

	"github.com/blnkfinance/onboard/model"
)

var accountColumnNames = []string{
	"account_id", "customer_id", "branch_code", "seq_id", "account_type", "currency_code", "open_date", "created_at",
}

func accountScanDest(a *model.Account) []interface{} {
	return []interface{}{
		&a.AccountID, &a.CustomerID, &a.BranchCode, &a.SeqID, &a.AccountType, &a.CurrencyCode, &a.OpenDate, &a.CreatedAt,
	}
}

// InsertAccount writes an account that has already been attached to its customer.
func (d Datasource) InsertAccount(ctx context.Context, uow UnitOfWork, a *model.Account) error {
	query := fmt.Sprintf(`INSERT INTO onboard.accounts (%s) VALUES (%s)`,
		columnList("", accountColumnNames), placeholderList(1, len(accountColumnNames)))

	_, err := d.exec(uow).ExecContext(ctx, query,
		a.AccountID, a.CustomerID, a.BranchCode, a.SeqID, a.AccountType, a.CurrencyCode, a.OpenDate, a.CreatedAt)
	return err
}

func (d Datasource) CustomerHasAccountType(ctx context.Context, branchCode string, seqID int64, accountType string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM onboard.accounts
			WHERE branch_code = $1 AND seq_id = $2 AND upper(account_type) = upper($3)
		)
	`, branchCode, seqID, accountType).Scan(&exists)
	return exists, err
}
