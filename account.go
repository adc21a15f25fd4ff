/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package onboard

import (
	"context"
	"fmt"

	"github.com/blnkfinance/onboard/database"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/model"
	"github.com/sirupsen/logrus"
)

// CreateAccount opens another account for an existing customer. A customer holds at most
// one account of each type.
func (o *Onboard) CreateAccount(ctx context.Context, account model.Account, caller model.Caller) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "CreateAccount")
	defer span.End()

	customer, err := o.GetCustomer(ctx, account.CustomerID, caller)
	if err != nil {
		return nil, err
	}

	account.Normalize()
	if customer.HasAccountType(account.AccountType) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("duplicate account type: %s", account.AccountType), nil)
	}

	account.AttachTo(customer, o.clock())
	if err := NewValidator(o.datasource).ValidateAccount(ctx, &account); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"customer_id": customer.CustomerID, "account_type": account.AccountType}
	uow, err := o.datasource.Begin(ctx)
	if err != nil {
		return nil, storeError("failed to create account", err, fields)
	}
	defer func() { _ = uow.Rollback() }()

	if err := o.datasource.InsertAccount(ctx, uow, &account); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
				fmt.Sprintf("duplicate account type: %s", account.AccountType), []string{err.Error()})
		}
		return nil, storeError("failed to create account", err, fields)
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to create account", err, fields)
	}

	o.invalidate(ctx, customer.CustomerID)
	return &account, nil
}
