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
	"strings"

	"github.com/blnkfinance/onboard/database"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/model"
	"github.com/sirupsen/logrus"
)

// Validator runs the duplicate checks that guard customer and account creation.
// Every rule is evaluated and the failures are reported together.
type Validator struct {
	datasource database.IDataSource
}

func NewValidator(ds database.IDataSource) *Validator {
	return &Validator{datasource: ds}
}

type violations []string

func (v *violations) add(format string, args ...interface{}) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return apierror.NewAPIError(apierror.ErrInvalidInput, strings.Join(v, "; "), []string(v))
}

// ValidateCustomer checks that no other customer of the same branch holds the identity
// number or the phone number of c. excludeID skips the customer being amended.
func (v *Validator) ValidateCustomer(ctx context.Context, c *model.Customer, excludeID string) error {
	var found violations
	if err := v.checkCustomer(ctx, c, excludeID, &found); err != nil {
		return err
	}
	return found.err()
}

// ValidateOnboarding runs the customer checks plus the per-type rule over the accounts
// submitted with a new customer.
func (v *Validator) ValidateOnboarding(ctx context.Context, c *model.Customer, accounts []model.Account) error {
	var found violations
	if strings.TrimSpace(c.BranchCode) == "" {
		found.add("branch code is required")
	} else if err := v.checkCustomer(ctx, c, "", &found); err != nil {
		return err
	}

	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.AccountType == "" || a.CurrencyCode == "" {
			found.add("account type and currency code are required")
			continue
		}
		key := model.NormalizeAccountCode(a.AccountType)
		if seen[key] {
			found.add("duplicate account type: %s", key)
			continue
		}
		seen[key] = true
	}
	return found.err()
}

// ValidateAccount rejects a second account of the same type for one customer.
func (v *Validator) ValidateAccount(ctx context.Context, a *model.Account) error {
	var found violations
	if a.AccountType == "" || a.CurrencyCode == "" {
		found.add("account type and currency code are required")
		return found.err()
	}

	exists, err := v.datasource.CustomerHasAccountType(ctx, a.BranchCode, a.SeqID, a.AccountType)
	if err != nil {
		return apierror.Internal("failed to validate account", err, logrus.Fields{
			"branch_code":  a.BranchCode,
			"seq_id":       a.SeqID,
			"account_type": a.AccountType,
		})
	}
	if exists {
		found.add("duplicate account type: %s", a.AccountType)
	}
	return found.err()
}

func (v *Validator) checkCustomer(ctx context.Context, c *model.Customer, excludeID string, found *violations) error {
	if number := c.DuplicateCheckNumber(); number != "" {
		id, err := v.datasource.FindCustomerIDByIdentityNumber(ctx, c.BranchCode, number, excludeID)
		if err != nil {
			return apierror.Internal("failed to validate customer", err, logrus.Fields{"branch_code": c.BranchCode, "check": "identity_number"})
		}
		if id != "" {
			found.add("customer already exists: identity number %s is registered in branch %s", number, c.BranchCode)
		}
	}

	if phone := strings.TrimSpace(c.PhoneNumber); phone != "" {
		id, err := v.datasource.FindCustomerIDByPhone(ctx, c.BranchCode, phone, excludeID)
		if err != nil {
			return apierror.Internal("failed to validate customer", err, logrus.Fields{"branch_code": c.BranchCode, "check": "phone_number"})
		}
		if id != "" {
			found.add("customer already exists: phone number %s is registered in branch %s", phone, c.BranchCode)
		}
	}
	return nil
}
