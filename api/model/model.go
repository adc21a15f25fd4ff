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

package model

import (
	"errors"
	"regexp"

	"github.com/blnkfinance/onboard/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var (
	branchCodePattern   = regexp.MustCompile(`^[0-9A-Za-z]{1,10}$`)
	currencyCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

func customerRules(c *model.Customer) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BranchCode, validation.Required, validation.Match(branchCodePattern)),
		validation.Field(&c.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.IdentityNumber, validation.By(identityPresent(c))),
		validation.Field(&c.Status, validation.In(model.LifecycleNew, model.LifecycleUpdate)),
		validation.Field(&c.MonthlyIncome, validation.By(nonNegative)),
	)
}

func identityPresent(c *model.Customer) validation.RuleFunc {
	return func(value interface{}) error {
		if c.DuplicateCheckNumber() == "" {
			return errors.New("identity_number or secondary_id_number is required")
		}
		return nil
	}
}

func nonNegative(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("invalid amount")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func (o *OnboardCustomer) ValidateOnboardCustomer() error {
	if err := customerRules(&o.Customer); err != nil {
		return err
	}
	return validation.ValidateStruct(o,
		validation.Field(&o.Accounts),
	)
}

func (u *UpdateCustomer) ValidateUpdateCustomer() error {
	return customerRules(&u.Customer)
}

func (a AccountInput) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.AccountType, validation.Required, validation.Length(1, 30)),
		validation.Field(&a.CurrencyCode, validation.Required, validation.Match(currencyCodePattern)),
	)
}

func (a *CreateAccount) ValidateCreateAccount() error {
	if err := validation.ValidateStruct(a,
		validation.Field(&a.CustomerID, validation.Required),
	); err != nil {
		return err
	}
	return a.AccountInput.Validate()
}

func (r *ReviewCustomer) ValidateReviewCustomer() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ReviewStatus, validation.Required, validation.By(func(value interface{}) error {
			status, _ := value.(string)
			if _, ok := model.ParseReviewStatus(status); !ok {
				return errors.New("must be one of Pending, Approved, Rejected")
			}
			return nil
		})),
	)
}

func (r *Reconcile) ValidateReconcile() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GracePeriodSec, validation.Min(0)),
	)
}

