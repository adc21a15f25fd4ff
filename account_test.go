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
	"testing"

	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/model"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	h := newHarness(t)

	customer := storedCustomer("058", 6000, model.ReviewApproved)
	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(customer, nil)
	h.ds.On("CustomerHasAccountType", mock.Anything, "058", int64(6000), "DEPOSIT").Return(false, nil)
	uow := h.expectUnitOfWork(nil)
	h.ds.On("InsertAccount", mock.Anything, uow, mock.AnythingOfType("*model.Account")).Return(nil)
	h.ds.On("InvalidateCustomer", mock.Anything, "0586000").Return(nil)

	account, err := h.onboard.CreateAccount(context.Background(),
		model.Account{CustomerID: "0586000", AccountType: "DEPOSIT", CurrencyCode: "EUR"}, dataEntry("058"))
	require.NoError(t, err)
	assert.Equal(t, "058-DEPOSIT-6000-EUR", account.AccountID)
	assert.Equal(t, fixedTime, account.OpenDate)
	uow.AssertCalled(t, "Commit")
}

func TestCreateAccount_DuplicateType(t *testing.T) {
	h := newHarness(t)

	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(storedCustomer("058", 6000, model.ReviewPending), nil)
	h.ds.On("CustomerHasAccountType", mock.Anything, "058", int64(6000), "SAVINGS").Return(true, nil)

	_, err := h.onboard.CreateAccount(context.Background(),
		model.Account{CustomerID: "0586000", AccountType: "SAVINGS", CurrencyCode: "USD"}, dataEntry("058"))
	require.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
	assert.Contains(t, err.Error(), "duplicate account type: SAVINGS")
	h.ds.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCreateAccount_ExistingTypeOnAggregate(t *testing.T) {
	h := newHarness(t)

	customer := storedCustomer("058", 6000, model.ReviewPending)
	customer.Accounts = []model.Account{{AccountID: "058-SAVINGS-6000-USD", AccountType: "SAVINGS", CurrencyCode: "USD"}}
	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(customer, nil)

	_, err := h.onboard.CreateAccount(context.Background(),
		model.Account{CustomerID: "0586000", AccountType: "savings", CurrencyCode: "eur"}, dataEntry("058"))
	require.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
	assert.Contains(t, err.Error(), "duplicate account type: SAVINGS")
	h.ds.AssertNotCalled(t, "CustomerHasAccountType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	h.ds.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCreateAccount_NormalizesType(t *testing.T) {
	h := newHarness(t)

	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(storedCustomer("058", 6000, model.ReviewPending), nil)
	h.ds.On("CustomerHasAccountType", mock.Anything, "058", int64(6000), "CURRENT").Return(false, nil)
	uow := h.expectUnitOfWork(nil)
	h.ds.On("InsertAccount", mock.Anything, uow, mock.AnythingOfType("*model.Account")).Return(nil)
	h.ds.On("InvalidateCustomer", mock.Anything, "0586000").Return(nil)

	account, err := h.onboard.CreateAccount(context.Background(),
		model.Account{CustomerID: "0586000", AccountType: "current ", CurrencyCode: "iqd"}, dataEntry("058"))
	require.NoError(t, err)
	assert.Equal(t, "CURRENT", account.AccountType)
	assert.Equal(t, "058-CURRENT-6000-IQD", account.AccountID)
}

func TestCreateAccount_RaceOnUniqueKey(t *testing.T) {
	h := newHarness(t)

	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(storedCustomer("058", 6000, model.ReviewPending), nil)
	h.ds.On("CustomerHasAccountType", mock.Anything, "058", int64(6000), "SAVINGS").Return(false, nil)
	uow := h.expectUnitOfWork(nil)
	h.ds.On("InsertAccount", mock.Anything, uow, mock.Anything).Return(&pq.Error{Code: "23505"})

	_, err := h.onboard.CreateAccount(context.Background(),
		model.Account{CustomerID: "0586000", AccountType: "SAVINGS", CurrencyCode: "USD"}, dataEntry("058"))
	assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
	uow.AssertNotCalled(t, "Commit")
}

func TestCreateAccount_HiddenCustomer(t *testing.T) {
	h := newHarness(t)
	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(storedCustomer("058", 6000, model.ReviewPending), nil)

	_, err := h.onboard.CreateAccount(context.Background(),
		model.Account{CustomerID: "0586000", AccountType: "SAVINGS", CurrencyCode: "USD"}, dataEntry("059"))
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
}

func TestCreateAccount_MissingFields(t *testing.T) {
	h := newHarness(t)
	h.ds.On("GetCustomerByID", mock.Anything, "0586000").Return(storedCustomer("058", 6000, model.ReviewPending), nil)

	_, err := h.onboard.CreateAccount(context.Background(), model.Account{CustomerID: "0586000"}, dataEntry("058"))
	assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
}
