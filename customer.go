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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blnkfinance/onboard/database"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/model"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateCustomer registers a customer with its accounts and compliance record as one unit
// of work, then stores the uploaded documents. A clash on a generated key retries the whole
// unit with a fresh sequence number.
func (o *Onboard) CreateCustomer(ctx context.Context, req model.OnboardingRequest) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "CreateCustomer")
	defer span.End()

	customer := req.Customer
	customer.ReviewStatus = model.ReviewPending
	customer.ReviewedBy = ""
	customer.ReviewedAt = nil
	if customer.Status == "" {
		customer.Status = model.LifecycleNew
	}
	if customer.CreatedBy == "" {
		customer.CreatedBy = req.Caller.UserID
	}
	if strings.TrimSpace(customer.Name) == "" {
		customer.Name = customer.FullName()
	}

	if customer.BranchCode != "" && !req.Caller.CanAccessBranch(customer.BranchCode) {
		return nil, apierror.NewAPIError(apierror.ErrForbidden,
			fmt.Sprintf("caller cannot onboard customers in branch %s", customer.BranchCode), nil)
	}
	accounts := make([]model.Account, len(req.Accounts))
	for i, a := range req.Accounts {
		a.Normalize()
		accounts[i] = a
	}
	if err := NewValidator(o.datasource).ValidateOnboarding(ctx, &customer, accounts); err != nil {
		span.RecordError(err)
		return nil, err
	}

	cfg := loadSettings()

	attempt := 0
	operation := func() error {
		attempt++
		err := o.commitCustomer(ctx, &customer, accounts, req.Compliance, cfg.floor)
		if err == nil {
			return nil
		}
		if database.IsUniqueViolation(err) {
			logrus.WithFields(logrus.Fields{
				"branch_code": customer.BranchCode,
				"seq_id":      customer.SeqID,
				"attempt":     attempt,
			}).Warn("constraint violation while onboarding customer, retrying with a new sequence")
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, sequenceBackoff(ctx, cfg.attempts)); err != nil {
		span.RecordError(err)
		var apiErr apierror.APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, apierror.Internal("failed to onboard customer", err, logrus.Fields{
			"branch_code": customer.BranchCode,
			"attempts":    attempt,
		})
	}

	customer.Accounts = accounts
	customer.Documents = o.processDocuments(ctx, &customer, req.Documents)
	span.SetAttributes(attribute.String("customer.id", customer.CustomerID))

	o.invalidate(ctx, customer.CustomerID)
	o.notify(EventCustomerCreated, customer)
	return &customer, nil
}

func sequenceBackoff(ctx context.Context, attempts int) backoff.BackOff {
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// commitCustomer runs one attempt of the relational part of onboarding. Nothing is visible
// to other readers until the commit succeeds.
func (o *Onboard) commitCustomer(ctx context.Context, c *model.Customer, accounts []model.Account, compliance *model.ComplianceRecord, floor int64) error {
	uow, err := o.datasource.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := uow.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("failed to roll back onboarding")
		}
	}()

	seq, err := o.datasource.AllocateSequence(ctx, uow, c.BranchCode, floor)
	if err != nil {
		return err
	}

	now := o.clock()
	c.SeqID = seq
	c.CustomerID = model.CustomerExternalID(c.BranchCode, seq)
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Compliance = nil

	if err := o.datasource.InsertCustomer(ctx, uow, c); err != nil {
		return err
	}

	if !compliance.IsEmpty() && c.Status != model.LifecycleUpdate {
		record := *compliance
		record.ComplianceID = model.ComplianceRecordID(c.CustomerID, now)
		record.CustomerID = c.CustomerID
		record.BranchCode = c.BranchCode
		record.SeqID = c.SeqID
		record.CreatedAt = now
		if err := o.datasource.InsertComplianceRecord(ctx, uow, &record); err != nil {
			return err
		}
		c.Compliance = &record
	}

	for i := range accounts {
		accounts[i].AttachTo(c, now)
		if err := o.datasource.InsertAccount(ctx, uow, &accounts[i]); err != nil {
			return err
		}
	}

	return uow.Commit()
}

// GetCustomer loads one customer aggregate. Records outside the caller's branch or review
// visibility are reported as missing.
func (o *Onboard) GetCustomer(ctx context.Context, customerID string, caller model.Caller) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "GetCustomer", trace.WithAttributes(attribute.String("customer.id", customerID)))
	defer span.End()

	c, err := o.datasource.GetCustomerByID(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, storeError("failed to fetch customer", err, logrus.Fields{"customer_id": customerID})
	}
	if !canView(caller, c) {
		return nil, customerNotFound(customerID)
	}
	return c, nil
}

// ListCustomers returns one page of customers visible to the caller.
func (o *Onboard) ListCustomers(ctx context.Context, q model.CustomerQuery, caller model.Caller) (*model.CustomerPage, error) {
	ctx, span := tracer.Start(ctx, "ListCustomers")
	defer span.End()

	cfg := loadSettings()
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if q.PageSize < 1 {
		q.PageSize = cfg.defaultPageSize
	}
	if q.PageSize > cfg.maxPageSize {
		q.PageSize = cfg.maxPageSize
	}

	if !caller.Unrestricted() && caller.Branch != "" {
		q.Branch = caller.Branch
	}
	q.ReviewStatuses = model.ReviewPolicyFor(caller.Role).EffectiveReviewStatuses(q.ReviewStatuses)

	customers, total, err := o.datasource.ListCustomers(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, storeError("failed to list customers", err, logrus.Fields{
			"branch_code": q.Branch,
			"page":        q.PageNumber,
			"search":      q.Search,
		})
	}
	return model.NewCustomerPage(customers, q.PageNumber, q.PageSize, total), nil
}

// UpdateCustomer amends the identity fields of an existing customer. The record goes back
// to Pending review and no compliance record is created.
func (o *Onboard) UpdateCustomer(ctx context.Context, customerID string, update model.Customer, caller model.Caller) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "UpdateCustomer", trace.WithAttributes(attribute.String("customer.id", customerID)))
	defer span.End()

	existing, err := o.GetCustomer(ctx, customerID, caller)
	if err != nil {
		return nil, err
	}

	updated := update
	updated.CustomerID = existing.CustomerID
	updated.BranchCode = existing.BranchCode
	updated.SeqID = existing.SeqID
	updated.Status = model.LifecycleUpdate
	updated.ReviewStatus = model.ReviewPending
	updated.ReviewedBy = ""
	updated.ReviewedAt = nil
	if strings.TrimSpace(updated.Name) == "" {
		updated.Name = updated.FullName()
	}
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = o.clock()

	if err := NewValidator(o.datasource).ValidateCustomer(ctx, &updated, existing.CustomerID); err != nil {
		return nil, err
	}

	uow, err := o.datasource.Begin(ctx)
	if err != nil {
		return nil, storeError("failed to update customer", err, logrus.Fields{"customer_id": customerID})
	}
	defer func() { _ = uow.Rollback() }()

	if err := o.datasource.UpdateCustomer(ctx, uow, &updated); err != nil {
		return nil, storeError("failed to update customer", err, logrus.Fields{"customer_id": customerID})
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to update customer", err, logrus.Fields{"customer_id": customerID})
	}

	updated.Accounts = existing.Accounts
	updated.Documents = existing.Documents
	updated.Compliance = existing.Compliance

	o.invalidate(ctx, customerID)
	o.notify(EventCustomerUpdated, updated)
	return &updated, nil
}

func canView(caller model.Caller, c *model.Customer) bool {
	return caller.CanAccessBranch(c.BranchCode) && model.ReviewPolicyFor(caller.Role).CanSee(c.ReviewStatus)
}

func customerNotFound(customerID string) error {
	return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("customer with ID '%s' not found", customerID), nil)
}

// storeError passes typed errors through and hides everything else behind an opaque message.
func storeError(message string, err error, fields logrus.Fields) error {
	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierror.Internal(message, err, fields)
}
